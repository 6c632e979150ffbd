package ops

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/config"
	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/db"
	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/errors"
	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/recap"
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // fail on collision (atomic)
	ImportModeReplace ImportMode = "replace" // overwrite on collision
	ImportModeSkip    ImportMode = "skip"    // keep existing, skip incoming
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError represents an error that occurred during import.
type ImportError struct {
	Line      int    `json:"line,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// Import loads recaps from a JSONL export file.
func Import(database *sql.DB, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeReplace && input.Mode != ImportModeSkip {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace, skip")
	}

	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if _, ok := err.(*errors.ClewError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	records, parseErrors := parseExportFile(file)

	// mode:error imports nothing when any line fails to parse
	if input.Mode == ImportModeError && len(parseErrors) > 0 {
		return &ImportOutput{Errors: parseErrors}, nil
	}

	switch input.Mode {
	case ImportModeError:
		return importModeError(database, records)
	case ImportModeReplace:
		return importModeReplace(database, records, parseErrors)
	default:
		return importModeSkip(database, records, parseErrors)
	}
}

// parseExportFile parses a JSONL export file into records.
func parseExportFile(file *os.File) ([]*recap.Record, []ImportError) {
	var records []*recap.Record
	var parseErrors []ImportError

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var exported recap.ExportRecord
		if err := json.Unmarshal(line, &exported); err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "PARSE_ERROR",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}

		// Skip header line
		if exported.AclewExport {
			continue
		}

		if exported.ID == "" || exported.SessionID == "" {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "INVALID_RECORD",
				Message: "missing id or session_id field",
			})
			continue
		}

		record := exported.ToRecord()
		if err := record.Recap.Validate(); err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:      lineNum,
				SessionID: exported.SessionID,
				Code:      "INVALID_RECORD",
				Message:   fmt.Sprintf("invalid recap: %v", err),
			})
			continue
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		parseErrors = append(parseErrors, ImportError{
			Line:    lineNum,
			Code:    "READ_ERROR",
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
	}

	return records, parseErrors
}

// importModeError imports all records atomically, aborting on any collision.
func importModeError(database *sql.DB, records []*recap.Record) (*ImportOutput, error) {
	tx, err := database.Begin()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	imported := 0
	// Collisions can come from the store or from earlier lines of the same
	// file; the transaction is not visible to activeSessionExists.
	seen := make(map[string]bool)
	for _, record := range records {
		if record.DeletedAt == nil {
			exists, err := activeSessionExists(database, record.SessionID)
			if err != nil {
				return nil, err
			}
			if exists || seen[record.SessionID] {
				return &ImportOutput{
					Errors: []ImportError{{
						SessionID: record.SessionID,
						Code:      "SESSION_COLLISION",
						Message:   fmt.Sprintf("recap for session %q already exists", record.SessionID),
					}},
				}, nil
			}
			seen[record.SessionID] = true
		}

		if err := insertWithTx(tx, record); err != nil {
			return nil, err
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return &ImportOutput{Imported: imported}, nil
}

// importModeReplace imports records, overwriting existing sessions.
func importModeReplace(database *sql.DB, records []*recap.Record, parseErrors []ImportError) (*ImportOutput, error) {
	imported := 0
	skipped := len(parseErrors)
	importErrors := append([]ImportError{}, parseErrors...)

	for _, record := range records {
		if record.DeletedAt != nil {
			// Deleted records never collide with the active unique index
			if err := db.Insert(database, record); err != nil {
				importErrors = append(importErrors, ImportError{
					SessionID: record.SessionID,
					Code:      "INSERT_FAILED",
					Message:   fmt.Sprintf("failed to insert: %v", err),
				})
				skipped++
				continue
			}
			imported++
			continue
		}

		if _, err := db.Upsert(database, record); err != nil {
			importErrors = append(importErrors, ImportError{
				SessionID: record.SessionID,
				Code:      "INSERT_FAILED",
				Message:   fmt.Sprintf("failed to store: %v", err),
			})
			skipped++
			continue
		}
		imported++
	}

	return &ImportOutput{
		Imported: imported,
		Skipped:  skipped,
		Errors:   importErrors,
	}, nil
}

// importModeSkip imports records, keeping existing sessions untouched.
func importModeSkip(database *sql.DB, records []*recap.Record, parseErrors []ImportError) (*ImportOutput, error) {
	imported := 0
	skipped := len(parseErrors)
	importErrors := append([]ImportError{}, parseErrors...)

	for _, record := range records {
		if record.DeletedAt == nil {
			exists, err := activeSessionExists(database, record.SessionID)
			if err != nil {
				return nil, err
			}
			if exists {
				skipped++
				continue
			}
		}

		if err := db.Insert(database, record); err != nil {
			importErrors = append(importErrors, ImportError{
				SessionID: record.SessionID,
				Code:      "INSERT_FAILED",
				Message:   fmt.Sprintf("failed to insert: %v", err),
			})
			skipped++
			continue
		}
		imported++
	}

	return &ImportOutput{
		Imported: imported,
		Skipped:  skipped,
		Errors:   importErrors,
	}, nil
}

// activeSessionExists reports whether an active record holds the session key.
func activeSessionExists(database *sql.DB, sessionID string) (bool, error) {
	_, err := db.GetBySession(database, sessionID, false)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, errors.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// insertWithTx inserts a record within a transaction.
func insertWithTx(tx *sql.Tx, r *recap.Record) error {
	recapJSON, err := json.Marshal(r.Recap)
	if err != nil {
		return errors.NewInternal(err)
	}

	var source sql.NullString
	if r.Source != nil {
		source = sql.NullString{String: *r.Source, Valid: true}
	}
	var deletedAt sql.NullInt64
	if r.DeletedAt != nil {
		deletedAt = sql.NullInt64{Int64: *r.DeletedAt, Valid: true}
	}

	finalPresent := 0
	if r.FinalPresent {
		finalPresent = 1
	}

	query := `
		INSERT INTO recaps (
			id, session_id, recap_json, summary, final_present,
			rejected_count, transcript_chars, tokens_estimate,
			source, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		r.ID, r.SessionID, string(recapJSON), r.Summary, finalPresent,
		r.RejectedCount, r.TranscriptChars, r.TokensEstimate,
		source, r.CreatedAt, r.UpdatedAt, deletedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}
