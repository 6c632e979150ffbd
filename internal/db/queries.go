package db

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/errors"
	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/recap"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
// Callers map it to the appropriate conflict error for their surface.
var ErrUniqueConstraint = stderrors.New("unique constraint violation")

// Insert stores a new recap record. Fails with ErrUniqueConstraint when an
// active record with the same session id exists.
func Insert(db *sql.DB, r *recap.Record) error {
	recapJSON, err := json.Marshal(r.Recap)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO recaps (
			id, session_id, recap_json, summary, final_present,
			rejected_count, transcript_chars, tokens_estimate,
			source, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err = db.Exec(query,
		r.ID, r.SessionID, string(recapJSON), r.Summary, boolToInt(r.FinalPresent),
		r.RejectedCount, r.TranscriptChars, r.TokensEstimate,
		toNullString(r.Source), r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// Upsert stores a recap record, replacing any active record with the same
// session id. Returns the id of the stored row (the existing row's id when
// replacing). Runs in a transaction to stay atomic under concurrent callers.
func Upsert(db *sql.DB, r *recap.Record) (string, error) {
	recapJSON, err := json.Marshal(r.Recap)
	if err != nil {
		return "", errors.NewInternal(err)
	}

	tx, err := db.Begin()
	if err != nil {
		return "", errors.NewInternal(err)
	}
	defer tx.Rollback()

	var existingID string
	err = tx.QueryRow(
		`SELECT id FROM recaps WHERE session_id = ? AND deleted_at IS NULL`,
		r.SessionID,
	).Scan(&existingID)

	switch {
	case err == sql.ErrNoRows:
		insert := `
			INSERT INTO recaps (
				id, session_id, recap_json, summary, final_present,
				rejected_count, transcript_chars, tokens_estimate,
				source, created_at, updated_at, deleted_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
		`
		if _, err := tx.Exec(insert,
			r.ID, r.SessionID, string(recapJSON), r.Summary, boolToInt(r.FinalPresent),
			r.RejectedCount, r.TranscriptChars, r.TokensEstimate,
			toNullString(r.Source), r.CreatedAt, r.UpdatedAt,
		); err != nil {
			return "", errors.NewInternal(err)
		}
		existingID = r.ID

	case err != nil:
		return "", errors.NewInternal(err)

	default:
		update := `
			UPDATE recaps
			SET recap_json = ?, summary = ?, final_present = ?,
				rejected_count = ?, transcript_chars = ?, tokens_estimate = ?,
				source = ?, updated_at = ?
			WHERE id = ?
		`
		if _, err := tx.Exec(update,
			string(recapJSON), r.Summary, boolToInt(r.FinalPresent),
			r.RejectedCount, r.TranscriptChars, r.TokensEstimate,
			toNullString(r.Source), r.UpdatedAt, existingID,
		); err != nil {
			return "", errors.NewInternal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", errors.NewInternal(err)
	}

	return existingID, nil
}

// GetBySession retrieves a recap record by session id.
// If includeDeleted is false, soft-deleted records are excluded.
func GetBySession(db *sql.DB, sessionID string, includeDeleted bool) (*recap.Record, error) {
	query := `
		SELECT id, session_id, recap_json, summary, final_present,
			rejected_count, transcript_chars, tokens_estimate,
			source, created_at, updated_at, deleted_at
		FROM recaps
		WHERE session_id = ?
	`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	} else {
		// Prefer the active record; fall back to the most recently updated
		// deleted one.
		query += " ORDER BY (deleted_at IS NULL) DESC, updated_at DESC LIMIT 1"
	}

	r, err := scanRecord(db.QueryRow(query, sessionID))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(sessionID)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return r, nil
}

// GetLatest retrieves the most recently updated recap record, or nil when
// the store is empty.
func GetLatest(db *sql.DB, includeDeleted bool) (*recap.Record, error) {
	query := `
		SELECT id, session_id, recap_json, summary, final_present,
			rejected_count, transcript_chars, tokens_estimate,
			source, created_at, updated_at, deleted_at
		FROM recaps
	`
	if !includeDeleted {
		query += " WHERE deleted_at IS NULL"
	}
	query += " ORDER BY updated_at DESC LIMIT 1"

	r, err := scanRecord(db.QueryRow(query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return r, nil
}

// ListSummaries returns record summaries ordered by updated_at descending,
// along with the total count for pagination.
func ListSummaries(db *sql.DB, limit, offset int, includeDeleted bool) ([]recap.RecordSummary, int, error) {
	where := ""
	if !includeDeleted {
		where = " WHERE deleted_at IS NULL"
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM recaps" + where).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT id, session_id, summary, final_present, rejected_count,
			transcript_chars, tokens_estimate, source,
			created_at, updated_at, deleted_at
		FROM recaps` + where + `
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.Query(query, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	summaries := make([]recap.RecordSummary, 0, limit)
	for rows.Next() {
		var (
			s            recap.RecordSummary
			finalPresent int
			source       sql.NullString
			deletedAt    sql.NullInt64
		)
		if err := rows.Scan(
			&s.ID, &s.SessionID, &s.Summary, &finalPresent, &s.RejectedCount,
			&s.TranscriptChars, &s.TokensEstimate, &source,
			&s.CreatedAt, &s.UpdatedAt, &deletedAt,
		); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		s.FinalPresent = finalPresent != 0
		s.Source = fromNullString(source)
		if deletedAt.Valid {
			s.DeletedAt = &deletedAt.Int64
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return summaries, total, nil
}

// SoftDelete marks the active record for a session as deleted.
func SoftDelete(db *sql.DB, sessionID string) error {
	now := time.Now().Unix()

	result, err := db.Exec(
		`UPDATE recaps SET deleted_at = ? WHERE session_id = ? AND deleted_at IS NULL`,
		now, sessionID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(sessionID)
	}

	return nil
}

// PurgeDeleted permanently removes soft-deleted records. When olderThanDays
// is set, only records deleted before the cutoff are removed.
func PurgeDeleted(db *sql.DB, olderThanDays *int) (int, error) {
	query := "DELETE FROM recaps WHERE deleted_at IS NOT NULL"
	args := []any{}

	if olderThanDays != nil {
		cutoff := time.Now().AddDate(0, 0, -*olderThanDays).Unix()
		query += " AND deleted_at < ?"
		args = append(args, cutoff)
	}

	result, err := db.Exec(query, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	return int(count), nil
}

// StreamForExport returns rows over all records for export, oldest first.
// The caller owns the rows and must Close them; use ScanExportRecord per row.
func StreamForExport(ctx context.Context, db *sql.DB, includeDeleted bool) (*sql.Rows, error) {
	query := `
		SELECT id, session_id, recap_json, summary, final_present,
			rejected_count, transcript_chars, tokens_estimate,
			source, created_at, updated_at, deleted_at
		FROM recaps
	`
	if !includeDeleted {
		query += " WHERE deleted_at IS NULL"
	}
	query += " ORDER BY created_at ASC"

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rows, nil
}

// ScanExportRecord scans one export row into a Record.
func ScanExportRecord(rows *sql.Rows) (*recap.Record, error) {
	return scanRecordFrom(rows.Scan)
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// scanRecord scans a single row into a Record.
func scanRecord(row *sql.Row) (*recap.Record, error) {
	return scanRecordFrom(row.Scan)
}

func scanRecordFrom(scan func(...any) error) (*recap.Record, error) {
	var (
		r            recap.Record
		recapJSON    string
		finalPresent int
		source       sql.NullString
		deletedAt    sql.NullInt64
	)

	err := scan(
		&r.ID, &r.SessionID, &recapJSON, &r.Summary, &finalPresent,
		&r.RejectedCount, &r.TranscriptChars, &r.TokensEstimate,
		&source, &r.CreatedAt, &r.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	// Stored recaps go through the same strict decode as external input, so
	// a corrupted row surfaces here instead of downstream.
	decoded, err := recap.DecodeRecap([]byte(recapJSON))
	if err != nil {
		return nil, err
	}
	r.Recap = *decoded

	r.FinalPresent = finalPresent != 0
	r.Source = fromNullString(source)
	if deletedAt.Valid {
		r.DeletedAt = &deletedAt.Int64
	}

	return &r, nil
}

// boolToInt converts a bool to its SQLite integer form.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
