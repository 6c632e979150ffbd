package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/config"
	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/db"
	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/errors"
	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/recap"
	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/sanitize"
)

// StoreMode controls collision behavior when storing a computed recap.
type StoreMode string

const (
	StoreModeError   StoreMode = "error"   // default: fail on session collision
	StoreModeReplace StoreMode = "replace" // overwrite existing
)

// ComputeInput contains parameters for the Compute operation.
type ComputeInput struct {
	SessionID  *string // optional, generated when absent
	Transcript string  // required
	Source     *string // where the transcript came from (e.g. "cli", "web")
	Store      bool    // persist the recap after computing
	Mode       StoreMode
}

// ComputeOutput contains the result of the Compute operation.
type ComputeOutput struct {
	SessionID       string      `json:"session_id"`
	Recap           recap.Recap `json:"recap"`
	Stored          bool        `json:"stored"`
	ID              string      `json:"id,omitempty"`
	TranscriptChars int         `json:"transcript_chars"`
	TokensEstimate  int         `json:"tokens_estimate"`
}

// Compute runs the full pipeline over a transcript: sanitize, classify,
// validate, reconcile, assemble. Optionally persists the result.
func Compute(ctx context.Context, database *sql.DB, cfg *config.Config, input ComputeInput) (*ComputeOutput, error) {
	if input.Transcript == "" {
		return nil, errors.NewInvalidRequest("transcript is required")
	}
	if input.Mode == "" {
		input.Mode = StoreModeError
	}
	if input.Mode != StoreModeError && input.Mode != StoreModeReplace {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace")
	}
	input.Source = cleanOptionalString(input.Source)

	// Sanitize before the pipeline ever sees the text
	maxChars := sanitize.DefaultMaxChars
	if cfg != nil && cfg.MaxInputChars > 0 {
		maxChars = cfg.MaxInputChars
	}
	if sanitize.ExceedsSizeLimit(input.Transcript, maxChars) {
		return nil, errors.NewInputTooLarge(maxChars, recap.CountChars(input.Transcript))
	}

	var extraTerms []string
	if cfg != nil {
		extraTerms = cfg.DenyTerms
	}
	if sanitize.ContainsDenyTerms(input.Transcript, extraTerms) {
		return nil, errors.NewForbiddenContent()
	}

	transcript := sanitize.ScrubPII(input.Transcript)

	// Resolve session id
	var sessionID string
	if input.SessionID != nil {
		validated, err := ValidateSessionID(*input.SessionID)
		if err != nil {
			return nil, err
		}
		sessionID = validated
	} else {
		id, err := generateULID()
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		sessionID = id
	}

	result, err := recap.FromTranscript(sessionID, transcript)
	if err != nil {
		return nil, errors.NewMalformedInput(err.Error())
	}

	out := &ComputeOutput{
		SessionID:       sessionID,
		Recap:           result,
		TranscriptChars: recap.CountChars(transcript),
		TokensEstimate:  recap.EstimateTokens(transcript),
	}

	if !input.Store {
		return out, nil
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	record := &recap.Record{
		ID:              id,
		SessionID:       sessionID,
		Recap:           result,
		Summary:         result.Summary,
		FinalPresent:    result.Final != nil,
		RejectedCount:   len(result.RejectedVersions),
		TranscriptChars: out.TranscriptChars,
		TokensEstimate:  out.TokensEstimate,
		Source:          input.Source,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if input.Mode == StoreModeReplace {
		// Atomic upsert: a concurrent compute on the same session cannot
		// leave two active rows behind.
		storedID, err := db.Upsert(database, record)
		if err != nil {
			return nil, err
		}
		out.Stored = true
		out.ID = storedID
		return out, nil
	}

	if err := db.Insert(database, record); err != nil {
		if err == db.ErrUniqueConstraint {
			return nil, errors.NewSessionExists(sessionID)
		}
		return nil, err
	}

	out.Stored = true
	out.ID = id
	return out, nil
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
