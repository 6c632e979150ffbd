package ops

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/db"
	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/recap"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	SessionID      string // required
	IncludeDeleted bool
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	recap.RecordSummary             // embedded metadata
	Recap               recap.Recap `json:"recap"`
	ContextLine         string      `json:"context_line"`
}

// Fetch retrieves a stored recap by session id.
func Fetch(ctx context.Context, database *sql.DB, input FetchInput) (*FetchOutput, error) {
	sessionID, err := ValidateSessionID(input.SessionID)
	if err != nil {
		return nil, err
	}

	record, err := db.GetBySession(database, sessionID, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	return &FetchOutput{
		RecordSummary: record.ToSummary(),
		Recap:         record.Recap,
		ContextLine:   BuildContextLine(record),
	}, nil
}

// BuildContextLine produces a one-line description of a stored recap,
// suitable for injecting into a follow-up conversation.
func BuildContextLine(r *recap.Record) string {
	state := "no final snippet"
	if r.FinalPresent {
		state = "final snippet selected"
	}
	return fmt.Sprintf("Session %s: %s, %d rejected versions. %s",
		r.SessionID, state, r.RejectedCount, r.Summary)
}
