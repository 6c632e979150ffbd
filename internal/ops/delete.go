package ops

import (
	"context"
	"database/sql"

	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/db"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	SessionID string // required
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted   bool   `json:"deleted"`
	SessionID string `json:"session_id"`
}

// Delete soft-deletes the recap stored under a session id.
func Delete(ctx context.Context, database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	sessionID, err := ValidateSessionID(input.SessionID)
	if err != nil {
		return nil, err
	}

	if err := db.SoftDelete(database, sessionID); err != nil {
		return nil, err
	}

	return &DeleteOutput{
		Deleted:   true,
		SessionID: sessionID,
	}, nil
}
