package ops

import (
	"context"
	"database/sql"

	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/db"
	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/recap"
)

// LatestInput contains parameters for the Latest operation.
type LatestInput struct {
	IncludeRecap   *bool // default: false (summary only)
	IncludeDeleted bool
}

// LatestOutput contains the result of the Latest operation.
type LatestOutput struct {
	Item *LatestItem `json:"item"` // nil when the store is empty
}

// LatestItem contains the most recent recap with optional body.
type LatestItem struct {
	recap.RecordSummary              // embedded summary
	Recap               *recap.Recap `json:"recap,omitempty"` // only if include_recap
	ContextLine         string       `json:"context_line"`
}

// Latest retrieves the most recently updated recap.
func Latest(ctx context.Context, database *sql.DB, input LatestInput) (*LatestOutput, error) {
	includeRecap := false
	if input.IncludeRecap != nil {
		includeRecap = *input.IncludeRecap
	}

	record, err := db.GetLatest(database, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return &LatestOutput{Item: nil}, nil
	}

	item := &LatestItem{
		RecordSummary: record.ToSummary(),
		ContextLine:   BuildContextLine(record),
	}
	if includeRecap {
		item.Recap = &record.Recap
	}

	return &LatestOutput{Item: item}, nil
}
