package recap

// Record is a stored recap plus the bookkeeping the persistence layer keeps
// around it. The recap itself is immutable once computed; only the envelope
// (source, timestamps, soft-delete marker) changes.
type Record struct {
	// ID is a ULID that uniquely identifies this stored record
	ID string

	// SessionID is the caller-chosen key the recap is stored under
	SessionID string

	// Recap is the full structured output record
	Recap Recap

	// Summary duplicates Recap.Summary for listing without decoding JSON
	Summary string

	// FinalPresent records whether a final snippet was selected
	FinalPresent bool

	// RejectedCount is the number of rejected versions
	RejectedCount int

	// TranscriptChars is the rune count of the sanitized transcript
	TranscriptChars int

	// TokensEstimate is the estimated token count for LLM context budgeting
	TokensEstimate int

	// Source indicates where the transcript came from (e.g. "cli", "web")
	Source *string

	// CreatedAt is the Unix timestamp when the record was created
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the record was last replaced
	UpdatedAt int64

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64
}

// RecordSummary is a record's metadata without the recap body. Used for
// browse operations to reduce data transfer.
type RecordSummary struct {
	ID              string  `json:"id"`
	SessionID       string  `json:"session_id"`
	Summary         string  `json:"summary"`
	FinalPresent    bool    `json:"final_present"`
	RejectedCount   int     `json:"rejected_count"`
	TranscriptChars int     `json:"transcript_chars"`
	TokensEstimate  int     `json:"tokens_estimate"`
	Source          *string `json:"source,omitempty"`
	CreatedAt       int64   `json:"created_at"`
	UpdatedAt       int64   `json:"updated_at"`
	DeletedAt       *int64  `json:"deleted_at,omitempty"`
}

// ToSummary converts a Record to a RecordSummary by stripping the recap body.
func (r *Record) ToSummary() RecordSummary {
	return RecordSummary{
		ID:              r.ID,
		SessionID:       r.SessionID,
		Summary:         r.Summary,
		FinalPresent:    r.FinalPresent,
		RejectedCount:   r.RejectedCount,
		TranscriptChars: r.TranscriptChars,
		TokensEstimate:  r.TokensEstimate,
		Source:          r.Source,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		DeletedAt:       r.DeletedAt,
	}
}
