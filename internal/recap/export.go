package recap

// ExportRecord is the JSONL line format used by export and import. The
// header line sets AclewExport and carries no record fields.
type ExportRecord struct {
	AclewExport   bool   `json:"_aclew_export,omitempty"`
	SchemaVersion string `json:"schema_version,omitempty"`
	ExportedAt    int64  `json:"exported_at,omitempty"`

	ID              string  `json:"id,omitempty"`
	SessionID       string  `json:"session_id,omitempty"`
	Recap           *Recap  `json:"recap,omitempty"`
	Summary         string  `json:"summary,omitempty"`
	FinalPresent    bool    `json:"final_present,omitempty"`
	RejectedCount   int     `json:"rejected_count,omitempty"`
	TranscriptChars int     `json:"transcript_chars,omitempty"`
	TokensEstimate  int     `json:"tokens_estimate,omitempty"`
	Source          *string `json:"source,omitempty"`
	CreatedAt       int64   `json:"created_at,omitempty"`
	UpdatedAt       int64   `json:"updated_at,omitempty"`
	DeletedAt       *int64  `json:"deleted_at,omitempty"`
}

// RecordToExportRecord converts a stored record into its export line form.
func RecordToExportRecord(r *Record) ExportRecord {
	recapCopy := r.Recap
	return ExportRecord{
		ID:              r.ID,
		SessionID:       r.SessionID,
		Recap:           &recapCopy,
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

// ToRecord converts an export line back into a stored record.
func (e *ExportRecord) ToRecord() *Record {
	r := &Record{
		ID:              e.ID,
		SessionID:       e.SessionID,
		Summary:         e.Summary,
		FinalPresent:    e.FinalPresent,
		RejectedCount:   e.RejectedCount,
		TranscriptChars: e.TranscriptChars,
		TokensEstimate:  e.TokensEstimate,
		Source:          e.Source,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
		DeletedAt:       e.DeletedAt,
	}
	if e.Recap != nil {
		r.Recap = *e.Recap
	}
	return r
}
