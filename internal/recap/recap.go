package recap

// SegmentKind distinguishes prose from fenced code in a classified transcript.
type SegmentKind string

const (
	SegmentText SegmentKind = "text"
	SegmentCode SegmentKind = "code"
)

// Segment is one classified unit of transcript content. Segments are created
// once by Classify and never mutated afterwards.
type Segment struct {
	Kind    SegmentKind `json:"kind"`
	Content string      `json:"content"`
}

// ValidationStatus is the verdict category for a code segment.
type ValidationStatus string

const (
	StatusValid   ValidationStatus = "valid"
	StatusInvalid ValidationStatus = "invalid"

	// StatusPartial marks a snippet that looks cut off mid-thought rather
	// than definitively malformed. Heuristic, not a grammar truth value.
	StatusPartial ValidationStatus = "partial"
)

// ValidationVerdict is attached to every code segment before reconciliation.
type ValidationVerdict struct {
	Status ValidationStatus `json:"status"`

	// Message is the diagnostic from the validator; empty for valid snippets.
	Message string `json:"message,omitempty"`

	// Reason is set by Reconcile on rejected snippets so callers can tell
	// "rejected for being wrong" apart from "rejected as a surplus answer".
	Reason string `json:"reason,omitempty"`
}

// EnrichedSnippet is a deduplicated, versioned, diffed, validated code segment.
type EnrichedSnippet struct {
	// Version is 1-based and assigned in transcript order among survivors.
	Version int `json:"version"`

	// SnippetID is a ULID unique within a single pipeline run.
	SnippetID string `json:"snippet_id"`

	Content string `json:"content"`

	// DiffSummary is a unified diff against the previous surviving snippet,
	// or one of the DiffNoPrior / DiffNoChange sentinels.
	DiffSummary string `json:"diff_summary"`

	Validation ValidationVerdict `json:"validation"`
}

// Recap is the complete structured output record for one transcript.
// The serialized shape is closed: DecodeRecap rejects unknown keys.
type Recap struct {
	SessionID string `json:"session_id"`

	// Final is the single snippet selected as canonical, or null when no
	// code segment validated.
	Final *EnrichedSnippet `json:"final"`

	// RejectedVersions holds every surviving code segment that was not
	// chosen as final, each annotated with a rejection reason.
	RejectedVersions []EnrichedSnippet `json:"rejected_versions"`

	Summary      string   `json:"summary"`
	AhaMoments   []string `json:"aha_moments"`
	QualityFlags []string `json:"quality_flags"`
}
