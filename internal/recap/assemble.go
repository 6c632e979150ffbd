package recap

import "fmt"

// Quality flag strings reported by Assemble.
const (
	FlagRejectedPresent = "some code blocks failed validation"
	FlagFinalPresent    = "valid snippet identified"
	FlagNoValidCode     = "no valid code found"
)

// Assemble packages the reconciler's output into the canonical Recap record.
// Pure formatting over already-validated data: it never fails. Text segments
// are accepted for interface completeness; inferring insights from them is
// the job of an external collaborator, so aha_moments stays empty here.
func Assemble(sessionID string, final *EnrichedSnippet, rejected []EnrichedSnippet, textSegments []Segment) Recap {
	if rejected == nil {
		rejected = []EnrichedSnippet{}
	}

	qualityFlags := make([]string, 0, 2)
	if len(rejected) > 0 {
		qualityFlags = append(qualityFlags, FlagRejectedPresent)
	}
	if final != nil {
		qualityFlags = append(qualityFlags, FlagFinalPresent)
	} else {
		qualityFlags = append(qualityFlags, FlagNoValidCode)
	}

	return Recap{
		SessionID:        sessionID,
		Final:            final,
		RejectedVersions: rejected,
		Summary:          summarize(final, len(rejected)),
		AhaMoments:       []string{},
		QualityFlags:     qualityFlags,
	}
}

// summarize renders the deterministic one-sentence session summary.
func summarize(final *EnrichedSnippet, rejectedCount int) string {
	if final != nil {
		return fmt.Sprintf("Found valid code snippet. %d rejected versions.", rejectedCount)
	}
	return fmt.Sprintf("No valid code found. %d rejected versions.", rejectedCount)
}
