package recap

import (
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/pmezard/go-difflib/difflib"
)

// Diff summary sentinels. DiffNoPrior marks the first surviving snippet;
// DiffNoChange marks a snippet identical to its predecessor.
const (
	DiffNoPrior  = "No prior version"
	DiffNoChange = "No change"
)

// diffContextLines is the number of unchanged lines shown around each hunk.
const diffContextLines = 2

// Enrich assigns a 1-based version and a fresh ULID to each deduplicated
// code segment and computes a unified diff summary against the immediately
// preceding segment. Pure apart from ID generation: validation status is
// never consulted.
func Enrich(segments []Segment) []EnrichedSnippet {
	enriched := make([]EnrichedSnippet, 0, len(segments))

	for i, segment := range segments {
		diffSummary := DiffNoPrior
		if i > 0 {
			diffSummary = unifiedDiff(segments[i-1].Content, segment.Content, i)
		}

		enriched = append(enriched, EnrichedSnippet{
			Version:     i + 1,
			SnippetID:   ulid.Make().String(),
			Content:     segment.Content,
			DiffSummary: diffSummary,
		})
	}

	return enriched
}

// unifiedDiff renders a line-oriented unified diff of the previous snippet
// against the current one. prevIndex is the 0-based position of the previous
// snippet, used only for the from/to labels.
func unifiedDiff(prev, current string, prevIndex int) string {
	if prev == current {
		return DiffNoChange
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(prev),
		B:        difflib.SplitLines(current),
		FromFile: fmt.Sprintf("v%d", prevIndex),
		ToFile:   fmt.Sprintf("v%d", prevIndex+1),
		Context:  diffContextLines,
	})
	if err != nil || text == "" {
		return DiffNoChange
	}

	return text
}
