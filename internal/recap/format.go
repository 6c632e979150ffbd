package recap

import (
	"fmt"
	"strings"
)

// HumanReadable renders the recap as a short plain-text report, the
// counterpart to the raw JSON shape.
func (r *Recap) HumanReadable() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session: %s\n", r.SessionID)

	if r.Final != nil {
		fmt.Fprintf(&b, "Final snippet selected (v%d)\n", r.Final.Version)
	} else {
		b.WriteString("No final snippet found\n")
	}

	if len(r.RejectedVersions) > 0 {
		fmt.Fprintf(&b, "%d rejected versions\n", len(r.RejectedVersions))
	}
	if len(r.AhaMoments) > 0 {
		fmt.Fprintf(&b, "Aha moments: %s\n", strings.Join(r.AhaMoments, ", "))
	}
	if len(r.QualityFlags) > 0 {
		fmt.Fprintf(&b, "Flags: %s\n", strings.Join(r.QualityFlags, ", "))
	}

	fmt.Fprintf(&b, "What you built: %s", r.Summary)

	return b.String()
}

// Markdown renders the recap as a markdown document with fenced code and
// diff blocks, suitable for HTML conversion.
func (r *Recap) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Recap %s\n\n%s\n", r.SessionID, r.Summary)

	if r.Final != nil {
		fmt.Fprintf(&b, "\n## Final snippet (v%d)\n\n", r.Final.Version)
		writeFence(&b, "go", r.Final.Content)
	}

	for _, snippet := range r.RejectedVersions {
		fmt.Fprintf(&b, "\n## Rejected v%d: %s\n\n", snippet.Version, snippet.Validation.Reason)
		writeFence(&b, "go", snippet.Content)
		if snippet.DiffSummary != DiffNoPrior && snippet.DiffSummary != DiffNoChange {
			b.WriteString("\n")
			writeFence(&b, "diff", snippet.DiffSummary)
		}
	}

	if len(r.QualityFlags) > 0 {
		b.WriteString("\n## Flags\n\n")
		for _, flag := range r.QualityFlags {
			fmt.Fprintf(&b, "- %s\n", flag)
		}
	}

	return b.String()
}

func writeFence(b *strings.Builder, lang, content string) {
	fmt.Fprintf(b, "```%s\n%s", lang, content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n")
}
