package recap

// Rejection reason codes. ReasonExtraSnippet marks a snippet that validated
// but arrived after a final had already been chosen.
const (
	ReasonExtraSnippet = "extra snippet"
	ReasonInvalid      = "invalid"
)

// reconcileState is the phase of the selection state machine.
type reconcileState int

const (
	seekingFinal reconcileState = iota
	finalChosen
)

// Reconcile walks the enriched, validated snippets in transcript order and
// partitions them into at most one final snippet and zero or more rejected
// snippets. The first valid snippet wins; every later snippet is rejected,
// with "extra snippet" as the reason when it was itself valid. Deterministic:
// the same input always yields the same partition.
func Reconcile(snippets []EnrichedSnippet) (*EnrichedSnippet, []EnrichedSnippet) {
	state := seekingFinal
	var final *EnrichedSnippet
	rejected := make([]EnrichedSnippet, 0, len(snippets))

	for _, snippet := range snippets {
		switch state {
		case seekingFinal:
			if snippet.Validation.Status == StatusValid {
				chosen := snippet
				final = &chosen
				state = finalChosen
				continue
			}
			snippet.Validation.Reason = rejectionReason(snippet.Validation)
			rejected = append(rejected, snippet)

		case finalChosen:
			if snippet.Validation.Status == StatusValid {
				snippet.Validation.Reason = ReasonExtraSnippet
			} else {
				snippet.Validation.Reason = rejectionReason(snippet.Validation)
			}
			rejected = append(rejected, snippet)
		}
	}

	return final, rejected
}

// rejectionReason prefers the validator's own diagnostic over the generic
// reason code.
func rejectionReason(verdict ValidationVerdict) string {
	if verdict.Message != "" {
		return verdict.Message
	}
	return ReasonInvalid
}
