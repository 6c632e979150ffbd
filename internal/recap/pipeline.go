package recap

// ComputeRecap runs the reconciliation pipeline over pre-classified blocks:
// validate each code segment, dedupe, enrich, reconcile, assemble. Text
// segments flow alongside for the assembler but do not participate in
// selection. The pipeline holds no shared state; concurrent invocations are
// safe as long as each call owns its input slice.
func ComputeRecap(sessionID string, blocks []Segment) Recap {
	codeSegments := make([]Segment, 0, len(blocks))
	textSegments := make([]Segment, 0, len(blocks))
	for _, block := range blocks {
		switch block.Kind {
		case SegmentCode:
			codeSegments = append(codeSegments, block)
		case SegmentText:
			textSegments = append(textSegments, block)
		}
	}

	enriched := Enrich(Dedupe(codeSegments))
	for i := range enriched {
		enriched[i].Validation = Validate(enriched[i].Content)
	}

	final, rejected := Reconcile(enriched)
	return Assemble(sessionID, final, rejected, textSegments)
}

// FromTranscript classifies a raw transcript and computes its recap.
// Returns ErrMalformedInput when the transcript has an unterminated fence.
func FromTranscript(sessionID, transcript string) (Recap, error) {
	blocks, err := Classify(transcript)
	if err != nil {
		return Recap{}, err
	}
	return ComputeRecap(sessionID, blocks), nil
}
