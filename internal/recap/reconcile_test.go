package recap

import "testing"

func enrichedWith(verdicts ...ValidationVerdict) []EnrichedSnippet {
	snippets := make([]EnrichedSnippet, 0, len(verdicts))
	for i, verdict := range verdicts {
		snippets = append(snippets, EnrichedSnippet{
			Version:    i + 1,
			SnippetID:  string(rune('a' + i)),
			Content:    "code",
			Validation: verdict,
		})
	}
	return snippets
}

func TestReconcile_FirstValidWins(t *testing.T) {
	final, rejected := Reconcile(enrichedWith(
		ValidationVerdict{Status: StatusValid},
		ValidationVerdict{Status: StatusValid},
	))

	if final == nil {
		t.Fatal("final = nil, want first snippet")
	}
	if final.Version != 1 {
		t.Errorf("final.Version = %d, want 1", final.Version)
	}
	if len(rejected) != 1 {
		t.Fatalf("len(rejected) = %d, want 1", len(rejected))
	}
	if rejected[0].Validation.Reason != ReasonExtraSnippet {
		t.Errorf("Reason = %q, want %q", rejected[0].Validation.Reason, ReasonExtraSnippet)
	}
}

func TestReconcile_InvalidBeforeFinal(t *testing.T) {
	final, rejected := Reconcile(enrichedWith(
		ValidationVerdict{Status: StatusInvalid, Message: "syntax error: bad"},
		ValidationVerdict{Status: StatusValid},
	))

	if final == nil || final.Version != 2 {
		t.Fatalf("final = %v, want version 2", final)
	}
	if len(rejected) != 1 {
		t.Fatalf("len(rejected) = %d, want 1", len(rejected))
	}
	if rejected[0].Validation.Reason != "syntax error: bad" {
		t.Errorf("Reason = %q, want validator message", rejected[0].Validation.Reason)
	}
}

func TestReconcile_PartialIsNotFinal(t *testing.T) {
	final, rejected := Reconcile(enrichedWith(
		ValidationVerdict{Status: StatusPartial, Message: "incomplete snippet"},
	))

	if final != nil {
		t.Errorf("final = %v, want nil", final)
	}
	if len(rejected) != 1 || rejected[0].Validation.Reason != "incomplete snippet" {
		t.Errorf("rejected = %v", rejected)
	}
}

func TestReconcile_InvalidAfterFinalKeepsOwnReason(t *testing.T) {
	_, rejected := Reconcile(enrichedWith(
		ValidationVerdict{Status: StatusValid},
		ValidationVerdict{Status: StatusInvalid, Message: "syntax error: nope"},
	))

	if len(rejected) != 1 {
		t.Fatalf("len(rejected) = %d, want 1", len(rejected))
	}
	if rejected[0].Validation.Reason != "syntax error: nope" {
		t.Errorf("Reason = %q, want invalidity reason, not extra-snippet", rejected[0].Validation.Reason)
	}
}

func TestReconcile_EmptyInput(t *testing.T) {
	final, rejected := Reconcile(nil)
	if final != nil {
		t.Errorf("final = %v, want nil", final)
	}
	if len(rejected) != 0 {
		t.Errorf("len(rejected) = %d, want 0", len(rejected))
	}
}

func TestReconcile_NoValidSnippets(t *testing.T) {
	final, rejected := Reconcile(enrichedWith(
		ValidationVerdict{Status: StatusInvalid, Message: "syntax error: a"},
		ValidationVerdict{Status: StatusPartial, Message: "incomplete snippet"},
		ValidationVerdict{Status: StatusInvalid},
	))

	if final != nil {
		t.Errorf("final = %v, want nil", final)
	}
	if len(rejected) != 3 {
		t.Fatalf("len(rejected) = %d, want 3", len(rejected))
	}
	if rejected[2].Validation.Reason != ReasonInvalid {
		t.Errorf("Reason = %q, want generic %q when no message", rejected[2].Validation.Reason, ReasonInvalid)
	}
}

// Completeness: every snippet lands in exactly one of final or rejected.
func TestReconcile_Completeness(t *testing.T) {
	verdictSets := [][]ValidationVerdict{
		{},
		{{Status: StatusValid}},
		{{Status: StatusInvalid}, {Status: StatusValid}, {Status: StatusValid}},
		{{Status: StatusPartial}, {Status: StatusInvalid}},
		{{Status: StatusValid}, {Status: StatusValid}, {Status: StatusInvalid}},
	}

	for _, verdicts := range verdictSets {
		input := enrichedWith(verdicts...)
		final, rejected := Reconcile(input)

		got := len(rejected)
		if final != nil {
			got++
		}
		if got != len(input) {
			t.Errorf("verdicts %v: partition covers %d of %d snippets", verdicts, got, len(input))
		}

		seen := make(map[string]bool)
		if final != nil {
			seen[final.SnippetID] = true
		}
		for _, snippet := range rejected {
			if seen[snippet.SnippetID] {
				t.Errorf("verdicts %v: snippet %q appears twice", verdicts, snippet.SnippetID)
			}
			seen[snippet.SnippetID] = true
		}
	}
}

func TestReconcile_Deterministic(t *testing.T) {
	input := enrichedWith(
		ValidationVerdict{Status: StatusInvalid, Message: "syntax error: x"},
		ValidationVerdict{Status: StatusValid},
		ValidationVerdict{Status: StatusValid},
	)

	final1, rejected1 := Reconcile(input)
	final2, rejected2 := Reconcile(input)

	if final1.SnippetID != final2.SnippetID || len(rejected1) != len(rejected2) {
		t.Error("Reconcile is not deterministic")
	}
}
