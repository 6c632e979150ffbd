package recap

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeRecap_RoundTrip(t *testing.T) {
	original, err := FromTranscript("sess-rt", "```go\nfmt.Println(1)\n```\n```go\nbad ==== 1\n```")
	if err != nil {
		t.Fatalf("FromTranscript failed: %v", err)
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	decoded, err := DecodeRecap(data)
	if err != nil {
		t.Fatalf("DecodeRecap failed: %v", err)
	}

	if decoded.SessionID != original.SessionID {
		t.Errorf("SessionID = %q, want %q", decoded.SessionID, original.SessionID)
	}
	if decoded.Final == nil || decoded.Final.Content != original.Final.Content {
		t.Errorf("Final = %v", decoded.Final)
	}
	if len(decoded.RejectedVersions) != len(original.RejectedVersions) {
		t.Errorf("RejectedVersions length mismatch")
	}
}

func TestDecodeRecap_RejectsUnknownKeys(t *testing.T) {
	data := `{"session_id":"s","final":null,"rejected_versions":[],"summary":"x","aha_moments":[],"quality_flags":[],"bonus":true}`

	_, err := DecodeRecap([]byte(data))
	if err == nil {
		t.Fatal("expected error for unknown top-level key")
	}
	if !strings.Contains(err.Error(), "bonus") {
		t.Errorf("err = %v, want mention of unknown field", err)
	}
}

func TestDecodeRecap_RejectsUnknownNestedKeys(t *testing.T) {
	data := `{"session_id":"s","final":{"version":1,"snippet_id":"a","content":"x","diff_summary":"No prior version","validation":{"status":"valid"},"extra":1},"rejected_versions":[],"summary":"x","aha_moments":[],"quality_flags":[]}`

	if _, err := DecodeRecap([]byte(data)); err == nil {
		t.Fatal("expected error for unknown nested key")
	}
}

func TestDecodeRecap_FinalNull(t *testing.T) {
	data := `{"session_id":"s","final":null,"rejected_versions":[],"summary":"No valid code found. 0 rejected versions.","aha_moments":[],"quality_flags":["no valid code found"]}`

	r, err := DecodeRecap([]byte(data))
	if err != nil {
		t.Fatalf("DecodeRecap failed: %v", err)
	}
	if r.Final != nil {
		t.Errorf("Final = %v, want nil", r.Final)
	}
}

func TestDecodeRecap_MissingSessionID(t *testing.T) {
	data := `{"session_id":"","final":null,"rejected_versions":[],"summary":"","aha_moments":[],"quality_flags":[]}`

	if _, err := DecodeRecap([]byte(data)); err == nil {
		t.Fatal("expected error for empty session_id")
	}
}

func TestRecapValidate_DuplicateVersions(t *testing.T) {
	r := Recap{
		SessionID: "s",
		Final:     &EnrichedSnippet{Version: 1, SnippetID: "a"},
		RejectedVersions: []EnrichedSnippet{
			{Version: 1, SnippetID: "b"},
		},
	}

	if err := r.Validate(); err == nil {
		t.Fatal("expected error for duplicate version")
	}
}

func TestRecapValidate_DuplicateIDs(t *testing.T) {
	r := Recap{
		SessionID: "s",
		RejectedVersions: []EnrichedSnippet{
			{Version: 1, SnippetID: "a"},
			{Version: 2, SnippetID: "a"},
		},
	}

	if err := r.Validate(); err == nil {
		t.Fatal("expected error for duplicate snippet_id")
	}
}

func TestMarshal_FinalSerializesAsNull(t *testing.T) {
	r := Assemble("s", nil, nil, nil)

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"final":null`) {
		t.Errorf("serialized recap = %s, want final:null", data)
	}
	if !strings.Contains(string(data), `"rejected_versions":[]`) {
		t.Errorf("serialized recap = %s, want empty rejected_versions array", data)
	}
}
