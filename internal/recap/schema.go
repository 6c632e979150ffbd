package recap

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeRecap parses a serialized recap under the closed output contract:
// unknown keys at any level are rejected, not ignored.
func DecodeRecap(data []byte) (*Recap, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var r Recap
	if err := decoder.Decode(&r); err != nil {
		return nil, fmt.Errorf("decode recap: %w", err)
	}

	if r.RejectedVersions == nil {
		r.RejectedVersions = []EnrichedSnippet{}
	}
	if r.AhaMoments == nil {
		r.AhaMoments = []string{}
	}
	if r.QualityFlags == nil {
		r.QualityFlags = []string{}
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks the structural invariants of a recap record: a non-empty
// session id, positive strictly increasing versions, and unique snippet ids.
func (r *Recap) Validate() error {
	if r.SessionID == "" {
		return fmt.Errorf("recap missing session_id")
	}

	seenIDs := make(map[string]bool)
	lastVersion := 0

	check := func(s *EnrichedSnippet) error {
		if s.Version < 1 {
			return fmt.Errorf("snippet %q has non-positive version %d", s.SnippetID, s.Version)
		}
		if s.Version <= lastVersion {
			return fmt.Errorf("snippet versions not strictly increasing at v%d", s.Version)
		}
		lastVersion = s.Version
		if s.SnippetID == "" {
			return fmt.Errorf("snippet v%d missing snippet_id", s.Version)
		}
		if seenIDs[s.SnippetID] {
			return fmt.Errorf("duplicate snippet_id %q", s.SnippetID)
		}
		seenIDs[s.SnippetID] = true
		return nil
	}

	// Final and rejected snippets together cover every surviving segment in
	// version order; walk them merged so monotonicity spans the partition.
	snippets := make([]*EnrichedSnippet, 0, len(r.RejectedVersions)+1)
	for i := range r.RejectedVersions {
		snippets = append(snippets, &r.RejectedVersions[i])
	}
	if r.Final != nil {
		inserted := false
		for i, s := range snippets {
			if r.Final.Version < s.Version {
				snippets = append(snippets[:i], append([]*EnrichedSnippet{r.Final}, snippets[i:]...)...)
				inserted = true
				break
			}
		}
		if !inserted {
			snippets = append(snippets, r.Final)
		}
	}

	for _, s := range snippets {
		if err := check(s); err != nil {
			return err
		}
	}

	return nil
}
