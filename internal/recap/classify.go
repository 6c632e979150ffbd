package recap

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedInput is returned when a transcript contains an odd number of
// fence delimiters. The classifier refuses to guess where the missing fence
// belongs.
var ErrMalformedInput = errors.New("unmatched code fence")

// languageTagRegex matches an info string on an opening fence: a single
// token like "go", "python3", or "c++". An empty tag also matches.
var languageTagRegex = regexp.MustCompile(`^[A-Za-z0-9+#._-]*$`)

// Classify splits a raw transcript into an ordered sequence of typed
// segments. Content between the Nth and N+1th fence is code for odd N; kind
// is a function of fence-delimited position parity, so dropped empty
// segments do not disturb the alternation. Language tags exist only on
// opening fences, so only code segments have their first line inspected.
// An empty transcript yields zero segments, not an error.
func Classify(transcript string) ([]Segment, error) {
	fences := strings.Count(transcript, "```")
	if fences%2 != 0 {
		return nil, fmt.Errorf("%w: found %d fence delimiters", ErrMalformedInput, fences)
	}

	parts := strings.Split(transcript, "```")

	segments := make([]Segment, 0, len(parts))
	for i, part := range parts {
		kind := SegmentText
		if i%2 == 1 {
			kind = SegmentCode
			part = stripLanguageTag(part)
		}
		content := strings.TrimSpace(part)
		if content == "" {
			continue
		}
		segments = append(segments, Segment{Kind: kind, Content: content})
	}

	return segments, nil
}

// stripLanguageTag removes the info string from the first line of a fenced
// block. A first line that is not a plausible tag is kept: it is code that
// happened to follow the fence on the same line.
func stripLanguageTag(part string) string {
	idx := strings.IndexByte(part, '\n')
	if idx < 0 {
		return part
	}
	if languageTagRegex.MatchString(part[:idx]) {
		return part[idx+1:]
	}
	return part
}
