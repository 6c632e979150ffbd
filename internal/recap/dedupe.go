package recap

// Dedupe drops code segments that are byte-identical to an earlier segment,
// preserving the order of first occurrence. Equality is exact: a
// reformatted-but-equivalent snippet is treated as distinct.
func Dedupe(segments []Segment) []Segment {
	seen := make(map[string]bool, len(segments))
	unique := make([]Segment, 0, len(segments))

	for _, segment := range segments {
		if segment.Content == "" || seen[segment.Content] {
			continue
		}
		seen[segment.Content] = true
		unique = append(unique, segment)
	}

	return unique
}
