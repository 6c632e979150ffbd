package recap

import (
	"math"
	"strings"
	"unicode/utf8"
)

// CountChars returns the character count as runes, not bytes.
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}

// EstimateTokens estimates the token count of a transcript for LLM context
// budgeting, using a 1.3x multiplier on the word count.
func EstimateTokens(text string) int {
	words := strings.Fields(strings.TrimSpace(text))
	return int(math.Ceil(float64(len(words)) * 1.3))
}
