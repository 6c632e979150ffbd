// Package sanitize applies the pre-classification sweeps over raw
// transcripts: size limits, deny-term screening, and PII scrubbing.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars caps transcript size at roughly 20k tokens.
const DefaultMaxChars = 100_000

// defaultDenyTerms are always screened, regardless of configuration.
var defaultDenyTerms = []string{
	"api_key",
	"password",
	"secret",
	"rm -rf /",
	"BEGIN RSA PRIVATE KEY",
}

// piiPatterns pair a detector with its redaction placeholder.
var piiPatterns = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[SSN_REDACTED]"},
	{regexp.MustCompile(`\b\d{16}\b`), "[CC_REDACTED]"},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[EMAIL_REDACTED]"},
	{regexp.MustCompile(`\b\d{3}-\d{3}-\d{4}\b`), "[PHONE_REDACTED]"},
}

var defaultDenyPatterns = compileDenyTerms(defaultDenyTerms)

// compileDenyTerms builds case-insensitive matchers: word boundaries for
// plain words, literal match for phrases with spaces or punctuation.
func compileDenyTerms(terms []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		escaped := regexp.QuoteMeta(term)
		expr := `(?i)\b` + escaped + `\b`
		if strings.ContainsAny(term, " -/\\.") {
			expr = `(?i)` + escaped
		}
		patterns = append(patterns, regexp.MustCompile(expr))
	}
	return patterns
}

// ExceedsSizeLimit reports whether text is over maxChars runes, the same
// unit the rejection error reports. A maxChars of zero or less falls back
// to DefaultMaxChars.
func ExceedsSizeLimit(text string, maxChars int) bool {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return utf8.RuneCountInString(text) > maxChars
}

// ContainsDenyTerms reports whether text matches any built-in or
// caller-supplied deny-listed term.
func ContainsDenyTerms(text string, extraTerms []string) bool {
	for _, pattern := range defaultDenyPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	for _, pattern := range compileDenyTerms(extraTerms) {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// ScrubPII redacts SSN, credit card, email, and phone patterns. A regex
// sweep, not an entity recognizer.
func ScrubPII(text string) string {
	scrubbed := text
	for _, p := range piiPatterns {
		scrubbed = p.pattern.ReplaceAllString(scrubbed, p.replacement)
	}
	return scrubbed
}
