package recap

import (
	"fmt"
	"go/parser"
	"go/token"
	"strings"
)

// truncationSuffixes are trailing fragments that suggest a snippet was cut
// off by the user rather than actually wrong.
var truncationSuffixes = []string{"=", ":", "(", "[", "{", ","}

// Validate determines whether a code segment is syntactically well-formed Go.
// Snippets are accepted either as a complete source file or as a bare
// statement list. Validation never executes the snippet, and any internal
// parser fault is converted into an invalid verdict rather than propagated.
func Validate(code string) (verdict ValidationVerdict) {
	defer func() {
		if r := recover(); r != nil {
			verdict = ValidationVerdict{
				Status:  StatusInvalid,
				Message: fmt.Sprintf("validator error: %v", r),
			}
		}
	}()

	err := parseSnippet(code)
	if err == nil {
		return ValidationVerdict{Status: StatusValid}
	}

	if looksTruncated(code, err) {
		return ValidationVerdict{
			Status:  StatusPartial,
			Message: "incomplete snippet",
		}
	}

	return ValidationVerdict{
		Status:  StatusInvalid,
		Message: "syntax error: " + err.Error(),
	}
}

// parseSnippet tries the snippet as a full source file first, then wrapped
// as a statement list inside a function body. Returns nil if either parse
// succeeds.
func parseSnippet(code string) error {
	fileErr := tryParse(code)
	if fileErr == nil {
		return nil
	}

	wrapped := "package main\nfunc _() {\n" + code + "\n}"
	wrappedErr := tryParse(wrapped)
	if wrappedErr == nil {
		return nil
	}

	// Report the error from the form the snippet most resembles.
	if strings.HasPrefix(strings.TrimSpace(code), "package ") {
		return fileErr
	}
	return wrappedErr
}

func tryParse(src string) error {
	_, err := parser.ParseFile(token.NewFileSet(), "snippet.go", src, 0)
	return err
}

// looksTruncated reports whether a parse failure is better explained by a
// mid-conversation cutoff: the snippet trails off with an operator or open
// bracket, or the parser ran out of input.
func looksTruncated(code string, parseErr error) bool {
	trimmed := strings.TrimSpace(code)
	for _, suffix := range truncationSuffixes {
		if strings.HasSuffix(trimmed, suffix) {
			return true
		}
	}
	return strings.Contains(parseErr.Error(), "'EOF'")
}
