package errors

import "fmt"

// ErrorCode represents an Ariadne Clew error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrMalformedInput   ErrorCode = "MALFORMED_INPUT"   // 400 (unterminated code fence)
	ErrForbiddenContent ErrorCode = "FORBIDDEN_CONTENT" // 400 (deny-term hit)
	ErrPathNotAllowed   ErrorCode = "PATH_NOT_ALLOWED"  // 403
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrSessionExists    ErrorCode = "SESSION_EXISTS"    // 409
	ErrInputTooLarge    ErrorCode = "INPUT_TOO_LARGE"   // 413
	ErrCancelled        ErrorCode = "CANCELLED"         // 499
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// ClewError represents a structured error with code, status, and details.
type ClewError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ClewError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ClewError {
	return &ClewError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewMalformedInput creates a 400 error for a transcript the classifier
// refuses (unterminated code fence).
func NewMalformedInput(msg string) *ClewError {
	return &ClewError{
		Code:    ErrMalformedInput,
		Status:  400,
		Message: msg,
	}
}

// NewForbiddenContent creates a 400 error for transcripts containing
// deny-listed terms.
func NewForbiddenContent() *ClewError {
	return &ClewError{
		Code:    ErrForbiddenContent,
		Status:  400,
		Message: "input contains forbidden terms",
	}
}

// NewPathNotAllowed creates a 403 error for export/import paths outside the
// allowlist.
func NewPathNotAllowed(path, reason string) *ClewError {
	return &ClewError{
		Code:    ErrPathNotAllowed,
		Status:  403,
		Message: fmt.Sprintf("path not allowed: %s (%s)", path, reason),
		Details: map[string]any{"path": path},
	}
}

// NewNotFound creates a 404 error for when a recap cannot be found.
func NewNotFound(sessionID string) *ClewError {
	return &ClewError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("recap not found: %s", sessionID),
		Details: map[string]any{"session_id": sessionID},
	}
}

// NewFileNotFound creates a 404 error for a missing import/export file.
func NewFileNotFound(path string) *ClewError {
	return &ClewError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewSessionExists creates a 409 error for session key collisions.
func NewSessionExists(sessionID string) *ClewError {
	return &ClewError{
		Code:    ErrSessionExists,
		Status:  409,
		Message: fmt.Sprintf("recap for session %q already stored", sessionID),
		Details: map[string]any{"session_id": sessionID},
	}
}

// NewInputTooLarge creates a 413 error when a transcript exceeds the size limit.
func NewInputTooLarge(max, actual int) *ClewError {
	return &ClewError{
		Code:    ErrInputTooLarge,
		Status:  413,
		Message: fmt.Sprintf("input too long: %d chars (max %d)", actual, max),
		Details: map[string]any{"max_chars": max, "actual_chars": actual},
	}
}

// NewCancelled creates a 499 error for operations abandoned by the caller.
func NewCancelled(operation string) *ClewError {
	return &ClewError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", operation),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ClewError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ClewError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a ClewError with the given code.
func Is(err error, code ErrorCode) bool {
	if cErr, ok := err.(*ClewError); ok {
		return cErr.Code == code
	}
	return false
}
