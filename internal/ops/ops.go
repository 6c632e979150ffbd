package ops

import (
	"strings"

	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/errors"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// MaxSessionIDLen bounds caller-chosen session keys.
const MaxSessionIDLen = 200

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// ValidateSessionID trims and validates a caller-supplied session id.
func ValidateSessionID(sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", errors.NewInvalidRequest("session_id must not be empty")
	}
	if len(sessionID) > MaxSessionIDLen {
		return "", errors.NewInvalidRequest("session_id too long")
	}
	for _, r := range sessionID {
		if r < 32 || r == 127 {
			return "", errors.NewInvalidRequest("session_id must not contain control characters")
		}
	}
	return sessionID, nil
}

// cleanOptionalString trims an optional string, returning nil when empty.
func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
