package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestErrorInterface(t *testing.T) {
	err := NewNotFound("sess-1")

	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if !strings.Contains(err.Error(), "NOT_FOUND") {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
	if err.Details["session_id"] != "sess-1" {
		t.Errorf("Details = %v", err.Details)
	}
}

func TestIs(t *testing.T) {
	if !Is(NewSessionExists("s"), ErrSessionExists) {
		t.Error("Is failed to match code")
	}
	if Is(NewSessionExists("s"), ErrNotFound) {
		t.Error("Is matched wrong code")
	}
	if Is(stderrors.New("plain"), ErrInternal) {
		t.Error("Is matched a non-ClewError")
	}
}

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err    *ClewError
		status int
	}{
		{NewInvalidRequest("x"), 400},
		{NewMalformedInput("x"), 400},
		{NewForbiddenContent(), 400},
		{NewPathNotAllowed("/tmp/x", "outside allowlist"), 403},
		{NewNotFound("s"), 404},
		{NewSessionExists("s"), 409},
		{NewInputTooLarge(10, 20), 413},
		{NewCancelled("export"), 499},
		{NewInternal(nil), 500},
	}

	for _, tc := range cases {
		if tc.err.Status != tc.status {
			t.Errorf("%s: Status = %d, want %d", tc.err.Code, tc.err.Status, tc.status)
		}
	}
}

func TestNewInternal_NilError(t *testing.T) {
	err := NewInternal(nil)
	if err.Message != "internal error" {
		t.Errorf("Message = %q", err.Message)
	}
}
