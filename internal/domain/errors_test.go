package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDecodeError(t *testing.T) {
	err := NewDecodeError('E', "execute", ErrUnknownOrder)

	if !err.IsRecoverable() {
		t.Error("Expected decode error to be recoverable")
	}

	if err.Error() != "execute 'E': unknown order reference" {
		t.Errorf("Error message = %q", err.Error())
	}

	if !errors.Is(err, ErrUnknownOrder) {
		t.Error("Expected error to wrap ErrUnknownOrder")
	}
}

func TestIsRecoverable(t *testing.T) {
	wrapped := fmt.Errorf("frame 12: %w", NewDecodeError('A', "decode", ErrShortPayload))
	fatal := &ConfigError{Field: "feed.path", Err: ErrFeedNotFound}
	plain := errors.New("plain error")

	if !IsRecoverable(wrapped) {
		t.Error("IsRecoverable should see through wrapping")
	}
	if IsRecoverable(fatal) {
		t.Error("ConfigError should never be recoverable")
	}
	if IsRecoverable(plain) {
		t.Error("plain errors are not recoverable")
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Field: "feed.path", Err: ErrFeedNotFound}

	expected := "config error [feed.path]: feed file not found"
	if err.Error() != expected {
		t.Errorf("Error message = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrFeedNotFound) {
		t.Error("Expected ConfigError to unwrap")
	}
}
