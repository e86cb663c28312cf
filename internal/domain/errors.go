package domain

import (
	"errors"
	"fmt"
)

// RecoverableError defines an interface for errors that drop a single event
// without stopping the feed.
type RecoverableError interface {
	error
	IsRecoverable() bool
}

// IsRecoverable checks if an error only invalidates the event that caused it
func IsRecoverable(err error) bool {
	var re RecoverableError
	if errors.As(err, &re) {
		return re.IsRecoverable()
	}
	return false
}

// DecodeError represents a malformed message or a reference to unknown state.
// The offending event is dropped and the feed continues.
type DecodeError struct {
	Tag byte   // ITCH message type
	Op  string // Operation that failed (e.g., "decode", "execute", "cancel")
	Err error  // Underlying error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s '%c': %v", e.Op, e.Tag, e.Err)
}

func (e *DecodeError) IsRecoverable() bool {
	return true
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a new recoverable decode error
func NewDecodeError(tag byte, op string, err error) *DecodeError {
	return &DecodeError{Tag: tag, Op: op, Err: err}
}

// ConfigError represents a configuration or startup error (never recoverable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRecoverable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	// ErrShortPayload is returned when a payload is smaller than its message layout.
	ErrShortPayload = errors.New("payload too short")

	// ErrUnknownOrder is returned when an execution references an order that is not resting.
	ErrUnknownOrder = errors.New("unknown order reference")

	// ErrUnknownLocate is returned when an execution references a locate with no directory entry.
	ErrUnknownLocate = errors.New("unknown stock locate")

	// ErrOverCancel is returned when a cancel asks for more shares than are resting.
	ErrOverCancel = errors.New("cancel exceeds resting shares")

	// ErrFeedNotFound is returned when the feed file is missing at startup
	ErrFeedNotFound = errors.New("feed file not found")
)
