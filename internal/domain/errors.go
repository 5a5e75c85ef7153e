package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the recship domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrMissingTableName is returned when neither the message nor the
	// client configuration provides a destination table name.
	ErrMissingTableName = errors.New("recship: table name missing from message and client defaults")

	// ErrMissingKeyNames is returned when neither the message nor the
	// client configuration provides key field names.
	ErrMissingKeyNames = errors.New("recship: key names missing from message and client defaults")

	// ErrInvalidAction is returned when a message carries an action outside
	// the recognized set.
	ErrInvalidAction = errors.New("recship: invalid action")

	// ErrCorruptBuffer is returned when the accumulated buffer cannot be
	// decoded back into records at flush time. Bytes already buffered are
	// unrecoverable; treat this as data loss.
	ErrCorruptBuffer = errors.New("recship: corrupt buffer")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("recship: invalid configuration")
)

// TransportError wraps a failure that occurred before a response could be
// interpreted: connection refused, timeout, or an unreadable/undecodable
// response. The batch never reached the service (or its answer never reached
// us), so the caller may retry the same flush.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("recship: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RejectionError reports that the ingestion service received the batch and
// refused it. It carries the HTTP status, reason phrase, and the decoded
// response body for diagnostics. The buffer is preserved, so the caller may
// correct the condition and flush again.
type RejectionError struct {
	StatusCode int
	Reason     string
	Body       map[string]any
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("recship: batch rejected: %d %s: %v", e.StatusCode, e.Reason, e.Body)
}
