package dispatch

import "fmt"

// ConfigurationError means a channel's settings are absent or invalid. It is
// fatal for that channel: raised before any network attempt, never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// ValidationError means the recipient address is unusable; sending on that
// channel is skipped for the record.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Reason
}

// TransientSendError is a single failed attempt on a retrying channel: a
// non-success HTTP status or a connection-level error.
type TransientSendError struct {
	Attempt int
	Detail  string
}

func (e *TransientSendError) Error() string {
	return fmt.Sprintf("attempt %d: %s", e.Attempt, e.Detail)
}

// PermanentSendError is a single-attempt transport failure; not retried.
type PermanentSendError struct {
	Err error
}

func (e *PermanentSendError) Error() string {
	return "send failed: " + e.Err.Error()
}

func (e *PermanentSendError) Unwrap() error { return e.Err }

// PersistenceError wraps a ledger or repository write failure. Callers log it
// and carry on: it must never abort a dispatch or the routine loop.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }
