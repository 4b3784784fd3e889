package ledger

import (
	"errors"
	"fmt"
)

// ErrNotFound marks an entity that does not exist on the ledger. Absence
// is a valid answer, not a failure: an unregistered address reads as
// ErrNotFound so callers can tell it apart from a transient outage.
var ErrNotFound = errors.New("ledger: not found")

// TransientError wraps a network or RPC failure worth retrying. Reads are
// retried with backoff; writes are never retried automatically.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("ledger: transient: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as a TransientError, preserving nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}

	return &TransientError{Err: err}
}

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// RejectionError is a semantic refusal by the ledger: the operation
// reached it and was declined. Never retried; the reason is surfaced to
// the caller verbatim.
type RejectionError struct {
	Op     string
	Reason string
}

func (e *RejectionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("ledger: %s rejected", e.Op)
	}

	return fmt.Sprintf("ledger: %s rejected: %s", e.Op, e.Reason)
}

// Reject builds a RejectionError for op.
func Reject(op, reason string) error {
	return &RejectionError{Op: op, Reason: reason}
}

// IsRejection reports whether err is a semantic refusal.
func IsRejection(err error) bool {
	var re *RejectionError
	return errors.As(err, &re)
}
