package workflow

import "fmt"

// ErrInvalidTransition reports a transaction status change outside the
// declared state machine. Observing one from the ledger means the local
// picture is inconsistent and must be re-read.
type ErrInvalidTransition struct {
	From TransactionStatus
	To   TransactionStatus
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid transaction transition: %s -> %s", e.From, e.To)
}

// CanTransition reports whether a transaction may move from one status to
// another:
//
//	Pending -> Active (approval approved)
//	Active  -> Completed (owner completes)
//	Active  -> Rejected (approval rejected)
//
// Note the ledger moves Pending transactions to Rejected through the
// approval flow as well, so Pending -> Rejected is part of the relation.
func CanTransition(from, to TransactionStatus) bool {
	switch from {
	case TxPending:
		return to == TxActive || to == TxRejected
	case TxActive:
		return to == TxCompleted || to == TxRejected
	}

	return false
}

// CheckTransition returns an *ErrInvalidTransition if the change is not in
// the transition relation.
func CheckTransition(from, to TransactionStatus) error {
	if !CanTransition(from, to) {
		return &ErrInvalidTransition{From: from, To: to}
	}

	return nil
}
