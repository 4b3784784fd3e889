package ledger

import "github.com/mwestbrook/signoff/internal/workflow"

// EventKind identifies the kind of a ledger event.
type EventKind string

const (
	// EventTransactionCreated records a new transaction. Fields: TransactionID, From, To, Amount.
	EventTransactionCreated EventKind = "transaction.created"
	// EventTransactionStatusUpdated records a transaction status change. Fields: TransactionID, TxStatus.
	EventTransactionStatusUpdated EventKind = "transaction.status_updated"
	// EventApprovalRequested records a new approval request. Fields: ApprovalID, TransactionID, Requester.
	EventApprovalRequested EventKind = "approval.requested"
	// EventApprovalProcessed records an approve/reject decision. Fields: ApprovalID, ApprovalStatus, Approver.
	EventApprovalProcessed EventKind = "approval.processed"
	// EventUserRegistered records a new user. Fields: UserID, Address, Name, Role.
	EventUserRegistered EventKind = "user.registered"
	// EventUserRoleUpdated records a role change. Fields: Address, Role.
	EventUserRoleUpdated EventKind = "user.role_updated"
)

// Event is a ledger notification. Events carry the minimal identifying
// fields, never full entity bodies; anything more must be re-read from
// the ledger. Only the fields named for each kind are meaningful.
type Event struct {
	Kind EventKind
	Seq  uint64

	TransactionID uint64
	ApprovalID    uint64
	UserID        uint64

	From      string
	To        string
	Requester string
	Approver  string
	Address   string
	Name      string

	Amount         uint64
	TxStatus       workflow.TransactionStatus
	ApprovalStatus workflow.ApprovalStatus
	Role           workflow.Role
}

// Subscription is a live ordered feed of ledger events. Events delivers
// in ledger order and is closed after Close or a stream failure; a stream
// failure is reported on Err first.
type Subscription struct {
	Events <-chan Event
	Err    <-chan error

	stop func()
}

// NewSubscription builds a Subscription around the given channels and
// stop hook. Intended for Gateway implementations.
func NewSubscription(events <-chan Event, errc <-chan error, stop func()) *Subscription {
	return &Subscription{Events: events, Err: errc, stop: stop}
}

// Close releases the subscription. Safe to call more than once and safe
// on a subscription that already failed.
func (s *Subscription) Close() {
	if s.stop != nil {
		s.stop()
	}
}
