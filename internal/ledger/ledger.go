// Package ledger defines the interface to the external authoritative
// ledger: typed reads, state-changing operations, and the event stream.
// The ledger itself, its storage and its enforcement of the workflow
// rules, lives outside this codebase.
package ledger

import (
	"context"
	"time"

	"github.com/mwestbrook/signoff/internal/workflow"
)

// Receipt confirms a state-changing operation the ledger accepted.
type Receipt struct {
	Ref         string
	ConfirmedAt time.Time
}

// Reader provides entity reads keyed by id or owner address. Absent
// entities read as ErrNotFound.
type Reader interface {
	GetUser(ctx context.Context, address string) (*workflow.User, error)
	ListUsers(ctx context.Context) ([]*workflow.User, error)
	UserCount(ctx context.Context) (uint64, error)

	GetTransaction(ctx context.Context, id uint64) (*workflow.Transaction, error)
	UserTransactionIDs(ctx context.Context, address string) ([]uint64, error)
	TransactionStatusCounts(ctx context.Context) (map[workflow.TransactionStatus]int, error)

	GetApproval(ctx context.Context, id uint64) (*workflow.Approval, error)
	PendingApprovalIDs(ctx context.Context) ([]uint64, error)
}

// Submitter carries the state-changing operations. Every operation names
// the acting address, standing in for the transaction signer. Semantic
// refusals come back as *RejectionError and are never retried here.
type Submitter interface {
	CreateTransaction(ctx context.Context, actor, to string, amount uint64, description string) (*Receipt, error)
	RequestApproval(ctx context.Context, actor string, transactionID uint64, reason string) (*Receipt, error)
	ProcessApproval(ctx context.Context, actor string, approvalID uint64, approved bool, reason string) (*Receipt, error)
	CompleteTransaction(ctx context.Context, actor string, transactionID uint64) (*Receipt, error)

	RegisterUser(ctx context.Context, actor, address, name, email string, role workflow.Role) (*Receipt, error)
	UpdateUserRole(ctx context.Context, actor, address string, role workflow.Role) (*Receipt, error)
}

// Subscriber opens the ordered event stream.
type Subscriber interface {
	Subscribe(ctx context.Context) (*Subscription, error)
}

// Gateway is the full ledger surface.
type Gateway interface {
	Reader
	Submitter
	Subscriber
}
