// Package workflow defines the entities and transition rules of the
// transfer sign-off workflow. The ledger is the enforcement point for all
// of them; everything here mirrors its rules for local validation and UI
// gating.
package workflow

import (
	"strings"
	"time"
)

// Role is the ordinal access level of a user. Higher roles include the
// permissions of lower ones.
type Role uint8

const (
	RoleRegular Role = 0
	RoleManager Role = 1
	RoleAdmin   Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleRegular:
		return "regular"
	case RoleManager:
		return "manager"
	case RoleAdmin:
		return "admin"
	}

	return "unknown"
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r <= RoleAdmin
}

// TransactionStatus is the lifecycle state of a transaction. The ordinal
// values match the ledger's encoding.
type TransactionStatus uint8

const (
	TxPending   TransactionStatus = 0
	TxActive    TransactionStatus = 1
	TxCompleted TransactionStatus = 2
	TxRejected  TransactionStatus = 3
)

func (s TransactionStatus) String() string {
	switch s {
	case TxPending:
		return "pending"
	case TxActive:
		return "active"
	case TxCompleted:
		return "completed"
	case TxRejected:
		return "rejected"
	}

	return "unknown"
}

// Terminal reports whether the status has no outgoing transitions.
func (s TransactionStatus) Terminal() bool {
	return s == TxCompleted || s == TxRejected
}

// ApprovalStatus is the lifecycle state of an approval. Approved and
// Rejected are terminal.
type ApprovalStatus uint8

const (
	ApprovalPending  ApprovalStatus = 0
	ApprovalApproved ApprovalStatus = 1
	ApprovalRejected ApprovalStatus = 2
)

func (s ApprovalStatus) String() string {
	switch s {
	case ApprovalPending:
		return "pending"
	case ApprovalApproved:
		return "approved"
	case ApprovalRejected:
		return "rejected"
	}

	return "unknown"
}

// MaxReasonLen is the longest approval reason the ledger accepts.
const MaxReasonLen = 256

// User is a registered identity on the ledger. Users are never deleted;
// deactivation is the soft end of life.
type User struct {
	ID        uint64
	Address   string
	Name      string
	Email     string
	Role      Role
	IsActive  bool
	CreatedAt time.Time
}

// Transaction is a transfer from one address to another. Amount is a
// non-negative integer in the ledger's smallest unit. ApprovalID is zero
// until an approval has been requested.
type Transaction struct {
	ID          uint64
	From        string
	To          string
	Amount      uint64
	Description string
	Status      TransactionStatus
	Timestamp   time.Time
	ApprovalID  uint64
}

// Approval is a sign-off request for a transaction. Approver stays empty
// until the approval is processed.
type Approval struct {
	ID            uint64
	TransactionID uint64
	Requester     string
	Approver      string
	Status        ApprovalStatus
	Reason        string
	Timestamp     time.Time
}

// SameAddress compares two addresses the way the ledger does, ignoring
// case.
func SameAddress(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}
