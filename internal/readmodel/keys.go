package readmodel

import (
	"strconv"
	"strings"
)

// Canonical query keys. Keys with a scope parameter append it after a
// colon, lowercased for addresses so the same identity always maps to the
// same entry.
const (
	KeyPendingApprovals = "pending-approvals"
	KeyUsers            = "users"
	KeyDashboardMetrics = "dashboard-metrics"
)

// KeyTransactions scopes the transaction list to an owner address.
func KeyTransactions(address string) string {
	return "transactions:" + strings.ToLower(address)
}

// KeyTransaction addresses a single transaction.
func KeyTransaction(id uint64) string {
	return "transaction:" + strconv.FormatUint(id, 10)
}

// KeyApproval addresses a single approval.
func KeyApproval(id uint64) string {
	return "approval:" + strconv.FormatUint(id, 10)
}

// KeyUser addresses a single user record.
func KeyUser(address string) string {
	return "user:" + strings.ToLower(address)
}

// Invalidation tags. A tag names a slice of ledger state; entries carry
// every tag their contents depend on.
const (
	TagPendingApprovals = "approvals:pending"
	TagUsers            = "users"
	TagMetrics          = "dashboard-metrics"
)

// TagTransaction names one transaction's state.
func TagTransaction(id uint64) string {
	return "tx:" + strconv.FormatUint(id, 10)
}

// TagApproval names one approval's state.
func TagApproval(id uint64) string {
	return "approval:" + strconv.FormatUint(id, 10)
}

// TagUser names one user's state, including their transaction list.
func TagUser(address string) string {
	return "user:" + strings.ToLower(address)
}
