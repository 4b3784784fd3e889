package workflow

// Policy checks are advisory. They gate submissions and UI affordances
// locally; the ledger independently enforces every rule, so a passing
// check never guarantees acceptance.

// CanRequestApproval reports whether the holder of viewerAddr may request
// an approval for tx: only the owner of a still-pending transaction.
func CanRequestApproval(tx *Transaction, viewerAddr string) bool {
	return tx != nil && tx.Status == TxPending && SameAddress(viewerAddr, tx.From)
}

// CanProcessApproval reports whether a viewer with the given role may
// approve or reject a pending approval.
func CanProcessApproval(a *Approval, role Role) bool {
	return a != nil && a.Status == ApprovalPending && role >= RoleManager
}

// CanCompleteTransaction reports whether the holder of viewerAddr may
// complete tx: only the owner of an active transaction.
func CanCompleteTransaction(tx *Transaction, viewerAddr string) bool {
	return tx != nil && tx.Status == TxActive && SameAddress(viewerAddr, tx.From)
}

// CanViewApprovals reports whether the role grants access to the approval
// queue.
func CanViewApprovals(role Role) bool {
	return role >= RoleManager
}

// CanManageUsers reports whether the role grants user registration and
// role changes.
func CanManageUsers(role Role) bool {
	return role >= RoleAdmin
}
