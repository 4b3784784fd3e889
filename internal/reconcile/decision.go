package reconcile

import (
	"fmt"

	"github.com/mwestbrook/signoff/internal/ledger"
	"github.com/mwestbrook/signoff/internal/notify"
	"github.com/mwestbrook/signoff/internal/viewer"
	"github.com/mwestbrook/signoff/internal/workflow"
)

// Visibility is the outcome of the notification decision for one viewer
// and one event.
type Visibility int

const (
	// VisibilityNone suppresses the notification.
	VisibilityNone Visibility = iota
	// VisibilityGeneric shows an impersonal notification.
	VisibilityGeneric
	// VisibilityPersonal shows a notification addressed to the viewer.
	VisibilityPersonal
)

// decision is the resolved visibility plus the notification to publish.
// A personal match always wins over a generic one, so at most one
// notification results from an event.
type decision struct {
	visibility Visibility
	n          notify.Notification
}

func none() decision {
	return decision{visibility: VisibilityNone}
}

func generic(severity notify.Severity, title, detail string) decision {
	return decision{visibility: VisibilityGeneric, n: notify.New(severity, title, detail)}
}

func personal(severity notify.Severity, title, detail string) decision {
	return decision{visibility: VisibilityPersonal, n: notify.New(severity, title, detail)}
}

// decide computes whether the viewer should see a notification for ev.
//
// The rules, in order of precedence: the acting address never sees its
// own event; a directly involved viewer gets a personal notification; an
// admin always gets at least a generic one; managers additionally get
// generic notifications for approval events; everyone else sees nothing.
//
// tx is the transaction resolved by a secondary read where the event
// does not carry addresses itself; when that read failed, degraded is
// set and the decision falls back to role-only visibility.
func decide(ev ledger.Event, v viewer.Viewer, tx *workflow.Transaction, degraded bool) decision {
	role := v.Role()

	switch ev.Kind {
	case ledger.EventTransactionCreated:
		// The sender triggered the event; only the recipient is
		// personally notified.
		if v.Is(ev.From) {
			return none()
		}

		if v.Is(ev.To) {
			return personal(notify.SeveritySuccess, "New transaction created",
				fmt.Sprintf("Transaction %d: you are the recipient", ev.TransactionID))
		}

		if role >= workflow.RoleAdmin {
			return generic(notify.SeveritySuccess, "New transaction created",
				fmt.Sprintf("Transaction %d", ev.TransactionID))
		}

		return none()

	case ledger.EventTransactionStatusUpdated:
		if degraded || tx == nil {
			if role >= workflow.RoleAdmin {
				return generic(notify.SeverityInfo, "Transaction status updated",
					fmt.Sprintf("Transaction %d is now %s", ev.TransactionID, ev.TxStatus))
			}

			return none()
		}

		if v.Is(tx.From) || v.Is(tx.To) {
			return personal(notify.SeverityInfo, "Transaction status updated",
				fmt.Sprintf("Your transaction %d is now %s", ev.TransactionID, ev.TxStatus))
		}

		if role >= workflow.RoleAdmin {
			return generic(notify.SeverityInfo, "Transaction status updated",
				fmt.Sprintf("Transaction %d is now %s", ev.TransactionID, ev.TxStatus))
		}

		return none()

	case ledger.EventApprovalRequested:
		if v.Is(ev.Requester) {
			return none()
		}

		if role >= workflow.RoleManager {
			return generic(notify.SeverityInfo, "New approval request",
				fmt.Sprintf("Transaction %d requires approval", ev.TransactionID))
		}

		return none()

	case ledger.EventApprovalProcessed:
		if v.Is(ev.Approver) {
			return none()
		}

		verb := "rejected"
		if ev.ApprovalStatus == workflow.ApprovalApproved {
			verb = "approved"
		}

		if !degraded && tx != nil && (v.Is(tx.From) || v.Is(tx.To)) {
			return personal(notify.SeveritySuccess, "Approval "+verb,
				fmt.Sprintf("Your transaction %d was %s", tx.ID, verb))
		}

		if role >= workflow.RoleManager {
			return generic(notify.SeveritySuccess, "Approval "+verb,
				fmt.Sprintf("Approval %d has been %s", ev.ApprovalID, verb))
		}

		return none()

	case ledger.EventUserRegistered:
		if v.Is(ev.Address) {
			return personal(notify.SeveritySuccess, "Welcome! Your account has been registered",
				fmt.Sprintf("Role: %s", ev.Role))
		}

		if role >= workflow.RoleAdmin {
			return generic(notify.SeverityInfo, "User registered",
				fmt.Sprintf("%s registered with role %s", ev.Name, ev.Role))
		}

		return none()

	case ledger.EventUserRoleUpdated:
		if v.Is(ev.Address) {
			return personal(notify.SeverityInfo, "Your role has been updated",
				fmt.Sprintf("New role: %s", ev.Role))
		}

		if role >= workflow.RoleAdmin {
			return generic(notify.SeverityInfo, "User role updated",
				fmt.Sprintf("New role for %s: %s", ev.Address, ev.Role))
		}

		return none()
	}

	return none()
}

// needsTransaction reports whether the decision for ev requires a
// secondary transaction read to establish viewer involvement.
func needsTransaction(kind ledger.EventKind) bool {
	return kind == ledger.EventTransactionStatusUpdated || kind == ledger.EventApprovalProcessed
}
