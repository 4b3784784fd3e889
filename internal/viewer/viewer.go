// Package viewer carries the identity of the currently connected user.
// It is passed explicitly into the policy, cache consumers, and the
// reconciliation engine rather than held as ambient state.
package viewer

import "github.com/mwestbrook/signoff/internal/workflow"

// Viewer is the connected identity. Address may be set while User is nil:
// that is a connected wallet not yet registered on the ledger.
type Viewer struct {
	Address string
	User    *workflow.User
}

// Connected reports whether any identity is attached.
func (v Viewer) Connected() bool {
	return v.Address != ""
}

// Registered reports whether the viewer has a ledger user record.
func (v Viewer) Registered() bool {
	return v.User != nil
}

// Role returns the viewer's role, defaulting to Regular for unregistered
// viewers.
func (v Viewer) Role() workflow.Role {
	if v.User == nil {
		return workflow.RoleRegular
	}

	return v.User.Role
}

// Is reports whether the given address belongs to the viewer.
func (v Viewer) Is(address string) bool {
	return workflow.SameAddress(v.Address, address)
}
