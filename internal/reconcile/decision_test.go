package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mwestbrook/signoff/internal/ledger"
	"github.com/mwestbrook/signoff/internal/viewer"
	"github.com/mwestbrook/signoff/internal/workflow"
)

const (
	senderAddr    = "0x1000000000000000000000000000000000000001"
	recipientAddr = "0x2000000000000000000000000000000000000002"
	managerAddr   = "0x3000000000000000000000000000000000000003"
	adminAddr     = "0x4000000000000000000000000000000000000004"
	outsiderAddr  = "0x5000000000000000000000000000000000000005"
)

func viewerWith(addr string, role workflow.Role) viewer.Viewer {
	return viewer.Viewer{
		Address: addr,
		User:    &workflow.User{Address: addr, Role: role, IsActive: true},
	}
}

func TestDecide_ApprovalProcessed(t *testing.T) {
	tx7 := &workflow.Transaction{ID: 7, From: senderAddr, To: recipientAddr, Status: workflow.TxActive}

	ev := ledger.Event{
		Kind:           ledger.EventApprovalProcessed,
		ApprovalID:     3,
		ApprovalStatus: workflow.ApprovalApproved,
		Approver:       managerAddr,
	}

	tests := []struct {
		name string
		v    viewer.Viewer
		want Visibility
	}{
		{name: "RegularUninvolved", v: viewerWith(outsiderAddr, workflow.RoleRegular), want: VisibilityNone},
		{name: "ManagerUninvolved", v: viewerWith(adminAddr, workflow.RoleManager), want: VisibilityGeneric},
		{name: "AdminUninvolved", v: viewerWith(adminAddr, workflow.RoleAdmin), want: VisibilityGeneric},
		{name: "Owner", v: viewerWith(senderAddr, workflow.RoleRegular), want: VisibilityPersonal},
		{name: "Recipient", v: viewerWith(recipientAddr, workflow.RoleRegular), want: VisibilityPersonal},
		{name: "ApproverSelf", v: viewerWith(managerAddr, workflow.RoleManager), want: VisibilityNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decide(ev, tt.v, tx7, false)
			assert.Equal(t, tt.want, d.visibility)

			if tt.want == VisibilityPersonal {
				assert.Contains(t, d.n.Detail, "Your transaction")
			}
		})
	}
}

func TestDecide_ApprovalProcessed_Degraded(t *testing.T) {
	ev := ledger.Event{
		Kind:           ledger.EventApprovalProcessed,
		ApprovalID:     3,
		ApprovalStatus: workflow.ApprovalRejected,
		Approver:       managerAddr,
	}

	// Without the secondary read, involvement is unknowable: role decides.
	d := decide(ev, viewerWith(senderAddr, workflow.RoleRegular), nil, true)
	assert.Equal(t, VisibilityNone, d.visibility)

	d = decide(ev, viewerWith(adminAddr, workflow.RoleManager), nil, true)
	assert.Equal(t, VisibilityGeneric, d.visibility)
	assert.Contains(t, d.n.Title, "rejected")
}

func TestDecide_ApprovalRequested(t *testing.T) {
	ev := ledger.Event{
		Kind:          ledger.EventApprovalRequested,
		ApprovalID:    3,
		TransactionID: 9,
		Requester:     senderAddr,
	}

	tests := []struct {
		name string
		v    viewer.Viewer
		want Visibility
	}{
		{name: "RequesterSelf", v: viewerWith(senderAddr, workflow.RoleManager), want: VisibilityNone},
		{name: "Regular", v: viewerWith(outsiderAddr, workflow.RoleRegular), want: VisibilityNone},
		{name: "Manager", v: viewerWith(managerAddr, workflow.RoleManager), want: VisibilityGeneric},
		{name: "Admin", v: viewerWith(adminAddr, workflow.RoleAdmin), want: VisibilityGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decide(ev, tt.v, nil, false)
			assert.Equal(t, tt.want, d.visibility)
		})
	}
}

func TestDecide_TransactionCreated(t *testing.T) {
	ev := ledger.Event{
		Kind:          ledger.EventTransactionCreated,
		TransactionID: 7,
		From:          senderAddr,
		To:            recipientAddr,
		Amount:        100,
	}

	tests := []struct {
		name string
		v    viewer.Viewer
		want Visibility
	}{
		{name: "SenderSelf", v: viewerWith(senderAddr, workflow.RoleAdmin), want: VisibilityNone},
		{name: "Recipient", v: viewerWith(recipientAddr, workflow.RoleRegular), want: VisibilityPersonal},
		{name: "Admin", v: viewerWith(adminAddr, workflow.RoleAdmin), want: VisibilityGeneric},
		{name: "Manager", v: viewerWith(managerAddr, workflow.RoleManager), want: VisibilityNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decide(ev, tt.v, nil, false)
			assert.Equal(t, tt.want, d.visibility)
		})
	}
}

func TestDecide_TransactionStatusUpdated(t *testing.T) {
	tx := &workflow.Transaction{ID: 7, From: senderAddr, To: recipientAddr, Status: workflow.TxActive}

	ev := ledger.Event{
		Kind:          ledger.EventTransactionStatusUpdated,
		TransactionID: 7,
		TxStatus:      workflow.TxActive,
	}

	d := decide(ev, viewerWith(senderAddr, workflow.RoleRegular), tx, false)
	assert.Equal(t, VisibilityPersonal, d.visibility)
	assert.Contains(t, d.n.Detail, "active")

	d = decide(ev, viewerWith(outsiderAddr, workflow.RoleRegular), tx, false)
	assert.Equal(t, VisibilityNone, d.visibility)

	// Degraded decisions fall back to admins only.
	d = decide(ev, viewerWith(senderAddr, workflow.RoleRegular), nil, true)
	assert.Equal(t, VisibilityNone, d.visibility)

	d = decide(ev, viewerWith(adminAddr, workflow.RoleAdmin), nil, true)
	assert.Equal(t, VisibilityGeneric, d.visibility)
}

func TestDecide_UserEvents(t *testing.T) {
	registered := ledger.Event{
		Kind:    ledger.EventUserRegistered,
		UserID:  4,
		Address: outsiderAddr,
		Name:    "Dana",
		Role:    workflow.RoleRegular,
	}

	d := decide(registered, viewerWith(outsiderAddr, workflow.RoleRegular), nil, false)
	assert.Equal(t, VisibilityPersonal, d.visibility)
	assert.Contains(t, d.n.Title, "Welcome")

	d = decide(registered, viewerWith(adminAddr, workflow.RoleAdmin), nil, false)
	assert.Equal(t, VisibilityGeneric, d.visibility)

	d = decide(registered, viewerWith(managerAddr, workflow.RoleManager), nil, false)
	assert.Equal(t, VisibilityNone, d.visibility)

	roleUpdated := ledger.Event{
		Kind:    ledger.EventUserRoleUpdated,
		Address: outsiderAddr,
		Role:    workflow.RoleManager,
	}

	d = decide(roleUpdated, viewerWith(outsiderAddr, workflow.RoleRegular), nil, false)
	assert.Equal(t, VisibilityPersonal, d.visibility)
	assert.Contains(t, d.n.Detail, "manager")
}
