package transfer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mwestbrook/signoff/internal/ledger"
	"github.com/mwestbrook/signoff/internal/readmodel"
	"github.com/mwestbrook/signoff/internal/transfer"
	"github.com/mwestbrook/signoff/internal/viewer"
	"github.com/mwestbrook/signoff/internal/workflow"
)

const (
	aliceAddr = "0xA100000000000000000000000000000000000001"
	bobAddr   = "0xB000000000000000000000000000000000000002"
)

func regular(addr string) viewer.Viewer {
	return viewer.Viewer{
		Address: addr,
		User:    &workflow.User{Address: addr, Role: workflow.RoleRegular, IsActive: true},
	}
}

func manager(addr string) viewer.Viewer {
	return viewer.Viewer{
		Address: addr,
		User:    &workflow.User{Address: addr, Role: workflow.RoleManager, IsActive: true},
	}
}

func TestService_Transactions_FanOutPreservesOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	l := transfer.NewMockLedger(ctrl)
	l.EXPECT().UserTransactionIDs(gomock.Any(), aliceAddr).Return([]uint64{3, 1, 2}, nil)

	for _, id := range []uint64{1, 2, 3} {
		l.EXPECT().
			GetTransaction(gomock.Any(), id).
			Return(&workflow.Transaction{ID: id, From: aliceAddr}, nil)
	}

	svc := transfer.NewService(l, readmodel.New())

	txs, err := svc.Transactions(context.Background(), aliceAddr)
	require.NoError(t, err)
	require.Len(t, txs, 3)

	// Results follow the id list the ledger returned, not fetch
	// completion order.
	assert.Equal(t, uint64(3), txs[0].ID)
	assert.Equal(t, uint64(1), txs[1].ID)
	assert.Equal(t, uint64(2), txs[2].ID)
}

func TestService_RequestApproval(t *testing.T) {
	type testCase struct {
		name      string
		viewer    viewer.Viewer
		tx        *workflow.Transaction
		setupMock func(m *transfer.MockLedger)
		wantErr   error
	}

	pendingTx := &workflow.Transaction{ID: 7, From: aliceAddr, To: bobAddr, Status: workflow.TxPending}

	tests := []testCase{
		{
			name:   "Success",
			viewer: regular(aliceAddr),
			tx:     pendingTx,
			setupMock: func(m *transfer.MockLedger) {
				m.EXPECT().
					RequestApproval(gomock.Any(), aliceAddr, uint64(7), "quarterly tools").
					Return(&ledger.Receipt{Ref: "r1"}, nil)
			},
		},
		{
			name:    "NotOwner",
			viewer:  regular(bobAddr),
			tx:      pendingTx,
			wantErr: transfer.ErrNotAllowed,
		},
		{
			name:    "NotPending",
			viewer:  regular(aliceAddr),
			tx:      &workflow.Transaction{ID: 7, From: aliceAddr, Status: workflow.TxActive},
			wantErr: transfer.ErrNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			l := transfer.NewMockLedger(ctrl)
			l.EXPECT().GetTransaction(gomock.Any(), uint64(7)).Return(tt.tx, nil)

			if tt.setupMock != nil {
				tt.setupMock(l)
			}

			svc := transfer.NewService(l, readmodel.New())

			receipt, err := svc.RequestApproval(context.Background(), tt.viewer, 7, "quarterly tools")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, receipt)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "r1", receipt.Ref)
		})
	}
}

func TestService_ProcessApproval_RoleGate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	l := transfer.NewMockLedger(ctrl)
	l.EXPECT().
		GetApproval(gomock.Any(), uint64(3)).
		Return(&workflow.Approval{ID: 3, TransactionID: 7, Status: workflow.ApprovalPending}, nil)
	l.EXPECT().
		ProcessApproval(gomock.Any(), bobAddr, uint64(3), true, "fine").
		Return(&ledger.Receipt{Ref: "r2"}, nil)

	svc := transfer.NewService(l, readmodel.New())

	_, err := svc.ProcessApproval(context.Background(), regular(aliceAddr), 3, true, "fine")
	require.ErrorIs(t, err, transfer.ErrNotAllowed)

	// The blocked attempt cached the approval; the manager's retry is
	// served from that snapshot and goes through.
	_, err = svc.ProcessApproval(context.Background(), manager(bobAddr), 3, true, "fine")
	require.NoError(t, err)
}

func TestService_Complete_LedgerRejectionSurfacesVerbatim(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	l := transfer.NewMockLedger(ctrl)
	l.EXPECT().
		GetTransaction(gomock.Any(), uint64(7)).
		Return(&workflow.Transaction{ID: 7, From: aliceAddr, Status: workflow.TxActive}, nil)
	l.EXPECT().
		CompleteTransaction(gomock.Any(), aliceAddr, uint64(7)).
		Return(nil, ledger.Reject("completeTransaction", "already completed"))

	svc := transfer.NewService(l, readmodel.New())

	_, err := svc.Complete(context.Background(), regular(aliceAddr), 7)
	require.Error(t, err)

	var rej *ledger.RejectionError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, "already completed", rej.Reason)
}

func TestService_Create_InvalidatesCallerQueries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	l := transfer.NewMockLedger(ctrl)
	l.EXPECT().UserTransactionIDs(gomock.Any(), aliceAddr).Return(nil, nil).Times(2)
	l.EXPECT().
		CreateTransaction(gomock.Any(), aliceAddr, bobAddr, uint64(100), "supplies").
		Return(&ledger.Receipt{Ref: "r3"}, nil)

	cache := readmodel.New()
	svc := transfer.NewService(l, cache)

	// Prime the caller's transaction list.
	_, err := svc.Transactions(context.Background(), aliceAddr)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), regular(aliceAddr), bobAddr, 100, "supplies")
	require.NoError(t, err)

	// The confirmed write invalidated the list: this Get refetches,
	// consuming the second UserTransactionIDs expectation.
	_, err = svc.Transactions(context.Background(), aliceAddr)
	require.NoError(t, err)
}

func TestService_Create_UnregisteredViewer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := transfer.NewService(transfer.NewMockLedger(ctrl), readmodel.New())

	_, err := svc.Create(context.Background(), viewer.Viewer{Address: aliceAddr}, bobAddr, 100, "supplies")
	require.ErrorIs(t, err, transfer.ErrNotAllowed)
}
