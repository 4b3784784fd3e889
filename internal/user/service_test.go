package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mwestbrook/signoff/internal/ledger"
	"github.com/mwestbrook/signoff/internal/readmodel"
	"github.com/mwestbrook/signoff/internal/user"
	"github.com/mwestbrook/signoff/internal/viewer"
	"github.com/mwestbrook/signoff/internal/workflow"
)

const (
	adminAddr   = "0xAD00000000000000000000000000000000000001"
	unknownAddr = "0x9900000000000000000000000000000000000099"
)

func admin() viewer.Viewer {
	return viewer.Viewer{
		Address: adminAddr,
		User:    &workflow.User{Address: adminAddr, Role: workflow.RoleAdmin, IsActive: true},
	}
}

func TestService_User_AbsentIsNilNotError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	l := user.NewMockLedger(ctrl)
	l.EXPECT().GetUser(gomock.Any(), unknownAddr).Return(nil, ledger.ErrNotFound)

	svc := user.NewService(l, readmodel.New())

	u, err := svc.User(context.Background(), unknownAddr)
	require.NoError(t, err)
	assert.Nil(t, u)

	// Absence is cached: no second ledger read.
	u, err = svc.User(context.Background(), unknownAddr)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestService_Viewer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	l := user.NewMockLedger(ctrl)
	l.EXPECT().
		GetUser(gomock.Any(), adminAddr).
		Return(&workflow.User{ID: 1, Address: adminAddr, Role: workflow.RoleAdmin, IsActive: true}, nil)

	svc := user.NewService(l, readmodel.New())

	v, err := svc.Viewer(context.Background(), adminAddr)
	require.NoError(t, err)
	assert.True(t, v.Registered())
	assert.Equal(t, workflow.RoleAdmin, v.Role())

	// No address, no lookup.
	v, err = svc.Viewer(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, v.Connected())
}

func TestService_Register(t *testing.T) {
	type testCase struct {
		name      string
		viewer    viewer.Viewer
		setupMock func(m *user.MockLedger)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "AdminSucceeds",
			viewer: admin(),
			setupMock: func(m *user.MockLedger) {
				m.EXPECT().
					RegisterUser(gomock.Any(), adminAddr, unknownAddr, "Casey", "casey@example.com", workflow.RoleRegular).
					Return(&ledger.Receipt{Ref: "r1"}, nil)
			},
		},
		{
			name: "ManagerBlocked",
			viewer: viewer.Viewer{
				Address: adminAddr,
				User:    &workflow.User{Address: adminAddr, Role: workflow.RoleManager, IsActive: true},
			},
			wantErr: user.ErrNotAllowed,
		},
		{
			name:    "UnregisteredBlocked",
			viewer:  viewer.Viewer{Address: unknownAddr},
			wantErr: user.ErrNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			l := user.NewMockLedger(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(l)
			}

			svc := user.NewService(l, readmodel.New())

			_, err := svc.Register(context.Background(), tt.viewer, unknownAddr, "Casey", "casey@example.com", workflow.RoleRegular)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestService_Metrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	l := user.NewMockLedger(ctrl)
	l.EXPECT().UserCount(gomock.Any()).Return(uint64(4), nil)
	l.EXPECT().TransactionStatusCounts(gomock.Any()).Return(map[workflow.TransactionStatus]int{
		workflow.TxPending:   1,
		workflow.TxCompleted: 2,
	}, nil)
	l.EXPECT().PendingApprovalIDs(gomock.Any()).Return([]uint64{1, 2}, nil)

	svc := user.NewService(l, readmodel.New())

	m, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(4), m.Users)
	assert.Equal(t, 3, m.Transactions)
	assert.Equal(t, 2, m.ByStatus[workflow.TxCompleted])
	assert.Equal(t, 1, m.ByStatus[workflow.TxPending])
	assert.Equal(t, 2, m.PendingApprovals)

	// Cached on the second read.
	_, err = svc.Metrics(context.Background())
	require.NoError(t, err)
}

func TestService_UpdateRole_InvalidatesUserQueries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	l := user.NewMockLedger(ctrl)
	l.EXPECT().
		GetUser(gomock.Any(), unknownAddr).
		Return(&workflow.User{ID: 2, Address: unknownAddr, Role: workflow.RoleRegular, IsActive: true}, nil)
	l.EXPECT().
		UpdateUserRole(gomock.Any(), adminAddr, unknownAddr, workflow.RoleManager).
		Return(&ledger.Receipt{Ref: "r2"}, nil)
	l.EXPECT().
		GetUser(gomock.Any(), unknownAddr).
		Return(&workflow.User{ID: 2, Address: unknownAddr, Role: workflow.RoleManager, IsActive: true}, nil)

	cache := readmodel.New()
	svc := user.NewService(l, cache)

	u, err := svc.User(context.Background(), unknownAddr)
	require.NoError(t, err)
	require.Equal(t, workflow.RoleRegular, u.Role)

	_, err = svc.UpdateRole(context.Background(), admin(), unknownAddr, workflow.RoleManager)
	require.NoError(t, err)

	u, err = svc.User(context.Background(), unknownAddr)
	require.NoError(t, err)
	assert.Equal(t, workflow.RoleManager, u.Role)
}
