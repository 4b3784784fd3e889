package memledger_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwestbrook/signoff/internal/ledger"
	"github.com/mwestbrook/signoff/internal/ledger/memledger"
	"github.com/mwestbrook/signoff/internal/workflow"
)

const (
	adminAddr   = "0xAD00000000000000000000000000000000000001"
	managerAddr = "0x3A00000000000000000000000000000000000002"
	aliceAddr   = "0xA100000000000000000000000000000000000003"
	bobAddr     = "0xB000000000000000000000000000000000000004"
)

func seeded() *memledger.Ledger {
	l := memledger.New()
	l.Seed(
		workflow.User{Address: adminAddr, Name: "Admin", Email: "admin@example.com", Role: workflow.RoleAdmin},
		workflow.User{Address: managerAddr, Name: "Morgan", Email: "morgan@example.com", Role: workflow.RoleManager},
		workflow.User{Address: aliceAddr, Name: "Alice", Email: "alice@example.com", Role: workflow.RoleRegular},
		workflow.User{Address: bobAddr, Name: "Bob", Email: "bob@example.com", Role: workflow.RoleRegular},
	)

	return l
}

func TestGetUser_UnregisteredIsNotFound(t *testing.T) {
	l := seeded()

	_, err := l.GetUser(context.Background(), "0x9900000000000000000000000000000000000099")
	require.ErrorIs(t, err, ledger.ErrNotFound)

	u, err := l.GetUser(context.Background(), aliceAddr)
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, workflow.RoleRegular, u.Role)
}

func TestCreateTransaction_Gating(t *testing.T) {
	l := seeded()
	ctx := context.Background()

	_, err := l.CreateTransaction(ctx, "0x9900000000000000000000000000000000000099", bobAddr, 100, "supplies")
	require.Error(t, err)
	assert.True(t, ledger.IsRejection(err))

	_, err = l.CreateTransaction(ctx, aliceAddr, "0x9900000000000000000000000000000000000099", 100, "supplies")
	require.Error(t, err)
	assert.True(t, ledger.IsRejection(err))

	_, err = l.CreateTransaction(ctx, aliceAddr, bobAddr, 100, "supplies")
	require.NoError(t, err)

	ids, err := l.UserTransactionIDs(ctx, aliceAddr)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	tx, err := l.GetTransaction(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, workflow.TxPending, tx.Status)
	assert.Zero(t, tx.ApprovalID)
}

func TestApprovalFlow_Enforcement(t *testing.T) {
	l := seeded()
	ctx := context.Background()

	_, err := l.CreateTransaction(ctx, aliceAddr, bobAddr, 500, "laptop")
	require.NoError(t, err)

	// Only the sender may request approval.
	_, err = l.RequestApproval(ctx, bobAddr, 1, "need this")
	require.True(t, ledger.IsRejection(err))

	_, err = l.RequestApproval(ctx, aliceAddr, 1, "need this")
	require.NoError(t, err)

	// A second active approval is refused.
	_, err = l.RequestApproval(ctx, aliceAddr, 1, "again")
	require.True(t, ledger.IsRejection(err))

	// Regulars cannot process approvals.
	_, err = l.ProcessApproval(ctx, bobAddr, 1, true, "")
	require.True(t, ledger.IsRejection(err))

	_, err = l.ProcessApproval(ctx, managerAddr, 1, true, "looks fine")
	require.NoError(t, err)

	a, err := l.GetApproval(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, workflow.ApprovalApproved, a.Status)
	assert.True(t, workflow.SameAddress(a.Approver, managerAddr))

	tx, err := l.GetTransaction(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, workflow.TxActive, tx.Status)

	// Processing twice is refused.
	_, err = l.ProcessApproval(ctx, managerAddr, 1, false, "")
	require.True(t, ledger.IsRejection(err))

	// Only the sender completes, and only an active transaction.
	_, err = l.CompleteTransaction(ctx, bobAddr, 1)
	require.True(t, ledger.IsRejection(err))

	_, err = l.CompleteTransaction(ctx, aliceAddr, 1)
	require.NoError(t, err)

	_, err = l.CompleteTransaction(ctx, aliceAddr, 1)
	require.True(t, ledger.IsRejection(err))
}

func TestUserAdministration(t *testing.T) {
	l := seeded()
	ctx := context.Background()

	newAddr := "0xCC00000000000000000000000000000000000005"

	_, err := l.RegisterUser(ctx, managerAddr, newAddr, "Casey", "casey@example.com", workflow.RoleRegular)
	require.True(t, ledger.IsRejection(err), "managers cannot register users")

	_, err = l.RegisterUser(ctx, adminAddr, newAddr, "Casey", "casey@example.com", workflow.RoleRegular)
	require.NoError(t, err)

	_, err = l.RegisterUser(ctx, adminAddr, newAddr, "Casey", "casey@example.com", workflow.RoleRegular)
	require.True(t, ledger.IsRejection(err), "duplicate registration")

	_, err = l.UpdateUserRole(ctx, adminAddr, newAddr, workflow.RoleManager)
	require.NoError(t, err)

	u, err := l.GetUser(ctx, newAddr)
	require.NoError(t, err)
	assert.Equal(t, workflow.RoleManager, u.Role)

	count, err := l.UserCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), count)
}

func TestSubscribe_EmitsOrderedEvents(t *testing.T) {
	l := seeded()
	ctx := context.Background()

	sub, err := l.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	_, err = l.CreateTransaction(ctx, aliceAddr, bobAddr, 100, "supplies")
	require.NoError(t, err)
	_, err = l.RequestApproval(ctx, aliceAddr, 1, "please")
	require.NoError(t, err)
	_, err = l.ProcessApproval(ctx, managerAddr, 1, false, "no budget")
	require.NoError(t, err)

	wantKinds := []ledger.EventKind{
		ledger.EventTransactionCreated,
		ledger.EventApprovalRequested,
		ledger.EventApprovalProcessed,
		ledger.EventTransactionStatusUpdated,
	}

	var lastSeq uint64
	for i, want := range wantKinds {
		ev := <-sub.Events
		assert.Equal(t, want, ev.Kind, "event %d", i)
		assert.Greater(t, ev.Seq, lastSeq, "sequence must be strictly increasing")
		lastSeq = ev.Seq
	}

	// Rejection path: the transaction ends Rejected.
	tx, err := l.GetTransaction(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, workflow.TxRejected, tx.Status)

	// Closing twice is safe; no events flow after close.
	sub.Close()
	sub.Close()
}

func TestSubscribe_SlowConsumerDoesNotBlockWrites(t *testing.T) {
	l := seeded()
	ctx := context.Background()

	// Never drained, so the event buffer fills up.
	sub, err := l.Subscribe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	for i := 0; i < 300; i++ {
		addr := fmt.Sprintf("0xDD000000000000000000000000000000000%05d", i)
		_, err := l.RegisterUser(ctx, adminAddr, addr, "Bulk", "", workflow.RoleRegular)
		require.NoError(t, err)
	}

	select {
	case err := <-sub.Err:
		assert.True(t, ledger.IsTransient(err))
	default:
		t.Fatal("expected an overflow error on the subscription")
	}
}

func TestTransactionStatusCounts(t *testing.T) {
	l := seeded()
	ctx := context.Background()

	counts, err := l.TransactionStatusCounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)

	_, err = l.CreateTransaction(ctx, aliceAddr, bobAddr, 100, "supplies")
	require.NoError(t, err)
	_, err = l.CreateTransaction(ctx, aliceAddr, bobAddr, 200, "travel")
	require.NoError(t, err)
	_, err = l.RequestApproval(ctx, aliceAddr, 2, "please")
	require.NoError(t, err)
	_, err = l.ProcessApproval(ctx, managerAddr, 1, true, "")
	require.NoError(t, err)
	_, err = l.CompleteTransaction(ctx, aliceAddr, 2)
	require.NoError(t, err)

	counts, err = l.TransactionStatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[workflow.TransactionStatus]int{
		workflow.TxPending:   1,
		workflow.TxCompleted: 1,
	}, counts)
}

func TestRejectionReasonsSurfaceVerbatim(t *testing.T) {
	l := seeded()

	_, err := l.ProcessApproval(context.Background(), aliceAddr, 99, true, "")

	var rej *ledger.RejectionError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, "processApproval", rej.Op)
	assert.NotEmpty(t, rej.Reason)
}
