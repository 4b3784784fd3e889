package transfer_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwestbrook/signoff/internal/ledger/memledger"
	"github.com/mwestbrook/signoff/internal/notify"
	"github.com/mwestbrook/signoff/internal/readmodel"
	"github.com/mwestbrook/signoff/internal/reconcile"
	"github.com/mwestbrook/signoff/internal/transfer"
	"github.com/mwestbrook/signoff/internal/user"
	"github.com/mwestbrook/signoff/internal/workflow"
)

// TestApprovalLifecycle walks a transfer through its whole life against
// the in-memory ledger with a live sync engine: create, request
// approval, approve, complete. Each step is observed through the cached
// read model, not the ledger directly.
func TestApprovalLifecycle(t *testing.T) {
	const (
		aliceAddr = "0xA11CE00000000000000000000000000000000001"
		bobAddr   = "0xB0B0000000000000000000000000000000000002"
		monaAddr  = "0x3A4A000000000000000000000000000000000003"
	)

	ctx := context.Background()

	mem := memledger.New()
	mem.Seed(
		workflow.User{Address: aliceAddr, Name: "Alice", Role: workflow.RoleRegular},
		workflow.User{Address: bobAddr, Name: "Bob", Role: workflow.RoleRegular},
		workflow.User{Address: monaAddr, Name: "Mona", Role: workflow.RoleManager},
	)

	cache := readmodel.New()
	txSvc := transfer.NewService(mem, cache)
	userSvc := user.NewService(mem, cache)

	alice, err := userSvc.Viewer(ctx, aliceAddr)
	require.NoError(t, err)
	mona, err := userSvc.Viewer(ctx, monaAddr)
	require.NoError(t, err)

	// Alice's session gets the one live subscription.
	feed := notify.NewFeed(16)
	defer feed.Close()

	var (
		mu       sync.Mutex
		received []notify.Notification
	)
	go func() {
		for n := range feed.C() {
			mu.Lock()
			received = append(received, n)
			mu.Unlock()
		}
	}()

	engine := reconcile.New(mem, cache, feed, alice)
	engine.Start(ctx)
	defer engine.Stop()

	// Create: transaction starts out pending.
	_, err = txSvc.Create(ctx, alice, bobAddr, 2500, "Office supplies")
	require.NoError(t, err)

	txs, err := txSvc.Transactions(ctx, aliceAddr)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	txID := txs[0].ID
	assert.Equal(t, workflow.TxPending, txs[0].Status)

	// Request approval: the transaction shows up in the managers' queue.
	_, err = txSvc.RequestApproval(ctx, alice, txID, "Quarterly restock")
	require.NoError(t, err)

	pending, err := txSvc.PendingApprovals(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, txID, pending[0].TransactionID)
	assert.True(t, workflow.SameAddress(aliceAddr, pending[0].Requester))
	approvalID := pending[0].ID

	// Approve: the transaction activates and leaves the queue.
	_, err = txSvc.ProcessApproval(ctx, mona, approvalID, true, "")
	require.NoError(t, err)

	tx, err := txSvc.Transaction(ctx, txID)
	require.NoError(t, err)
	assert.Equal(t, workflow.TxActive, tx.Status)

	pending, err = txSvc.PendingApprovals(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// The approval addressed Alice's transaction, so her session hears
	// about it personally. The engine resolves the transaction in the
	// background, hence the wait.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		want := fmt.Sprintf("Your transaction %d was approved", txID)
		for _, n := range received {
			if n.Title == "Approval approved" && n.Detail == want {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	// Complete: terminal state, visible through the cache.
	_, err = txSvc.Complete(ctx, alice, txID)
	require.NoError(t, err)

	tx, err = txSvc.Transaction(ctx, txID)
	require.NoError(t, err)
	assert.Equal(t, workflow.TxCompleted, tx.Status)
	assert.True(t, tx.Status.Terminal())

	// Mona already approved; processing the same approval again must
	// fail closed.
	_, err = txSvc.ProcessApproval(ctx, mona, approvalID, false, "changed my mind")
	require.Error(t, err)
}
