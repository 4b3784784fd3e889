package reconcile

import (
	"context"
	"log/slog"

	"github.com/mwestbrook/signoff/internal/ledger"
	"github.com/mwestbrook/signoff/internal/readmodel"
	"github.com/mwestbrook/signoff/internal/workflow"
)

// handle reconciles one event: check it against the local transition
// picture, invalidate the affected cache tags, then resolve the
// notification. A failing handler never stops the stream.
func (e *Engine) handle(ctx context.Context, ev ledger.Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event handler panicked", "kind", ev.Kind, "panic", r)
		}
	}()

	e.checkConsistency(ev)
	e.cache.Invalidate(tagsFor(ev)...)
	e.notify(ctx, ev)
}

// checkConsistency flags events implying transitions outside the state
// machine. The payload is never applied either way; invalidation forces
// a re-read of authoritative state, so a violation is logged, not fatal.
func (e *Engine) checkConsistency(ev ledger.Event) {
	switch ev.Kind {
	case ledger.EventTransactionCreated:
		e.lastStatus[ev.TransactionID] = workflow.TxPending

	case ledger.EventTransactionStatusUpdated:
		if prev, ok := e.lastStatus[ev.TransactionID]; ok {
			if err := workflow.CheckTransition(prev, ev.TxStatus); err != nil {
				slog.Error("ledger event implies forbidden transition; forcing refetch",
					"transaction", ev.TransactionID, "error", err)
			}
		}

		e.lastStatus[ev.TransactionID] = ev.TxStatus
	}
}

// tagsFor computes the invalidation tag set for an event: the directly
// affected entity plus every aggregate view it participates in. List
// queries tag themselves with the transactions they contain, so the
// tx:<id> tag reaches owner-scoped lists without knowing the owner.
func tagsFor(ev ledger.Event) []string {
	switch ev.Kind {
	case ledger.EventTransactionCreated:
		return []string{
			readmodel.TagTransaction(ev.TransactionID),
			readmodel.TagUser(ev.From),
			readmodel.TagUser(ev.To),
			readmodel.TagMetrics,
		}

	case ledger.EventTransactionStatusUpdated:
		return []string{
			readmodel.TagTransaction(ev.TransactionID),
			readmodel.TagPendingApprovals,
			readmodel.TagMetrics,
		}

	case ledger.EventApprovalRequested:
		return []string{
			readmodel.TagApproval(ev.ApprovalID),
			readmodel.TagTransaction(ev.TransactionID),
			readmodel.TagPendingApprovals,
			readmodel.TagUser(ev.Requester),
			readmodel.TagMetrics,
		}

	case ledger.EventApprovalProcessed:
		return []string{
			readmodel.TagApproval(ev.ApprovalID),
			readmodel.TagPendingApprovals,
			readmodel.TagMetrics,
		}

	case ledger.EventUserRegistered:
		return []string{
			readmodel.TagUser(ev.Address),
			readmodel.TagUsers,
			readmodel.TagMetrics,
		}

	case ledger.EventUserRoleUpdated:
		return []string{
			readmodel.TagUser(ev.Address),
			readmodel.TagUsers,
		}
	}

	return nil
}

// notify resolves the visibility decision for the engine's viewer and
// publishes at most one notification. Events whose decision depends on
// addresses the event does not carry trigger a secondary read on a
// separate goroutine, so receipt of the next event is never blocked; if
// that read fails the decision degrades to role-only visibility.
func (e *Engine) notify(ctx context.Context, ev ledger.Event) {
	if !e.viewer.Connected() {
		return
	}

	if !needsTransaction(ev.Kind) {
		e.publish(decide(ev, e.viewer, nil, false))
		return
	}

	e.reads.Add(1)

	go func() {
		defer e.reads.Done()

		tx, err := e.resolveTransaction(ctx, ev)
		if err != nil {
			slog.Warn("secondary read failed; degrading notification decision",
				"kind", ev.Kind, "error", err)
			e.publish(decide(ev, e.viewer, nil, true))

			return
		}

		e.publish(decide(ev, e.viewer, tx, false))
	}()
}

// resolveTransaction fetches the transaction an event refers to,
// indirectly via the approval when the event only names an approval id.
func (e *Engine) resolveTransaction(ctx context.Context, ev ledger.Event) (*workflow.Transaction, error) {
	id := ev.TransactionID

	if ev.Kind == ledger.EventApprovalProcessed {
		approval, err := e.ledger.GetApproval(ctx, ev.ApprovalID)
		if err != nil {
			return nil, err
		}

		id = approval.TransactionID
	}

	return e.ledger.GetTransaction(ctx, id)
}

func (e *Engine) publish(d decision) {
	if d.visibility == VisibilityNone {
		return
	}

	e.sink.Publish(d.n)
}
