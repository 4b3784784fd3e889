// Package transfer is the application service for transactions and
// approvals: cache-backed reads, policy-gated writes, and the proactive
// invalidation that follows a confirmed submission.
package transfer

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/mwestbrook/signoff/internal/ledger"
	"github.com/mwestbrook/signoff/internal/readmodel"
	"github.com/mwestbrook/signoff/internal/viewer"
	"github.com/mwestbrook/signoff/internal/workflow"
)

// ErrNotAllowed reports a submission blocked by the local policy gate.
// The ledger would have refused it anyway; failing here saves the round
// trip.
var ErrNotAllowed = errors.New("transfer: not allowed")

// fetchConcurrency bounds the fan-out of per-id entity reads.
const fetchConcurrency = 8

//go:generate mockgen -source=service.go -destination=ledger_mock.go -package=transfer
type Ledger interface {
	GetTransaction(ctx context.Context, id uint64) (*workflow.Transaction, error)
	UserTransactionIDs(ctx context.Context, address string) ([]uint64, error)
	GetApproval(ctx context.Context, id uint64) (*workflow.Approval, error)
	PendingApprovalIDs(ctx context.Context) ([]uint64, error)

	CreateTransaction(ctx context.Context, actor, to string, amount uint64, description string) (*ledger.Receipt, error)
	RequestApproval(ctx context.Context, actor string, transactionID uint64, reason string) (*ledger.Receipt, error)
	ProcessApproval(ctx context.Context, actor string, approvalID uint64, approved bool, reason string) (*ledger.Receipt, error)
	CompleteTransaction(ctx context.Context, actor string, transactionID uint64) (*ledger.Receipt, error)
}

type Service struct {
	ledger Ledger
	cache  *readmodel.Cache
}

func NewService(l Ledger, cache *readmodel.Cache) *Service {
	return &Service{ledger: l, cache: cache}
}

// Transactions returns every transaction the address participates in.
// Served from cache; the entry is tagged with each contained transaction
// so any single-transaction invalidation reaches the list.
func (s *Service) Transactions(ctx context.Context, address string) ([]*workflow.Transaction, error) {
	v, err := s.cache.Get(ctx, readmodel.Query{
		Key: readmodel.KeyTransactions(address),
		Fetch: func(ctx context.Context) (any, error) {
			return s.fetchTransactions(ctx, address)
		},
		Tags: func(v any) []string {
			tags := []string{readmodel.TagUser(address)}
			for _, tx := range v.([]*workflow.Transaction) {
				tags = append(tags, readmodel.TagTransaction(tx.ID))
			}

			return tags
		},
	})

	txs, _ := v.([]*workflow.Transaction)

	return txs, err
}

func (s *Service) fetchTransactions(ctx context.Context, address string) ([]*workflow.Transaction, error) {
	ids, err := s.ledger.UserTransactionIDs(ctx, address)
	if err != nil {
		return nil, err
	}

	txs := make([]*workflow.Transaction, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			tx, err := s.ledger.GetTransaction(ctx, id)
			if err != nil {
				return err
			}

			txs[i] = tx

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return txs, nil
}

// Transaction returns one transaction, or ledger.ErrNotFound.
func (s *Service) Transaction(ctx context.Context, id uint64) (*workflow.Transaction, error) {
	v, err := s.cache.Get(ctx, readmodel.Query{
		Key: readmodel.KeyTransaction(id),
		Fetch: func(ctx context.Context) (any, error) {
			return s.ledger.GetTransaction(ctx, id)
		},
		Tags: func(any) []string {
			return []string{readmodel.TagTransaction(id)}
		},
	})

	tx, _ := v.(*workflow.Transaction)

	return tx, err
}

// PendingApprovals returns every approval awaiting a decision.
func (s *Service) PendingApprovals(ctx context.Context) ([]*workflow.Approval, error) {
	v, err := s.cache.Get(ctx, readmodel.Query{
		Key: readmodel.KeyPendingApprovals,
		Fetch: func(ctx context.Context) (any, error) {
			return s.fetchPendingApprovals(ctx)
		},
		Tags: func(v any) []string {
			tags := []string{readmodel.TagPendingApprovals}
			for _, a := range v.([]*workflow.Approval) {
				tags = append(tags, readmodel.TagApproval(a.ID))
			}

			return tags
		},
	})

	approvals, _ := v.([]*workflow.Approval)

	return approvals, err
}

func (s *Service) fetchPendingApprovals(ctx context.Context) ([]*workflow.Approval, error) {
	ids, err := s.ledger.PendingApprovalIDs(ctx)
	if err != nil {
		return nil, err
	}

	approvals := make([]*workflow.Approval, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			a, err := s.ledger.GetApproval(ctx, id)
			if err != nil {
				return err
			}

			approvals[i] = a

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return approvals, nil
}

// Approval returns one approval, or ledger.ErrNotFound.
func (s *Service) Approval(ctx context.Context, id uint64) (*workflow.Approval, error) {
	v, err := s.cache.Get(ctx, readmodel.Query{
		Key: readmodel.KeyApproval(id),
		Fetch: func(ctx context.Context) (any, error) {
			return s.ledger.GetApproval(ctx, id)
		},
		Tags: func(any) []string {
			return []string{readmodel.TagApproval(id)}
		},
	})

	a, _ := v.(*workflow.Approval)

	return a, err
}

// Create submits a new transfer from the viewer to the given address.
func (s *Service) Create(ctx context.Context, v viewer.Viewer, to string, amount uint64, description string) (*ledger.Receipt, error) {
	if !v.Registered() {
		return nil, ErrNotAllowed
	}

	receipt, err := s.ledger.CreateTransaction(ctx, v.Address, to, amount, description)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(
		readmodel.TagUser(v.Address),
		readmodel.TagUser(to),
		readmodel.TagMetrics,
	)

	return receipt, nil
}

// RequestApproval asks for a sign-off on the viewer's pending
// transaction. The policy gate runs over the cached snapshot; the ledger
// re-enforces it either way.
func (s *Service) RequestApproval(ctx context.Context, v viewer.Viewer, transactionID uint64, reason string) (*ledger.Receipt, error) {
	tx, err := s.Transaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if !workflow.CanRequestApproval(tx, v.Address) {
		return nil, ErrNotAllowed
	}

	receipt, err := s.ledger.RequestApproval(ctx, v.Address, transactionID, reason)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(
		readmodel.TagTransaction(transactionID),
		readmodel.TagPendingApprovals,
		readmodel.TagUser(v.Address),
		readmodel.TagMetrics,
	)

	return receipt, nil
}

// ProcessApproval records the viewer's approve/reject decision.
func (s *Service) ProcessApproval(ctx context.Context, v viewer.Viewer, approvalID uint64, approved bool, reason string) (*ledger.Receipt, error) {
	approval, err := s.Approval(ctx, approvalID)
	if err != nil {
		return nil, err
	}

	if !workflow.CanProcessApproval(approval, v.Role()) {
		return nil, ErrNotAllowed
	}

	receipt, err := s.ledger.ProcessApproval(ctx, v.Address, approvalID, approved, reason)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(
		readmodel.TagApproval(approvalID),
		readmodel.TagPendingApprovals,
		readmodel.TagTransaction(approval.TransactionID),
		readmodel.TagMetrics,
	)

	return receipt, nil
}

// Complete finishes the viewer's active transaction.
func (s *Service) Complete(ctx context.Context, v viewer.Viewer, transactionID uint64) (*ledger.Receipt, error) {
	tx, err := s.Transaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if !workflow.CanCompleteTransaction(tx, v.Address) {
		return nil, ErrNotAllowed
	}

	receipt, err := s.ledger.CompleteTransaction(ctx, v.Address, transactionID)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(
		readmodel.TagTransaction(transactionID),
		readmodel.TagUser(v.Address),
		readmodel.TagMetrics,
	)

	return receipt, nil
}
