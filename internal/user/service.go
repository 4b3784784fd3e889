// Package user is the application service for identities: cache-backed
// user reads, admin-gated registration and role changes, and the
// dashboard metrics.
package user

import (
	"context"
	"errors"

	"github.com/mwestbrook/signoff/internal/ledger"
	"github.com/mwestbrook/signoff/internal/readmodel"
	"github.com/mwestbrook/signoff/internal/viewer"
	"github.com/mwestbrook/signoff/internal/workflow"
)

// ErrNotAllowed reports a submission blocked by the local policy gate.
var ErrNotAllowed = errors.New("user: not allowed")

//go:generate mockgen -source=service.go -destination=ledger_mock.go -package=user
type Ledger interface {
	GetUser(ctx context.Context, address string) (*workflow.User, error)
	ListUsers(ctx context.Context) ([]*workflow.User, error)
	UserCount(ctx context.Context) (uint64, error)
	TransactionStatusCounts(ctx context.Context) (map[workflow.TransactionStatus]int, error)
	PendingApprovalIDs(ctx context.Context) ([]uint64, error)

	RegisterUser(ctx context.Context, actor, address, name, email string, role workflow.Role) (*ledger.Receipt, error)
	UpdateUserRole(ctx context.Context, actor, address string, role workflow.Role) (*ledger.Receipt, error)
}

type Service struct {
	ledger Ledger
	cache  *readmodel.Cache
}

func NewService(l Ledger, cache *readmodel.Cache) *Service {
	return &Service{ledger: l, cache: cache}
}

// User returns the user registered at address, or nil when the address
// is not registered. Absence is cached like any other result so repeated
// lookups of an unregistered address stay local.
func (s *Service) User(ctx context.Context, address string) (*workflow.User, error) {
	v, err := s.cache.Get(ctx, readmodel.Query{
		Key: readmodel.KeyUser(address),
		Fetch: func(ctx context.Context) (any, error) {
			u, err := s.ledger.GetUser(ctx, address)
			if errors.Is(err, ledger.ErrNotFound) {
				return (*workflow.User)(nil), nil
			}

			return u, err
		},
		Tags: func(any) []string {
			return []string{readmodel.TagUser(address)}
		},
	})

	u, _ := v.(*workflow.User)

	return u, err
}

// Viewer resolves the viewer context for a connected address.
func (s *Service) Viewer(ctx context.Context, address string) (viewer.Viewer, error) {
	if address == "" {
		return viewer.Viewer{}, nil
	}

	u, err := s.User(ctx, address)
	if err != nil {
		return viewer.Viewer{Address: address}, err
	}

	return viewer.Viewer{Address: address, User: u}, nil
}

// Users returns every registered user.
func (s *Service) Users(ctx context.Context) ([]*workflow.User, error) {
	v, err := s.cache.Get(ctx, readmodel.Query{
		Key: readmodel.KeyUsers,
		Fetch: func(ctx context.Context) (any, error) {
			return s.ledger.ListUsers(ctx)
		},
		Tags: func(v any) []string {
			tags := []string{readmodel.TagUsers}
			for _, u := range v.([]*workflow.User) {
				tags = append(tags, readmodel.TagUser(u.Address))
			}

			return tags
		},
	})

	users, _ := v.([]*workflow.User)

	return users, err
}

// Metrics is the dashboard summary.
type Metrics struct {
	Users            uint64
	Transactions     int
	ByStatus         map[workflow.TransactionStatus]int
	PendingApprovals int
}

// Metrics returns the dashboard counters, cached as one entry.
func (s *Service) Metrics(ctx context.Context) (Metrics, error) {
	v, err := s.cache.Get(ctx, readmodel.Query{
		Key: readmodel.KeyDashboardMetrics,
		Fetch: func(ctx context.Context) (any, error) {
			count, err := s.ledger.UserCount(ctx)
			if err != nil {
				return nil, err
			}

			byStatus, err := s.ledger.TransactionStatusCounts(ctx)
			if err != nil {
				return nil, err
			}

			total := 0
			for _, n := range byStatus {
				total += n
			}

			pending, err := s.ledger.PendingApprovalIDs(ctx)
			if err != nil {
				return nil, err
			}

			return Metrics{
				Users:            count,
				Transactions:     total,
				ByStatus:         byStatus,
				PendingApprovals: len(pending),
			}, nil
		},
		Tags: func(any) []string {
			return []string{readmodel.TagMetrics}
		},
	})

	m, _ := v.(Metrics)

	return m, err
}

// Register submits a new user registration. Admin only.
func (s *Service) Register(ctx context.Context, v viewer.Viewer, address, name, email string, role workflow.Role) (*ledger.Receipt, error) {
	if !workflow.CanManageUsers(v.Role()) {
		return nil, ErrNotAllowed
	}

	receipt, err := s.ledger.RegisterUser(ctx, v.Address, address, name, email, role)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(
		readmodel.TagUser(address),
		readmodel.TagUsers,
		readmodel.TagMetrics,
	)

	return receipt, nil
}

// UpdateRole submits a role change. Admin only.
func (s *Service) UpdateRole(ctx context.Context, v viewer.Viewer, address string, role workflow.Role) (*ledger.Receipt, error) {
	if !workflow.CanManageUsers(v.Role()) {
		return nil, ErrNotAllowed
	}

	receipt, err := s.ledger.UpdateUserRole(ctx, v.Address, address, role)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(
		readmodel.TagUser(address),
		readmodel.TagUsers,
	)

	return receipt, nil
}
