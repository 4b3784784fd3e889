// Package memledger is an in-memory stand-in for the external ledger. It
// enforces the same workflow rules the real ledger does and emits the
// same ordered event stream, which makes it the backend for local
// development and the end-to-end tests. Nothing in it is durable.
package memledger

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mwestbrook/signoff/internal/ledger"
	"github.com/mwestbrook/signoff/internal/workflow"
)

type subscriber struct {
	ch   chan ledger.Event
	errc chan error
}

// Ledger is an in-memory ledger.Gateway.
type Ledger struct {
	mu sync.Mutex

	users        map[string]*workflow.User
	transactions map[uint64]*workflow.Transaction
	approvals    map[uint64]*workflow.Approval
	userTxIDs    map[string][]uint64

	nextUserID     uint64
	nextTxID       uint64
	nextApprovalID uint64
	seq            uint64

	subs map[*subscriber]struct{}
}

// New builds an empty ledger.
func New() *Ledger {
	return &Ledger{
		users:        make(map[string]*workflow.User),
		transactions: make(map[uint64]*workflow.Transaction),
		approvals:    make(map[uint64]*workflow.Approval),
		userTxIDs:    make(map[string][]uint64),
		subs:         make(map[*subscriber]struct{}),
	}
}

func addrKey(address string) string {
	return strings.ToLower(address)
}

// Seed installs users directly, without an acting admin and without
// emitting events. For bootstrapping development and test fixtures.
func (l *Ledger) Seed(users ...workflow.User) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, u := range users {
		l.nextUserID++
		u.ID = l.nextUserID
		u.IsActive = true

		if u.CreatedAt.IsZero() {
			u.CreatedAt = time.Now()
		}

		l.users[addrKey(u.Address)] = &u
	}
}

func (l *Ledger) receipt() *ledger.Receipt {
	return &ledger.Receipt{Ref: uuid.NewString(), ConfirmedAt: time.Now()}
}

// errSlowSubscriber signals a subscriber whose buffer overflowed. The
// stream is broken rather than blocked: the consumer resubscribes and
// rebuilds from authoritative reads.
var errSlowSubscriber = errors.New("memledger: subscriber fell behind")

// emit delivers events to every subscriber in ledger order. Called with
// l.mu held so the order events are assigned is the order they are sent.
// Sends never block: a subscriber that stops draining gets a stream
// error instead of stalling every ledger operation.
func (l *Ledger) emit(events ...ledger.Event) {
	for i := range events {
		l.seq++
		events[i].Seq = l.seq

		for sub := range l.subs {
			select {
			case sub.ch <- events[i]:
			default:
				select {
				case sub.errc <- ledger.Transient(errSlowSubscriber):
				default:
				}
			}
		}
	}
}

func (l *Ledger) actingUser(actor string) (*workflow.User, bool) {
	u, ok := l.users[addrKey(actor)]
	return u, ok && u.IsActive
}

// GetUser returns the user registered at address, or ErrNotFound for an
// unregistered address.
func (l *Ledger) GetUser(_ context.Context, address string) (*workflow.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.users[addrKey(address)]
	if !ok {
		return nil, ledger.ErrNotFound
	}

	cp := *u

	return &cp, nil
}

func (l *Ledger) ListUsers(context.Context) ([]*workflow.User, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	users := make([]*workflow.User, 0, len(l.users))
	for _, u := range l.users {
		cp := *u
		users = append(users, &cp)
	}

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

func (l *Ledger) UserCount(context.Context) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return uint64(len(l.users)), nil
}

func (l *Ledger) GetTransaction(_ context.Context, id uint64) (*workflow.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, ok := l.transactions[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}

	cp := *tx

	return &cp, nil
}

func (l *Ledger) UserTransactionIDs(_ context.Context, address string) ([]uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := l.userTxIDs[addrKey(address)]

	return append([]uint64(nil), ids...), nil
}

func (l *Ledger) TransactionStatusCounts(context.Context) (map[workflow.TransactionStatus]int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts := make(map[workflow.TransactionStatus]int)
	for _, tx := range l.transactions {
		counts[tx.Status]++
	}

	return counts, nil
}

func (l *Ledger) GetApproval(_ context.Context, id uint64) (*workflow.Approval, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.approvals[id]
	if !ok {
		return nil, ledger.ErrNotFound
	}

	cp := *a

	return &cp, nil
}

func (l *Ledger) PendingApprovalIDs(context.Context) ([]uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var ids []uint64
	for id, a := range l.approvals {
		if a.Status == workflow.ApprovalPending {
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}

func (l *Ledger) CreateTransaction(_ context.Context, actor, to string, amount uint64, description string) (*ledger.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sender, ok := l.actingUser(actor)
	if !ok {
		return nil, ledger.Reject("createTransaction", "sender not registered")
	}

	if _, ok := l.users[addrKey(to)]; !ok {
		return nil, ledger.Reject("createTransaction", "recipient not registered")
	}

	l.nextTxID++
	tx := &workflow.Transaction{
		ID:          l.nextTxID,
		From:        sender.Address,
		To:          to,
		Amount:      amount,
		Description: description,
		Status:      workflow.TxPending,
		Timestamp:   time.Now(),
	}

	l.transactions[tx.ID] = tx
	l.userTxIDs[addrKey(tx.From)] = append(l.userTxIDs[addrKey(tx.From)], tx.ID)
	if addrKey(to) != addrKey(tx.From) {
		l.userTxIDs[addrKey(to)] = append(l.userTxIDs[addrKey(to)], tx.ID)
	}

	l.emit(ledger.Event{
		Kind:          ledger.EventTransactionCreated,
		TransactionID: tx.ID,
		From:          tx.From,
		To:            tx.To,
		Amount:        tx.Amount,
	})

	return l.receipt(), nil
}

func (l *Ledger) RequestApproval(_ context.Context, actor string, transactionID uint64, reason string) (*ledger.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, ok := l.transactions[transactionID]
	if !ok {
		return nil, ledger.Reject("requestApproval", "transaction does not exist")
	}

	if !workflow.SameAddress(actor, tx.From) {
		return nil, ledger.Reject("requestApproval", "only the sender can request approval")
	}

	if tx.Status != workflow.TxPending {
		return nil, ledger.Reject("requestApproval", "transaction is not pending")
	}

	if tx.ApprovalID != 0 && l.approvals[tx.ApprovalID].Status == workflow.ApprovalPending {
		return nil, ledger.Reject("requestApproval", "approval already requested")
	}

	if len(reason) > workflow.MaxReasonLen {
		return nil, ledger.Reject("requestApproval", "reason too long")
	}

	l.nextApprovalID++
	a := &workflow.Approval{
		ID:            l.nextApprovalID,
		TransactionID: tx.ID,
		Requester:     tx.From,
		Status:        workflow.ApprovalPending,
		Reason:        reason,
		Timestamp:     time.Now(),
	}

	l.approvals[a.ID] = a
	tx.ApprovalID = a.ID

	l.emit(ledger.Event{
		Kind:          ledger.EventApprovalRequested,
		ApprovalID:    a.ID,
		TransactionID: tx.ID,
		Requester:     a.Requester,
	})

	return l.receipt(), nil
}

func (l *Ledger) ProcessApproval(_ context.Context, actor string, approvalID uint64, approved bool, reason string) (*ledger.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	approver, ok := l.actingUser(actor)
	if !ok || approver.Role < workflow.RoleManager {
		return nil, ledger.Reject("processApproval", "approver must be a manager or admin")
	}

	a, ok := l.approvals[approvalID]
	if !ok {
		return nil, ledger.Reject("processApproval", "approval does not exist")
	}

	if a.Status != workflow.ApprovalPending {
		return nil, ledger.Reject("processApproval", "approval already processed")
	}

	if len(reason) > workflow.MaxReasonLen {
		return nil, ledger.Reject("processApproval", "reason too long")
	}

	tx := l.transactions[a.TransactionID]

	a.Approver = approver.Address
	if reason != "" {
		a.Reason = reason
	}

	if approved {
		a.Status = workflow.ApprovalApproved
		tx.Status = workflow.TxActive
	} else {
		a.Status = workflow.ApprovalRejected
		tx.Status = workflow.TxRejected
	}

	l.emit(
		ledger.Event{
			Kind:           ledger.EventApprovalProcessed,
			ApprovalID:     a.ID,
			ApprovalStatus: a.Status,
			Approver:       a.Approver,
		},
		ledger.Event{
			Kind:          ledger.EventTransactionStatusUpdated,
			TransactionID: tx.ID,
			TxStatus:      tx.Status,
		},
	)

	return l.receipt(), nil
}

func (l *Ledger) CompleteTransaction(_ context.Context, actor string, transactionID uint64) (*ledger.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, ok := l.transactions[transactionID]
	if !ok {
		return nil, ledger.Reject("completeTransaction", "transaction does not exist")
	}

	if !workflow.SameAddress(actor, tx.From) {
		return nil, ledger.Reject("completeTransaction", "only the sender can complete")
	}

	if tx.Status != workflow.TxActive {
		return nil, ledger.Reject("completeTransaction", "transaction is not active")
	}

	tx.Status = workflow.TxCompleted

	l.emit(ledger.Event{
		Kind:          ledger.EventTransactionStatusUpdated,
		TransactionID: tx.ID,
		TxStatus:      tx.Status,
	})

	return l.receipt(), nil
}

func (l *Ledger) RegisterUser(_ context.Context, actor, address, name, email string, role workflow.Role) (*ledger.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	admin, ok := l.actingUser(actor)
	if !ok || admin.Role < workflow.RoleAdmin {
		return nil, ledger.Reject("registerUser", "only admins can register users")
	}

	if _, ok := l.users[addrKey(address)]; ok {
		return nil, ledger.Reject("registerUser", "address already registered")
	}

	if !role.Valid() {
		return nil, ledger.Reject("registerUser", "invalid role")
	}

	l.nextUserID++
	u := &workflow.User{
		ID:        l.nextUserID,
		Address:   address,
		Name:      name,
		Email:     email,
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	l.users[addrKey(address)] = u

	l.emit(ledger.Event{
		Kind:    ledger.EventUserRegistered,
		UserID:  u.ID,
		Address: u.Address,
		Name:    u.Name,
		Role:    u.Role,
	})

	return l.receipt(), nil
}

func (l *Ledger) UpdateUserRole(_ context.Context, actor, address string, role workflow.Role) (*ledger.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	admin, ok := l.actingUser(actor)
	if !ok || admin.Role < workflow.RoleAdmin {
		return nil, ledger.Reject("updateUserRole", "only admins can update roles")
	}

	u, ok := l.users[addrKey(address)]
	if !ok {
		return nil, ledger.Reject("updateUserRole", "user does not exist")
	}

	if !role.Valid() {
		return nil, ledger.Reject("updateUserRole", "invalid role")
	}

	u.Role = role

	l.emit(ledger.Event{
		Kind:    ledger.EventUserRoleUpdated,
		Address: u.Address,
		Role:    u.Role,
	})

	return l.receipt(), nil
}

// Subscribe opens an ordered event feed. Events emitted after the call
// are delivered in ledger order until the subscription is closed.
func (l *Ledger) Subscribe(context.Context) (*ledger.Subscription, error) {
	sub := &subscriber{
		ch:   make(chan ledger.Event, 256),
		errc: make(chan error, 1),
	}

	l.mu.Lock()
	l.subs[sub] = struct{}{}
	l.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, sub)
			l.mu.Unlock()
			close(sub.ch)
		})
	}

	return ledger.NewSubscription(sub.ch, sub.errc, stop), nil
}
