// Package reconcile keeps the read-model cache in agreement with the
// ledger by consuming its event stream, and decides which events the
// connected viewer should be told about.
package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/mwestbrook/signoff/internal/ledger"
	"github.com/mwestbrook/signoff/internal/notify"
	"github.com/mwestbrook/signoff/internal/readmodel"
	"github.com/mwestbrook/signoff/internal/viewer"
	"github.com/mwestbrook/signoff/internal/workflow"
)

// State is the lifecycle of the engine's ledger subscription.
type State int

const (
	StateDetached State = iota
	StateSubscribing
	StateActive
	StateError
)

func (s State) String() string {
	switch s {
	case StateDetached:
		return "detached"
	case StateSubscribing:
		return "subscribing"
	case StateActive:
		return "active"
	case StateError:
		return "error"
	}

	return "unknown"
}

//go:generate mockgen -source=engine.go -destination=ledger_mock.go -package=reconcile
type Ledger interface {
	GetTransaction(ctx context.Context, id uint64) (*workflow.Transaction, error)
	GetApproval(ctx context.Context, id uint64) (*workflow.Approval, error)
	Subscribe(ctx context.Context) (*ledger.Subscription, error)
}

// Engine holds exactly one logical subscription for one viewer context.
// Events are processed one at a time in arrival order; secondary reads
// run off that path so a slow ledger read never delays the next event.
type Engine struct {
	ledger Ledger
	cache  *readmodel.Cache
	sink   notify.Sink
	viewer viewer.Viewer

	retryInitial time.Duration
	retryCeiling time.Duration

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}

	// lastStatus is the most recent status observed per transaction,
	// kept only to spot events implying forbidden transitions. It is
	// never served to callers.
	lastStatus map[uint64]workflow.TransactionStatus

	reads sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithResubscribeBackoff tunes the delays between subscription attempts.
func WithResubscribeBackoff(initial, ceiling time.Duration) Option {
	return func(e *Engine) {
		e.retryInitial = initial
		e.retryCeiling = ceiling
	}
}

// New builds an engine for the given viewer. Nothing runs until Start.
func New(l Ledger, cache *readmodel.Cache, sink notify.Sink, v viewer.Viewer, opts ...Option) *Engine {
	e := &Engine{
		ledger:       l,
		cache:        cache,
		sink:         sink,
		viewer:       v,
		retryInitial: time.Second,
		retryCeiling: 30 * time.Second,
		state:        StateDetached,
		lastStatus:   make(map[uint64]workflow.TransactionStatus),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// State returns the current subscription state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// Start launches the subscription loop. It returns immediately; the
// engine keeps itself subscribed until Stop or ctx cancellation.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done != nil {
		return
	}

	ctx, e.cancel = context.WithCancel(ctx)
	e.done = make(chan struct{})
	e.state = StateSubscribing

	go e.run(ctx)
}

// Stop tears the subscription down. A handler already dispatched runs to
// completion, but no new handler is dispatched once Stop begins. Safe to
// call without a prior Start, and safe to call twice.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel, done := e.cancel, e.done
	e.cancel = nil
	e.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
	e.reads.Wait()

	// done stays set until here, so a Start racing with the teardown
	// cannot launch a second run loop.
	e.mu.Lock()
	e.done = nil
	e.state = StateDetached
	e.mu.Unlock()
}

func (e *Engine) run(ctx context.Context) {
	defer close(e.done)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = e.retryInitial
	bo.MaxInterval = e.retryCeiling

	first := true

	for ctx.Err() == nil {
		e.setState(StateSubscribing)

		sub, err := e.ledger.Subscribe(ctx)
		if err != nil {
			e.subscriptionError(err)

			select {
			case <-ctx.Done():
				return
			case <-time.After(bo.NextBackOff()):
			}

			continue
		}

		bo.Reset()
		e.setState(StateActive)

		if !first {
			// Events missed during the outage cannot be replayed, so
			// every cached query is suspect.
			e.cache.InvalidateAll()
		}
		first = false

		err = e.consume(ctx, sub)
		sub.Close()

		if ctx.Err() != nil {
			return
		}

		e.subscriptionError(err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(bo.NextBackOff()):
		}
	}
}

// consume processes events strictly in arrival order until the stream
// fails or the context is cancelled.
func (e *Engine) consume(ctx context.Context, sub *ledger.Subscription) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err:
			return err
		case ev, ok := <-sub.Events:
			if !ok {
				return nil
			}

			e.handle(ctx, ev)
		}
	}
}

func (e *Engine) subscriptionError(err error) {
	if err == nil {
		return
	}

	e.setState(StateError)
	slog.Warn("ledger subscription interrupted", "error", err)
	e.sink.Publish(notify.New(notify.SeverityWarning, "Live updates interrupted",
		"Reconnecting to the ledger"))
}
