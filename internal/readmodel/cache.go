// Package readmodel is a keyed, tag-addressable cache of ledger query
// results. It is a derived, rebuildable view: nothing here is durable and
// every entry can be refetched from the ledger at any time.
package readmodel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/singleflight"

	"github.com/mwestbrook/signoff/internal/ledger"
)

// Query describes one cacheable read. Tags is called with the fetched
// value so list queries can tag themselves with every entity they
// contain.
type Query struct {
	Key   string
	Fetch func(ctx context.Context) (any, error)
	Tags  func(v any) []string
}

type entry struct {
	value     any
	tags      []string
	fetchedAt time.Time
	stale     bool
}

// Cache maps query keys to their last result. Concurrent Gets for the
// same key share a single in-flight fetch; transient fetch failures are
// retried with capped exponential backoff before the error is surfaced.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry

	// invalidations tracks, per tag, the epoch of its latest
	// invalidation so a fetch that was already in flight when the tag
	// was invalidated stores its result as stale.
	invalidations map[string]uint64
	epoch         uint64
	allEpoch      uint64

	flight singleflight.Group

	maxAge       time.Duration
	retryInitial time.Duration
	retryCeiling time.Duration
	maxRetries   uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxAge sets a time-based staleness bound. Zero (the default) keeps
// entries fresh until explicitly invalidated.
func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) { c.maxAge = d }
}

// WithRetry tunes the transient-failure retry policy for fetches.
func WithRetry(initial, ceiling time.Duration, maxRetries uint64) Option {
	return func(c *Cache) {
		c.retryInitial = initial
		c.retryCeiling = ceiling
		c.maxRetries = maxRetries
	}
}

// New builds an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:       make(map[string]*entry),
		invalidations: make(map[string]uint64),
		retryInitial:  200 * time.Millisecond,
		retryCeiling:  5 * time.Second,
		maxRetries:    3,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns the cached value for q.Key, fetching on a miss or a stale
// entry. On fetch failure the previous value, if any, is returned along
// with the error so callers can keep showing the last good state.
func (c *Cache) Get(ctx context.Context, q Query) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[q.Key]; ok && c.fresh(e) {
		v := e.value
		c.mu.Unlock()

		return v, nil
	}
	start := c.epoch
	c.mu.Unlock()

	v, err, _ := c.flight.Do(q.Key, func() (any, error) {
		// Another caller may have completed the fetch between the
		// staleness check and joining the flight.
		c.mu.Lock()
		if e, ok := c.entries[q.Key]; ok && c.fresh(e) {
			v := e.value
			c.mu.Unlock()

			return v, nil
		}
		c.mu.Unlock()

		v, err := c.fetch(ctx, q)
		if err != nil {
			return nil, err
		}

		c.store(q, v, start)

		return v, nil
	})
	if err != nil {
		return c.previous(q.Key), err
	}

	return v, nil
}

// fetch runs q.Fetch, retrying transient ledger failures with capped
// exponential backoff. NotFound and semantic rejections are permanent.
func (c *Cache) fetch(ctx context.Context, q Query) (any, error) {
	var v any

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInitial
	bo.MaxInterval = c.retryCeiling

	err := backoff.Retry(func() error {
		var err error

		v, err = q.Fetch(ctx)
		if err != nil && !ledger.IsTransient(err) {
			return backoff.Permanent(err)
		}

		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx))
	if err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			err = perm.Unwrap()
		}

		return nil, err
	}

	return v, nil
}

func (c *Cache) store(q Query, v any, startEpoch uint64) {
	var tags []string
	if q.Tags != nil {
		tags = q.Tags(v)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry{value: v, tags: tags, fetchedAt: time.Now()}

	// An invalidation that landed while the fetch was in flight wins:
	// the result is stored but marked stale so the next Get refetches.
	if c.allEpoch > startEpoch {
		e.stale = true
	}

	for _, tag := range tags {
		if c.invalidations[tag] > startEpoch {
			e.stale = true
			break
		}
	}

	c.entries[q.Key] = e
}

func (c *Cache) previous(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		return e.value
	}

	return nil
}

func (c *Cache) fresh(e *entry) bool {
	if e.stale {
		return false
	}

	if c.maxAge > 0 && time.Since(e.fetchedAt) > c.maxAge {
		return false
	}

	return true
}

// Invalidate marks every entry carrying the tag as stale. Idempotent and
// safe to call for tags no entry carries.
func (c *Cache) Invalidate(tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tag := range tags {
		c.epoch++
		c.invalidations[tag] = c.epoch

		for _, e := range c.entries {
			for _, t := range e.tags {
				if t == tag {
					e.stale = true
					break
				}
			}
		}
	}
}

// InvalidateAll marks every entry stale. Used after an event subscription
// outage, when individual invalidations may have been missed.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.allEpoch = c.epoch

	for _, e := range c.entries {
		e.stale = true
	}
}
