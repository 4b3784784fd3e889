package readmodel_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwestbrook/signoff/internal/ledger"
	"github.com/mwestbrook/signoff/internal/readmodel"
)

func testCache() *readmodel.Cache {
	return readmodel.New(readmodel.WithRetry(time.Millisecond, 5*time.Millisecond, 2))
}

func TestCache_GetCachesValue(t *testing.T) {
	c := testCache()

	var calls atomic.Int32
	q := readmodel.Query{
		Key: "k",
		Fetch: func(context.Context) (any, error) {
			calls.Add(1)
			return "value", nil
		},
	}

	v, err := c.Get(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = c.Get(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_ConcurrentGetsShareOneFetch(t *testing.T) {
	c := testCache()

	var calls atomic.Int32
	release := make(chan struct{})

	q := readmodel.Query{
		Key: "k",
		Fetch: func(context.Context) (any, error) {
			calls.Add(1)
			<-release
			return 42, nil
		},
	}

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			v, err := c.Get(context.Background(), q)
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}

	// Let both goroutines reach the flight before releasing the fetch.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_InvalidateIsTagSelective(t *testing.T) {
	c := testCache()

	var taggedCalls, otherCalls atomic.Int32

	tagged := readmodel.Query{
		Key: "tagged",
		Fetch: func(context.Context) (any, error) {
			taggedCalls.Add(1)
			return "a", nil
		},
		Tags: func(any) []string { return []string{readmodel.TagTransaction(5)} },
	}
	other := readmodel.Query{
		Key: "other",
		Fetch: func(context.Context) (any, error) {
			otherCalls.Add(1)
			return "b", nil
		},
		Tags: func(any) []string { return []string{readmodel.TagTransaction(6)} },
	}

	ctx := context.Background()

	_, err := c.Get(ctx, tagged)
	require.NoError(t, err)
	_, err = c.Get(ctx, other)
	require.NoError(t, err)

	c.Invalidate(readmodel.TagTransaction(5))
	// Redundant invalidation is harmless.
	c.Invalidate(readmodel.TagTransaction(5))

	_, err = c.Get(ctx, tagged)
	require.NoError(t, err)
	_, err = c.Get(ctx, other)
	require.NoError(t, err)

	assert.Equal(t, int32(2), taggedCalls.Load())
	assert.Equal(t, int32(1), otherCalls.Load())
}

func TestCache_FetchFailureKeepsPreviousValue(t *testing.T) {
	c := testCache()

	var fail atomic.Bool
	q := readmodel.Query{
		Key: "k",
		Fetch: func(context.Context) (any, error) {
			if fail.Load() {
				return nil, ledger.Transient(errors.New("rpc down"))
			}
			return "good", nil
		},
		Tags: func(any) []string { return []string{"t"} },
	}

	ctx := context.Background()

	_, err := c.Get(ctx, q)
	require.NoError(t, err)

	fail.Store(true)
	c.Invalidate("t")

	v, err := c.Get(ctx, q)
	require.Error(t, err)
	assert.True(t, ledger.IsTransient(err))
	assert.Equal(t, "good", v, "previous value stays servable")
}

func TestCache_RetriesTransientOnly(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCalls int32
	}{
		{name: "Transient", err: ledger.Transient(errors.New("timeout")), wantCalls: 3},
		{name: "Rejection", err: ledger.Reject("getTransaction", "bad id"), wantCalls: 1},
		{name: "NotFound", err: ledger.ErrNotFound, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCache()

			var calls atomic.Int32
			q := readmodel.Query{
				Key: "k",
				Fetch: func(context.Context) (any, error) {
					calls.Add(1)
					return nil, tt.err
				},
			}

			_, err := c.Get(context.Background(), q)
			require.Error(t, err)
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestCache_InvalidationDuringFetchWins(t *testing.T) {
	c := testCache()

	fetching := make(chan struct{})
	release := make(chan struct{})

	var calls atomic.Int32
	q := readmodel.Query{
		Key: "k",
		Fetch: func(context.Context) (any, error) {
			if calls.Add(1) == 1 {
				close(fetching)
				<-release
			}
			return calls.Load(), nil
		},
		Tags: func(any) []string { return []string{"t"} },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Get(context.Background(), q)
	}()

	<-fetching
	c.Invalidate("t")
	close(release)
	<-done

	// The stored result predates the invalidation, so the next Get must
	// refetch.
	v, err := c.Get(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)
}

func TestCache_InvalidateAll(t *testing.T) {
	c := testCache()

	var calls atomic.Int32
	q := readmodel.Query{
		Key: "k",
		Fetch: func(context.Context) (any, error) {
			calls.Add(1)
			return "v", nil
		},
	}

	ctx := context.Background()

	_, err := c.Get(ctx, q)
	require.NoError(t, err)

	c.InvalidateAll()

	_, err = c.Get(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}
