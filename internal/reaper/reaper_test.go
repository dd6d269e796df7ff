package reaper_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/serroba/miniurl/internal/reaper"
	"github.com/serroba/miniurl/internal/shortener"
	"github.com/serroba/miniurl/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 10 * time.Millisecond

type mockSweeper struct {
	calls atomic.Int32
	codes []shortener.Code
	err   error
}

func (m *mockSweeper) Reap(_ context.Context) ([]shortener.Code, error) {
	m.calls.Add(1)

	return m.codes, m.err
}

func TestNew(t *testing.T) {
	t.Run("uses the default interval", func(t *testing.T) {
		r := reaper.New(&mockSweeper{})

		assert.Equal(t, reaper.DefaultInterval, r.Interval())
		assert.Equal(t, 10*time.Second, r.Interval())
	})

	t.Run("ignores non-positive intervals", func(t *testing.T) {
		r := reaper.New(&mockSweeper{}, reaper.WithInterval(0))

		assert.Equal(t, reaper.DefaultInterval, r.Interval())
	})
}

func TestReaper_Start(t *testing.T) {
	t.Run("sweeps on every tick", func(t *testing.T) {
		sweeper := &mockSweeper{}
		r := reaper.New(sweeper, reaper.WithInterval(tick))

		require.NoError(t, r.Start(context.Background()))

		assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 3 }, time.Second, tick)

		require.NoError(t, r.Shutdown())
	})

	t.Run("refuses a second start", func(t *testing.T) {
		r := reaper.New(&mockSweeper{}, reaper.WithInterval(tick))

		require.NoError(t, r.Start(context.Background()))

		err := r.Start(context.Background())

		require.ErrorIs(t, err, reaper.ErrAlreadyStarted)
		require.NoError(t, r.Shutdown())
	})

	t.Run("stops when the parent context is cancelled", func(t *testing.T) {
		sweeper := &mockSweeper{}
		r := reaper.New(sweeper, reaper.WithInterval(tick))
		ctx, cancel := context.WithCancel(context.Background())

		require.NoError(t, r.Start(ctx))
		cancel()

		done := make(chan struct{})

		go func() {
			_ = r.Shutdown()

			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for shutdown")
		}
	})
}

func TestReaper_Hooks(t *testing.T) {
	t.Run("reports removed codes", func(t *testing.T) {
		sweeper := &mockSweeper{codes: []shortener.Code{"abc", "def"}}

		var (
			mu       sync.Mutex
			reported []shortener.Code
		)

		r := reaper.New(sweeper,
			reaper.WithInterval(tick),
			reaper.WithReapHook(func(_ context.Context, codes []shortener.Code) {
				mu.Lock()
				defer mu.Unlock()

				reported = codes
			}),
		)

		require.NoError(t, r.Start(context.Background()))

		assert.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()

			return len(reported) == 2
		}, time.Second, tick)

		require.NoError(t, r.Shutdown())
	})

	t.Run("skips the reap hook when nothing was removed", func(t *testing.T) {
		sweeper := &mockSweeper{}

		var hookCalls atomic.Int32

		r := reaper.New(sweeper,
			reaper.WithInterval(tick),
			reaper.WithReapHook(func(context.Context, []shortener.Code) { hookCalls.Add(1) }),
		)

		require.NoError(t, r.Start(context.Background()))
		assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 3 }, time.Second, tick)
		require.NoError(t, r.Shutdown())

		assert.Zero(t, hookCalls.Load())
	})

	t.Run("reports sweep errors and keeps running", func(t *testing.T) {
		sweeper := &mockSweeper{err: errors.New("sweep error")}

		var errCalls atomic.Int32

		r := reaper.New(sweeper,
			reaper.WithInterval(tick),
			reaper.WithErrorHook(func(error) { errCalls.Add(1) }),
		)

		require.NoError(t, r.Start(context.Background()))

		assert.Eventually(t, func() bool { return errCalls.Load() >= 2 }, time.Second, tick)

		require.NoError(t, r.Shutdown())
	})
}

func TestReaper_Shutdown(t *testing.T) {
	t.Run("no-op when never started", func(t *testing.T) {
		r := reaper.New(&mockSweeper{})

		assert.NoError(t, r.Shutdown())
	})

	t.Run("safe to call twice", func(t *testing.T) {
		r := reaper.New(&mockSweeper{}, reaper.WithInterval(tick))
		require.NoError(t, r.Start(context.Background()))

		require.NoError(t, r.Shutdown())
		assert.NoError(t, r.Shutdown())
	})
}

func TestReaper_ExpiresAliasesWithoutCallerAction(t *testing.T) {
	ctx := context.Background()

	var (
		mu  sync.Mutex
		now = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	)

	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()

		return now
	}

	entries := store.NewMemoryStore()
	owners := store.NewOwnerStore()
	s := shortener.NewStore(
		entries, owners,
		shortener.NewCounterGenerator(shortener.DefaultCounterSeed).Next,
		time.Hour,
		shortener.WithClock(clock),
	)
	svc := shortener.NewService(s, owners)

	owner, err := svc.RegisterOwner(ctx)
	require.NoError(t, err)

	entry, err := svc.Shorten(ctx, "https://example.com", owner, time.Minute, 10)
	require.NoError(t, err)

	r := reaper.New(s, reaper.WithInterval(tick))
	require.NoError(t, r.Start(ctx))

	defer func() { _ = r.Shutdown() }()

	assert.True(t, svc.IsActive(ctx, entry.Code))

	codes, err := svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []shortener.Code{entry.Code}, codes)

	mu.Lock()
	now = now.Add(time.Minute)
	mu.Unlock()

	assert.Eventually(t, func() bool { return entries.Len() == 0 }, time.Second, tick)

	assert.False(t, svc.IsActive(ctx, entry.Code))
	assert.False(t, svc.IsOwnedBy(ctx, entry.Code, owner))

	codes, err = svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, codes)
}
