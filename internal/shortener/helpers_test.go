package shortener_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/serroba/miniurl/internal/shortener"
	"github.com/serroba/miniurl/internal/store"
	"github.com/stretchr/testify/require"
)

const testURL = "https://example.com"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type fixture struct {
	store   *shortener.Store
	entries *store.MemoryStore
	owners  *store.OwnerStore
	clock   *fakeClock
}

func newFixture(t *testing.T, ceiling time.Duration) *fixture {
	t.Helper()

	entries := store.NewMemoryStore()
	owners := store.NewOwnerStore()
	clock := newFakeClock()
	gen := shortener.NewCounterGenerator(shortener.DefaultCounterSeed)

	return &fixture{
		store:   shortener.NewStore(entries, owners, gen.Next, ceiling, shortener.WithClock(clock.Now)),
		entries: entries,
		owners:  owners,
		clock:   clock,
	}
}

func (f *fixture) registerOwner(t *testing.T, owner shortener.OwnerID) {
	t.Helper()

	require.NoError(t, f.owners.Register(context.Background(), owner))
}

func (f *fixture) create(t *testing.T, owner shortener.OwnerID, ttl time.Duration, maxVisits int) shortener.Code {
	t.Helper()

	entry, err := f.store.Create(context.Background(), owner, testURL, ttl, maxVisits)
	require.NoError(t, err)

	return entry.Code
}
