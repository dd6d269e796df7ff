package store

import (
	"context"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/serroba/miniurl/internal/shortener"
)

const shardCount = 32

type shard struct {
	mu      sync.RWMutex
	entries map[shortener.Code]*shortener.Entry
}

// MemoryStore is an in-memory implementation of shortener.Repository.
// Codes are spread over independently locked shards.
type MemoryStore struct {
	shards [shardCount]*shard
}

// NewMemoryStore creates a new in-memory entry store.
func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{}
	for i := range m.shards {
		m.shards[i] = &shard{entries: make(map[shortener.Code]*shortener.Entry)}
	}

	return m
}

func (m *MemoryStore) shardFor(code shortener.Code) *shard {
	return m.shards[xxhash.Sum64String(string(code))%shardCount]
}

func (m *MemoryStore) Insert(_ context.Context, entry *shortener.Entry) error {
	s := m.shardFor(entry.Code)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[entry.Code]; ok {
		return shortener.ErrCodeTaken
	}

	stored := *entry
	s.entries[entry.Code] = &stored

	return nil
}

func (m *MemoryStore) Get(_ context.Context, code shortener.Code) (*shortener.Entry, error) {
	s := m.shardFor(code)

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	snapshot := *entry

	return &snapshot, nil
}

func (m *MemoryStore) Update(_ context.Context, code shortener.Code, fn func(*shortener.Entry) error) error {
	s := m.shardFor(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[code]
	if !ok {
		return shortener.ErrNotFound
	}

	return fn(entry)
}

func (m *MemoryStore) Delete(_ context.Context, code shortener.Code, fn func(*shortener.Entry) error) error {
	s := m.shardFor(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[code]
	if !ok {
		return shortener.ErrNotFound
	}

	if err := fn(entry); err != nil {
		return err
	}

	delete(s.entries, code)

	return nil
}

// DeleteExpired holds one shard lock at a time.
func (m *MemoryStore) DeleteExpired(_ context.Context, now time.Time) ([]shortener.Code, error) {
	var removed []shortener.Code

	for _, s := range m.shards {
		s.mu.Lock()

		for code, entry := range s.entries {
			if entry.Expired(now) {
				delete(s.entries, code)
				removed = append(removed, code)
			}
		}

		s.mu.Unlock()
	}

	return removed, nil
}

// Len returns the number of stored entries, live or not.
func (m *MemoryStore) Len() int {
	n := 0

	for _, s := range m.shards {
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}

	return n
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
