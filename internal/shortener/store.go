package shortener

import (
	"context"
	"errors"
	"time"
)

// DefaultTTLCeiling caps the lifetime of every alias when no ceiling is configured.
const DefaultTTLCeiling = time.Hour

// maxCreateAttempts bounds code regeneration when a code is still present.
const maxCreateAttempts = 8

// Store enforces the alias policy (TTL ceiling, visit budget, ownership) on
// top of a Repository and an OwnerRegistry.
type Store struct {
	entries  Repository
	owners   OwnerRegistry
	generate CodeGenerator
	ceiling  time.Duration
	now      func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock replaces time.Now as the store's time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an alias store. A non-positive ceiling falls back to DefaultTTLCeiling.
func NewStore(
	entries Repository,
	owners OwnerRegistry,
	generate CodeGenerator,
	ceiling time.Duration,
	opts ...StoreOption,
) *Store {
	if ceiling <= 0 {
		ceiling = DefaultTTLCeiling
	}

	s := &Store{
		entries:  entries,
		owners:   owners,
		generate: generate,
		ceiling:  ceiling,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Ceiling returns the TTL ceiling applied to every create and edit.
func (s *Store) Ceiling() time.Duration {
	return s.ceiling
}

// expiry computes an absolute expiry from now, capped by the ceiling.
// A negative ttl expires the entry immediately.
func (s *Store) expiry(now time.Time, ttl time.Duration) time.Time {
	return now.Add(max(0, min(ttl, s.ceiling)))
}

// Create stores url under a fresh code owned by owner.
func (s *Store) Create(
	ctx context.Context, owner OwnerID, url string, ttl time.Duration, maxVisits int,
) (*Entry, error) {
	ok, err := s.owners.Exists(ctx, owner)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrUnknownOwner
	}

	now := s.now()

	for range maxCreateAttempts {
		entry := &Entry{
			Code:      s.generate(),
			URL:       url,
			Owner:     owner,
			CreatedAt: now,
			ExpiresAt: s.expiry(now, ttl),
			MaxVisits: maxVisits,
		}

		err = s.entries.Insert(ctx, entry)
		if errors.Is(err, ErrCodeTaken) {
			continue
		}

		if err != nil {
			return nil, err
		}

		if err = s.owners.Append(ctx, owner, entry.Code); err != nil {
			_ = s.entries.Delete(ctx, entry.Code, func(*Entry) error { return nil })

			return nil, err
		}

		return entry, nil
	}

	return nil, ErrCodeSpaceExhausted
}

// Edit resets the expiry relative to now and replaces the visit budget.
// The visit count is kept, so an edit may revive or exhaust an entry.
func (s *Store) Edit(ctx context.Context, code Code, owner OwnerID, ttl time.Duration, maxVisits int) error {
	err := s.entries.Update(ctx, code, func(e *Entry) error {
		if !e.OwnedBy(owner) {
			return ErrNotOwned
		}

		e.ExpiresAt = s.expiry(s.now(), ttl)
		e.MaxVisits = maxVisits

		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotOwned
	}

	return err
}

// Remove deletes the entry and drops it from the owner's list.
func (s *Store) Remove(ctx context.Context, code Code, owner OwnerID) error {
	err := s.entries.Delete(ctx, code, func(e *Entry) error {
		if !e.OwnedBy(owner) {
			return ErrNotOwned
		}

		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotOwned
	}

	if err != nil {
		return err
	}

	return s.owners.Remove(ctx, owner, code)
}

// Resolve counts one visit and returns the entry as of that visit.
func (s *Store) Resolve(ctx context.Context, code Code) (*Entry, error) {
	var visited Entry

	err := s.entries.Update(ctx, code, func(e *Entry) error {
		if !e.Active(s.now()) {
			return ErrInactive
		}

		e.Visits++
		visited = *e

		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInactive
	}

	if err != nil {
		return nil, err
	}

	return &visited, nil
}

// Lookup returns a snapshot of the entry without counting a visit.
func (s *Store) Lookup(ctx context.Context, code Code) (*Entry, error) {
	return s.entries.Get(ctx, code)
}

// IsActive reports whether code exists, has not expired and has visits left.
func (s *Store) IsActive(ctx context.Context, code Code) bool {
	entry, err := s.entries.Get(ctx, code)
	if err != nil {
		return false
	}

	return entry.Active(s.now())
}

// IsOwnedBy reports whether code exists and was created by owner.
func (s *Store) IsOwnedBy(ctx context.Context, code Code, owner OwnerID) bool {
	entry, err := s.entries.Get(ctx, code)
	if err != nil {
		return false
	}

	return entry.OwnedBy(owner)
}

// List returns the owner's active codes in creation order.
// The owner's list may still name reaped codes; they are filtered out here.
func (s *Store) List(ctx context.Context, owner OwnerID) ([]Code, error) {
	codes, err := s.owners.Codes(ctx, owner)
	if err != nil {
		return nil, err
	}

	now := s.now()
	active := make([]Code, 0, len(codes))

	for _, code := range codes {
		entry, err := s.entries.Get(ctx, code)
		if err != nil {
			continue
		}

		// A reaped code may have been reissued to someone else.
		if entry.OwnedBy(owner) && entry.Active(now) {
			active = append(active, code)
		}
	}

	return active, nil
}

// Reap deletes every expired entry, whatever its visit count.
func (s *Store) Reap(ctx context.Context) ([]Code, error) {
	return s.entries.DeleteExpired(ctx, s.now())
}
