package shortener

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service is the API consumed by the HTTP handlers and the interactive CLI.
type Service struct {
	store      *Store
	owners     OwnerRegistry
	newOwnerID func() OwnerID
}

// NewService creates a service facade over the given store and owner registry.
func NewService(store *Store, owners OwnerRegistry) *Service {
	return &Service{
		store:      store,
		owners:     owners,
		newOwnerID: func() OwnerID { return OwnerID(uuid.NewString()) },
	}
}

// RegisterOwner creates a new owner identity.
func (s *Service) RegisterOwner(ctx context.Context) (OwnerID, error) {
	id := s.newOwnerID()

	if err := s.owners.Register(ctx, id); err != nil {
		return "", err
	}

	return id, nil
}

// OwnerExists reports whether owner was registered.
func (s *Service) OwnerExists(ctx context.Context, owner OwnerID) bool {
	ok, err := s.owners.Exists(ctx, owner)

	return err == nil && ok
}

// Shorten creates an alias for url. ttl is capped by the store's ceiling.
func (s *Service) Shorten(
	ctx context.Context, url string, owner OwnerID, ttl time.Duration, maxVisits int,
) (*Entry, error) {
	return s.store.Create(ctx, owner, url, ttl, maxVisits)
}

// Edit changes the expiry and visit budget of an owned alias.
func (s *Service) Edit(ctx context.Context, code Code, owner OwnerID, ttl time.Duration, maxVisits int) error {
	return s.store.Edit(ctx, code, owner, ttl, maxVisits)
}

// Remove deletes an owned alias.
func (s *Service) Remove(ctx context.Context, code Code, owner OwnerID) error {
	return s.store.Remove(ctx, code, owner)
}

// Resolve decodes code into its URL, counting one visit.
func (s *Service) Resolve(ctx context.Context, code Code) (*Entry, error) {
	return s.store.Resolve(ctx, code)
}

// Lookup returns the alias without counting a visit.
func (s *Service) Lookup(ctx context.Context, code Code) (*Entry, error) {
	return s.store.Lookup(ctx, code)
}

// List returns the owner's currently active codes in creation order.
func (s *Service) List(ctx context.Context, owner OwnerID) ([]Code, error) {
	return s.store.List(ctx, owner)
}

// IsActive reports whether code can currently be resolved.
func (s *Service) IsActive(ctx context.Context, code Code) bool {
	return s.store.IsActive(ctx, code)
}

// IsOwnedBy reports whether owner created code.
func (s *Service) IsOwnedBy(ctx context.Context, code Code, owner OwnerID) bool {
	return s.store.IsOwnedBy(ctx, code, owner)
}
