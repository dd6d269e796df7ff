package store

import (
	"context"
	"slices"
	"sync"

	"github.com/serroba/miniurl/internal/shortener"
)

// OwnerStore is an in-memory implementation of shortener.OwnerRegistry.
type OwnerStore struct {
	mu     sync.RWMutex
	owners map[shortener.OwnerID][]shortener.Code
}

// NewOwnerStore creates a new in-memory owner registry.
func NewOwnerStore() *OwnerStore {
	return &OwnerStore{
		owners: make(map[shortener.OwnerID][]shortener.Code),
	}
}

// Register adds owner with an empty code list. Registering twice keeps the existing list.
func (o *OwnerStore) Register(_ context.Context, owner shortener.OwnerID) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.owners[owner]; !ok {
		o.owners[owner] = nil
	}

	return nil
}

func (o *OwnerStore) Exists(_ context.Context, owner shortener.OwnerID) (bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	_, ok := o.owners[owner]

	return ok, nil
}

func (o *OwnerStore) Append(_ context.Context, owner shortener.OwnerID, code shortener.Code) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	codes, ok := o.owners[owner]
	if !ok {
		return shortener.ErrUnknownOwner
	}

	o.owners[owner] = append(codes, code)

	return nil
}

func (o *OwnerStore) Remove(_ context.Context, owner shortener.OwnerID, code shortener.Code) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	codes, ok := o.owners[owner]
	if !ok {
		return nil
	}

	o.owners[owner] = slices.DeleteFunc(codes, func(c shortener.Code) bool { return c == code })

	return nil
}

func (o *OwnerStore) Codes(_ context.Context, owner shortener.OwnerID) ([]shortener.Code, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	codes, ok := o.owners[owner]
	if !ok {
		return nil, shortener.ErrUnknownOwner
	}

	return slices.Clone(codes), nil
}

// Compile-time check.
var _ shortener.OwnerRegistry = (*OwnerStore)(nil)
