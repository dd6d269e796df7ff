package shortener

import (
	"context"
	"time"
)

// Repository holds entries keyed by code. Every method is atomic per code.
type Repository interface {
	// Insert stores a new entry. Returns ErrCodeTaken if the code is present.
	Insert(ctx context.Context, entry *Entry) error

	// Get returns a copy of the entry. Returns ErrNotFound if absent.
	Get(ctx context.Context, code Code) (*Entry, error)

	// Update runs fn against the stored entry while holding the code's lock.
	// fn must leave the entry untouched when it returns an error.
	// Returns ErrNotFound if absent, otherwise fn's error.
	Update(ctx context.Context, code Code, fn func(*Entry) error) error

	// Delete removes the entry if fn approves it while holding the code's lock.
	// Returns ErrNotFound if absent, otherwise fn's error.
	Delete(ctx context.Context, code Code, fn func(*Entry) error) error

	// DeleteExpired removes every entry whose expiry is at or before now
	// and returns the removed codes.
	DeleteExpired(ctx context.Context, now time.Time) ([]Code, error)
}

// OwnerRegistry maps owners to the codes they created, in creation order.
// It holds references only; entries may vanish without the registry noticing.
type OwnerRegistry interface {
	Register(ctx context.Context, owner OwnerID) error
	Exists(ctx context.Context, owner OwnerID) (bool, error)

	// Append adds code to the owner's list. Returns ErrUnknownOwner if absent.
	Append(ctx context.Context, owner OwnerID, code Code) error

	// Remove drops code from the owner's list. Missing codes are ignored.
	Remove(ctx context.Context, owner OwnerID, code Code) error

	// Codes returns a copy of the owner's list. Returns ErrUnknownOwner if absent.
	Codes(ctx context.Context, owner OwnerID) ([]Code, error)
}
