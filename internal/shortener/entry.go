package shortener

import "time"

// Code represents a short URL code.
type Code string

// OwnerID is the opaque identity under which aliases are created.
type OwnerID string

// Entry is the mutable record behind one short code.
type Entry struct {
	Code      Code
	URL       string
	Owner     OwnerID
	CreatedAt time.Time
	ExpiresAt time.Time
	MaxVisits int
	Visits    int
}

// Active reports whether the entry can still be resolved at now.
func (e *Entry) Active(now time.Time) bool {
	return e.ExpiresAt.After(now) && e.Visits < e.MaxVisits
}

// Expired reports whether the entry's lifetime has elapsed at now,
// regardless of its remaining visit budget.
func (e *Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

// OwnedBy reports whether owner created the entry.
func (e *Entry) OwnedBy(owner OwnerID) bool {
	return e.Owner == owner
}
