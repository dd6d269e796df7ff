package analytics

import "time"

const (
	TopicAliasCreated = "alias.created"
	TopicAliasVisited = "alias.visited"
	TopicAliasRemoved = "alias.removed"
)

// RemovalReason tells an owner's explicit remove apart from a reaper sweep.
type RemovalReason string

const (
	ReasonOwner   RemovalReason = "owner"
	ReasonExpired RemovalReason = "expired"
)

// AliasCreatedEvent is emitted when an owner shortens a URL.
type AliasCreatedEvent struct {
	Code      string    `json:"code"`
	Owner     string    `json:"owner"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
	MaxVisits int       `json:"maxVisits"`
	CreatedAt time.Time `json:"createdAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
}

// AliasVisitedEvent is emitted for every successful resolve.
type AliasVisitedEvent struct {
	Code      string    `json:"code"`
	Visit     int       `json:"visit"`
	VisitedAt time.Time `json:"visitedAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer"`
}

// AliasRemovedEvent is emitted when an alias leaves the store.
type AliasRemovedEvent struct {
	Code      string        `json:"code"`
	Reason    RemovalReason `json:"reason"`
	RemovedAt time.Time     `json:"removedAt"`
}
