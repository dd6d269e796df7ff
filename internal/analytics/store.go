package analytics

import "context"

// Store defines the interface for persisting analytics events.
type Store interface {
	SaveAliasCreated(ctx context.Context, event *AliasCreatedEvent) error
	SaveAliasVisited(ctx context.Context, event *AliasVisitedEvent) error
	SaveAliasRemoved(ctx context.Context, event *AliasRemovedEvent) error
}
