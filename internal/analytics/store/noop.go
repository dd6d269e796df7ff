package store

import (
	"context"

	"github.com/serroba/miniurl/internal/analytics"
	"go.uber.org/zap"
)

// Noop is a no-op implementation of analytics.Store that logs events.
type Noop struct {
	logger *zap.Logger
}

var _ analytics.Store = (*Noop)(nil)

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveAliasCreated(_ context.Context, event *analytics.AliasCreatedEvent) error {
	n.logger.Info("alias created event received",
		zap.String("code", event.Code),
		zap.String("owner", event.Owner),
		zap.String("url", event.URL),
		zap.Time("expiresAt", event.ExpiresAt),
		zap.Int("maxVisits", event.MaxVisits),
	)

	return nil
}

func (n *Noop) SaveAliasVisited(_ context.Context, event *analytics.AliasVisitedEvent) error {
	n.logger.Info("alias visited event received",
		zap.String("code", event.Code),
		zap.Int("visit", event.Visit),
		zap.Time("visitedAt", event.VisitedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

func (n *Noop) SaveAliasRemoved(_ context.Context, event *analytics.AliasRemovedEvent) error {
	n.logger.Info("alias removed event received",
		zap.String("code", event.Code),
		zap.String("reason", string(event.Reason)),
	)

	return nil
}
