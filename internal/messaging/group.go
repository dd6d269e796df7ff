package messaging

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Runnable is anything the group can start and stop, usually a Consumer.
type Runnable interface {
	Start(ctx context.Context) error
	Shutdown() error
}

// topicNamer is implemented by Consumer and used to label group members in logs and errors.
type topicNamer interface {
	Topic() string
}

// ConsumerGroup runs the consumers sharing one subscriber and closes the
// subscriber once they are all stopped.
type ConsumerGroup struct {
	members    []Runnable
	subscriber message.Subscriber
	logger     *zap.Logger
}

func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

func (g *ConsumerGroup) Add(member Runnable) {
	g.members = append(g.members, member)
}

// Topics lists the topics of members that report one, in registration order.
func (g *ConsumerGroup) Topics() []string {
	topics := make([]string, 0, len(g.members))

	for _, m := range g.members {
		if n, ok := m.(topicNamer); ok {
			topics = append(topics, n.Topic())
		}
	}

	return topics
}

// Start starts members in order. If one fails, those already running are
// stopped again before the error is returned.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	for i, m := range g.members {
		if err := m.Start(ctx); err != nil {
			for j, started := range g.members[:i] {
				if stopErr := started.Shutdown(); stopErr != nil {
					g.logger.Warn("rollback shutdown failed", zap.String("member", label(started, j)), zap.Error(stopErr))
				}
			}

			return fmt.Errorf("start %s: %w", label(m, i), err)
		}
	}

	g.logger.Info("consumer group started", zap.Strings("topics", g.Topics()))

	return nil
}

// Shutdown stops every member and the subscriber. All failures are joined.
func (g *ConsumerGroup) Shutdown() error {
	g.logger.Info("consumer group stopping", zap.Int("members", len(g.members)))

	var errs []error

	for i, m := range g.members {
		if err := m.Shutdown(); err != nil {
			g.logger.Error("member shutdown failed", zap.String("member", label(m, i)), zap.Error(err))
			errs = append(errs, fmt.Errorf("stop %s: %w", label(m, i), err))
		}
	}

	if err := g.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close subscriber: %w", err))
	}

	return errors.Join(errs...)
}

func label(m Runnable, i int) string {
	if n, ok := m.(topicNamer); ok {
		return "consumer " + n.Topic()
	}

	return "member " + strconv.Itoa(i)
}
