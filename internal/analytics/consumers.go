package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/miniurl/internal/messaging"
	"go.uber.org/zap"
)

// RegisterConsumers adds one consumer per alias topic to group, each persisting into store.
func RegisterConsumers(group *messaging.ConsumerGroup, subscriber message.Subscriber, store Store, logger *zap.Logger) {
	group.Add(messaging.NewConsumer(subscriber, TopicAliasCreated, store.SaveAliasCreated, logger))
	group.Add(messaging.NewConsumer(subscriber, TopicAliasVisited, store.SaveAliasVisited, logger))
	group.Add(messaging.NewConsumer(subscriber, TopicAliasRemoved, store.SaveAliasRemoved, logger))
}
