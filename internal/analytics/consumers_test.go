package analytics_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/serroba/miniurl/internal/analytics"
	"github.com/serroba/miniurl/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSubscriber struct {
	mu       sync.Mutex
	channels map[string]chan *message.Message
	closed   bool
}

func newMockSubscriber() *mockSubscriber {
	return &mockSubscriber{channels: map[string]chan *message.Message{
		analytics.TopicAliasCreated: make(chan *message.Message, 10),
		analytics.TopicAliasVisited: make(chan *message.Message, 10),
		analytics.TopicAliasRemoved: make(chan *message.Message, 10),
	}}
}

func (m *mockSubscriber) Subscribe(_ context.Context, topic string) (<-chan *message.Message, error) {
	ch, ok := m.channels[topic]
	if !ok {
		return nil, errors.New("unknown topic")
	}

	return ch, nil
}

func (m *mockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		for _, ch := range m.channels {
			close(ch)
		}
	}

	return nil
}

type mockStore struct {
	mu       sync.Mutex
	created  []*analytics.AliasCreatedEvent
	visited  []*analytics.AliasVisitedEvent
	removed  []*analytics.AliasRemovedEvent
	failWith error
}

func (m *mockStore) SaveAliasCreated(_ context.Context, event *analytics.AliasCreatedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.created = append(m.created, event)

	return m.failWith
}

func (m *mockStore) SaveAliasVisited(_ context.Context, event *analytics.AliasVisitedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.visited = append(m.visited, event)

	return m.failWith
}

func (m *mockStore) SaveAliasRemoved(_ context.Context, event *analytics.AliasRemovedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removed = append(m.removed, event)

	return m.failWith
}

func send(t *testing.T, sub *mockSubscriber, topic string, event any) *message.Message {
	t.Helper()

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	msg := message.NewMessage(uuid.NewString(), payload)
	sub.channels[topic] <- msg

	return msg
}

func waitAck(t *testing.T, msg *message.Message) {
	t.Helper()

	select {
	case <-msg.Acked():
	case <-msg.Nacked():
		t.Fatal("message was nacked")
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for ack")
	}
}

func TestRegisterConsumers(t *testing.T) {
	t.Run("persists every alias topic", func(t *testing.T) {
		sub := newMockSubscriber()
		store := &mockStore{}
		group := messaging.NewConsumerGroup(sub, zap.NewNop())

		analytics.RegisterConsumers(group, sub, store, zap.NewNop())
		require.NoError(t, group.Start(context.Background()))

		waitAck(t, send(t, sub, analytics.TopicAliasCreated, analytics.AliasCreatedEvent{Code: "a1", MaxVisits: 2}))
		waitAck(t, send(t, sub, analytics.TopicAliasVisited, analytics.AliasVisitedEvent{Code: "a1", Visit: 1}))
		waitAck(t, send(t, sub, analytics.TopicAliasRemoved, analytics.AliasRemovedEvent{
			Code:   "a1",
			Reason: analytics.ReasonOwner,
		}))

		require.NoError(t, group.Shutdown())

		store.mu.Lock()
		defer store.mu.Unlock()

		require.Len(t, store.created, 1)
		assert.Equal(t, 2, store.created[0].MaxVisits)
		require.Len(t, store.visited, 1)
		assert.Equal(t, 1, store.visited[0].Visit)
		require.Len(t, store.removed, 1)
		assert.Equal(t, analytics.ReasonOwner, store.removed[0].Reason)
	})

	t.Run("nacks when the store fails", func(t *testing.T) {
		sub := newMockSubscriber()
		store := &mockStore{failWith: errors.New("store error")}
		group := messaging.NewConsumerGroup(sub, zap.NewNop())

		analytics.RegisterConsumers(group, sub, store, zap.NewNop())
		require.NoError(t, group.Start(context.Background()))

		msg := send(t, sub, analytics.TopicAliasRemoved, analytics.AliasRemovedEvent{Code: "a1"})

		select {
		case <-msg.Nacked():
		case <-msg.Acked():
			t.Fatal("message should have been nacked")
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for nack")
		}

		require.NoError(t, group.Shutdown())
	})
}
