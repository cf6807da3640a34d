package message_broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/satriahrh/synapse-agent/domain"
	"github.com/satriahrh/synapse-agent/utils/log"
	"go.uber.org/zap"
)

const DefaultCapacity = 100

// ChannelMessageBroker implements MessageBroker using one buffered channel per topic
type ChannelMessageBroker struct {
	topics   map[string]chan domain.Message
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewChannelMessageBroker creates a new channel-based message broker. A
// non-positive capacity falls back to DefaultCapacity.
func NewChannelMessageBroker(capacity int) *ChannelMessageBroker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ChannelMessageBroker{
		topics:   make(map[string]chan domain.Message),
		capacity: capacity,
	}
}

// topic returns the channel for name, creating it on first use.
func (b *ChannelMessageBroker) topic(name string) (chan domain.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("message broker is closed")
	}
	channel, exists := b.topics[name]
	if !exists {
		channel = make(chan domain.Message, b.capacity)
		b.topics[name] = channel
	}
	return channel, nil
}

// Publish enqueues a message without blocking. It fails when the topic buffer is full.
func (b *ChannelMessageBroker) Publish(ctx context.Context, topic string, routingKey string, message []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	channel, err := b.topic(topic)
	if err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	// Close may have run between topic() and RLock.
	if b.closed {
		return fmt.Errorf("message broker is closed")
	}

	msg := domain.Message{
		Topic:      topic,
		RoutingKey: routingKey,
		Payload:    message,
		Timestamp:  time.Now(),
	}

	select {
	case channel <- msg:
		log.WithCtx(ctx).Debug("message published",
			zap.String("topic", topic),
			zap.String("routing_key", routingKey),
			zap.Int("payload_size", len(message)))
		return nil
	default:
		return fmt.Errorf("topic channel is full: %s", topic)
	}
}

// Subscribe returns the topic channel. All subscribers of a topic share it, so
// each message is delivered once.
func (b *ChannelMessageBroker) Subscribe(ctx context.Context, topic string) (<-chan domain.Message, error) {
	channel, err := b.topic(topic)
	if err != nil {
		return nil, err
	}

	log.WithCtx(ctx).Info("subscribed to topic", zap.String("topic", topic))
	return channel, nil
}

// Close closes the message broker and all topic channels. Buffered messages
// stay readable until drained.
func (b *ChannelMessageBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	b.closed = true

	for name, channel := range b.topics {
		close(channel)
		log.With(zap.String("topic", name)).Debug("closed topic channel")
	}

	b.topics = make(map[string]chan domain.Message)

	log.With().Info("message broker closed")
	return nil
}

// IsClosed returns whether the broker is closed
func (b *ChannelMessageBroker) IsClosed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}
