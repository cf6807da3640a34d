package domain

import (
	"context"
	"time"
)

// MessageBroker defines the interface for message broker operations
type MessageBroker interface {
	// Publish sends a message to a topic with a routing key
	Publish(ctx context.Context, topic string, routingKey string, message []byte) error

	// Subscribe returns the channel delivering messages for topic
	Subscribe(ctx context.Context, topic string) (<-chan Message, error)

	// Close stops accepting messages and closes every subscription channel
	Close() error
}

// Message represents a message received from the broker
type Message struct {
	Topic      string
	RoutingKey string
	Payload    []byte
	Timestamp  time.Time
}
