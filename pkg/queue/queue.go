package queue

import (
	"context"
	"errors"
)

// Message is the unit published to a topic. Key is the partition/ordering
// key carried as transport metadata: messages sharing a key keep their
// relative order, messages with different keys carry no ordering guarantee.
type Message struct {
	Key  string `json:"key"`
	Body []byte `json:"body"`
}

// Handler handles incoming messages. A non-nil error means the message was
// not successfully processed and must not be acknowledged.
type Handler func(ctx context.Context, topic string, msg Message) error

// Queue defines the interface for message queue operations
type Queue interface {
	// Publish publishes a message to the specified topic
	Publish(ctx context.Context, topic string, msg Message) error

	// Subscribe starts consuming messages from the specified topic
	Subscribe(ctx context.Context, topic string, handler Handler) error

	// Close closes the queue connections
	Close() error

	// Health checks the health of the queue
	Health() error
}

// Common errors
var (
	ErrQueueClosed    = errors.New("queue is closed")
	ErrPublishTimeout = errors.New("publish timeout")
	ErrUnknownDriver  = errors.New("unknown queue driver")
)
