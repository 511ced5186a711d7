package queue

import (
	"context"
	"sync"
	"time"

	"ordercomposite/pkg/log"
)

// MemoryQueue channel-backed queue for single-process deployments and tests.
// One dispatch goroutine per topic, so topic order (and therefore per-key
// order) is preserved and each message is processed to completion before
// the next one is picked up.
type MemoryQueue struct {
	topics map[string]chan Message
	config *MemoryQueueConfig
	mu     sync.RWMutex
	closed bool
}

// MemoryQueueConfig memory queue configuration
type MemoryQueueConfig struct {
	BufferSize int           `json:"buffer_size"`
	Timeout    time.Duration `json:"timeout"`
}

// NewMemoryQueue creates a new memory queue instance
func NewMemoryQueue(config *MemoryQueueConfig) *MemoryQueue {
	if config == nil {
		config = &MemoryQueueConfig{
			BufferSize: 1000,
			Timeout:    30 * time.Second,
		}
	}

	return &MemoryQueue{
		topics: make(map[string]chan Message),
		config: config,
	}
}

func (mq *MemoryQueue) topic(name string) (chan Message, error) {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if mq.closed {
		return nil, ErrQueueClosed
	}

	ch, ok := mq.topics[name]
	if !ok {
		ch = make(chan Message, mq.config.BufferSize)
		mq.topics[name] = ch
	}
	return ch, nil
}

// Publish publishes a message to the queue
func (mq *MemoryQueue) Publish(ctx context.Context, topic string, msg Message) error {
	ch, err := mq.topic(topic)
	if err != nil {
		return err
	}

	select {
	case ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(mq.config.Timeout):
		return ErrPublishTimeout
	}
}

// Subscribe subscribes to messages from the queue
func (mq *MemoryQueue) Subscribe(ctx context.Context, topic string, handler Handler) error {
	ch, err := mq.topic(topic)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if err := handler(ctx, topic, msg); err != nil {
					log.WithFields(map[string]interface{}{
						"topic": topic,
						"key":   msg.Key,
						"error": err.Error(),
					}).Error("Message processing failed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Close closes the queue connections
func (mq *MemoryQueue) Close() error {
	mq.mu.Lock()
	defer mq.mu.Unlock()

	if mq.closed {
		return nil
	}
	mq.closed = true

	for _, ch := range mq.topics {
		close(ch)
	}
	mq.topics = make(map[string]chan Message)

	return nil
}

// Health checks the health of the queue
func (mq *MemoryQueue) Health() error {
	mq.mu.RLock()
	defer mq.mu.RUnlock()

	if mq.closed {
		return ErrQueueClosed
	}
	return nil
}
