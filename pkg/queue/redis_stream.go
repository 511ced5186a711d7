package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"ordercomposite/pkg/log"
)

// RedisStreamQueue queue backed by Redis Streams. Each topic maps to a
// stream; the partition key travels as a message field. Messages are read
// through a consumer group and acknowledged only after the handler
// succeeds, so failed messages stay in the pending entries list.
type RedisStreamQueue struct {
	client  *redis.Client
	config  *RedisStreamConfig
	mu      sync.Mutex
	cancels []context.CancelFunc
}

// RedisStreamConfig redis stream queue configuration
type RedisStreamConfig struct {
	Group     string        `json:"group"`
	Consumer  string        `json:"consumer"`
	BlockTime time.Duration `json:"block_time"`
	MaxLen    int64         `json:"max_len"`
}

// NewRedisStreamQueue creates a redis stream queue. The client lifecycle is
// owned by the caller.
func NewRedisStreamQueue(client *redis.Client, config *RedisStreamConfig) *RedisStreamQueue {
	if config == nil {
		config = &RedisStreamConfig{}
	}
	if config.Group == "" {
		config.Group = "order-composite"
	}
	if config.Consumer == "" {
		config.Consumer = "order-composite-1"
	}
	if config.BlockTime == 0 {
		config.BlockTime = time.Second
	}
	if config.MaxLen == 0 {
		config.MaxLen = 10000
	}

	return &RedisStreamQueue{client: client, config: config}
}

// Publish publishes a message to the stream backing the topic
func (q *RedisStreamQueue) Publish(ctx context.Context, topic string, msg Message) error {
	return q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: topic,
		MaxLen: q.config.MaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"key":  msg.Key,
			"body": msg.Body,
		},
	}).Err()
}

// Subscribe creates the consumer group if needed and starts a read loop
func (q *RedisStreamQueue) Subscribe(ctx context.Context, topic string, handler Handler) error {
	err := q.client.XGroupCreateMkStream(ctx, topic, q.config.Group, "0").Err()
	if err != nil && !isBusyGroup(err) {
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	q.mu.Lock()
	q.cancels = append(q.cancels, cancel)
	q.mu.Unlock()

	go q.consumeLoop(loopCtx, topic, handler)

	return nil
}

func (q *RedisStreamQueue) consumeLoop(ctx context.Context, topic string, handler Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.config.Group,
			Consumer: q.config.Consumer,
			Streams:  []string{topic, ">"},
			Count:    1,
			Block:    q.config.BlockTime,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			log.WithFields(map[string]interface{}{
				"topic": topic,
				"error": err.Error(),
			}).Error("Failed to read from stream")
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, entry := range stream.Messages {
				msg := messageFromEntry(entry)
				if err := handler(ctx, topic, msg); err != nil {
					// Not acked: stays pending for inspection or reclaim.
					log.WithFields(map[string]interface{}{
						"topic": topic,
						"id":    entry.ID,
						"key":   msg.Key,
						"error": err.Error(),
					}).Error("Message processing failed")
					continue
				}
				if err := q.client.XAck(ctx, topic, q.config.Group, entry.ID).Err(); err != nil {
					log.WithFields(map[string]interface{}{
						"topic": topic,
						"id":    entry.ID,
						"error": err.Error(),
					}).Error("Failed to ack message")
				}
			}
		}
	}
}

func messageFromEntry(entry redis.XMessage) Message {
	var msg Message
	if key, ok := entry.Values["key"].(string); ok {
		msg.Key = key
	}
	if body, ok := entry.Values["body"].(string); ok {
		msg.Body = []byte(body)
	}
	return msg
}

func isBusyGroup(err error) bool {
	return err != nil && len(err.Error()) >= 9 && err.Error()[:9] == "BUSYGROUP"
}

// Close stops every consume loop. The redis client is left open for its
// owner.
func (q *RedisStreamQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, cancel := range q.cancels {
		cancel()
	}
	q.cancels = nil
	return nil
}

// Health checks the health of the queue
func (q *RedisStreamQueue) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return q.client.Ping(ctx).Err()
}
