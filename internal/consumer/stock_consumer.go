package consumer

import (
	"context"
	"encoding/json"

	"ordercomposite/internal/model"
	"ordercomposite/internal/service/inventory"
	"ordercomposite/pkg/apperr"
	"ordercomposite/pkg/log"
	"ordercomposite/pkg/queue"
)

// StockConsumer consumes stock adjustment events and applies them through
// the adjuster. Messages on one topic are handled to completion, one at a
// time, so events sharing a partition key apply in publish order.
type StockConsumer struct {
	adjuster inventory.Adjuster
	queue    queue.Queue
	topic    string
	cancel   context.CancelFunc
}

// NewStockConsumer creates a stock consumer on a topic
func NewStockConsumer(adjuster inventory.Adjuster, q queue.Queue, topic string) *StockConsumer {
	return &StockConsumer{
		adjuster: adjuster,
		queue:    q,
		topic:    topic,
	}
}

// Start subscribes to the topic. It returns once the subscription is
// registered; message handling runs on the queue's dispatch goroutine.
func (c *StockConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	log.WithField("topic", c.topic).Info("Starting stock consumer")
	return c.queue.Subscribe(ctx, c.topic, c.handle)
}

// Stop cancels the subscription
func (c *StockConsumer) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	log.WithField("topic", c.topic).Info("Stock consumer stopped")
}

// handle decodes one envelope and delegates to the adjuster. A returned
// error keeps the message unacknowledged.
func (c *StockConsumer) handle(ctx context.Context, topic string, msg queue.Message) error {
	var event model.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		wrapped := apperr.Wrap(err, apperr.KindEventProcessing, "decode event envelope")
		log.WithFields(map[string]interface{}{
			"topic": topic,
			"key":   msg.Key,
		}).WithError(wrapped).Error("Dropping undecodable event")
		return wrapped
	}

	if err := c.adjuster.ProcessEvent(ctx, &event); err != nil {
		log.WithFields(map[string]interface{}{
			"topic":     topic,
			"eventType": event.EventType,
			"key":       event.Key,
		}).WithError(err).Error("Failed to process stock event")
		return err
	}

	log.WithFields(map[string]interface{}{
		"topic":     topic,
		"eventType": event.EventType,
		"key":       event.Key,
	}).Debug("Stock event processed")
	return nil
}
