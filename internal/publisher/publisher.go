package publisher

import (
	"context"
	"encoding/json"

	"ordercomposite/internal/model"
	"ordercomposite/pkg/apperr"
	"ordercomposite/pkg/log"
	"ordercomposite/pkg/queue"
)

// Publisher emits typed event envelopes to the message channel
type Publisher interface {
	// Publish sends a pre-built envelope to a topic. The envelope key
	// travels as transport metadata so the broker keeps per-key ordering.
	Publish(ctx context.Context, topic string, event *model.Event) error

	// PublishData builds and sends a single-payload envelope
	PublishData(ctx context.Context, topic string, eventType model.EventType, key string, payload interface{}) error

	// PublishDataList builds and sends a list-payload envelope
	PublishDataList(ctx context.Context, topic string, eventType model.EventType, key string, payloads interface{}) error
}

type publisher struct {
	queue queue.Queue
}

// New creates a publisher on top of a queue driver
func New(q queue.Queue) Publisher {
	return &publisher{queue: q}
}

func (p *publisher) Publish(ctx context.Context, topic string, event *model.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return apperr.Wrap(err, apperr.KindEventProcessing, "marshal event envelope")
	}

	if err := p.queue.Publish(ctx, topic, queue.Message{Key: event.Key, Body: body}); err != nil {
		log.WithFields(map[string]interface{}{
			"topic":     topic,
			"eventType": event.EventType,
			"key":       event.Key,
		}).WithError(err).Error("Failed to publish event")
		return apperr.Wrap(err, apperr.KindEventProcessing, "publish event")
	}

	log.WithFields(map[string]interface{}{
		"topic":     topic,
		"eventType": event.EventType,
		"key":       event.Key,
	}).Debug("Event published")
	return nil
}

func (p *publisher) PublishData(ctx context.Context, topic string, eventType model.EventType, key string, payload interface{}) error {
	event, err := model.NewEvent(eventType, key, payload)
	if err != nil {
		return err
	}
	return p.Publish(ctx, topic, event)
}

func (p *publisher) PublishDataList(ctx context.Context, topic string, eventType model.EventType, key string, payloads interface{}) error {
	event, err := model.NewBatchEvent(eventType, key, payloads)
	if err != nil {
		return err
	}
	return p.Publish(ctx, topic, event)
}
