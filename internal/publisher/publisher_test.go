package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordercomposite/internal/model"
	"ordercomposite/pkg/apperr"
	"ordercomposite/pkg/queue"
)

type capturingQueue struct {
	topics   []string
	messages []queue.Message
	err      error
}

func (q *capturingQueue) Publish(ctx context.Context, topic string, msg queue.Message) error {
	if q.err != nil {
		return q.err
	}
	q.topics = append(q.topics, topic)
	q.messages = append(q.messages, msg)
	return nil
}

func (q *capturingQueue) Subscribe(ctx context.Context, topic string, handler queue.Handler) error {
	return nil
}

func (q *capturingQueue) Close() error  { return nil }
func (q *capturingQueue) Health() error { return nil }

func TestPublishData(t *testing.T) {
	q := &capturingQueue{}
	p := New(q)

	adjustment := model.StockAdjustment{ProductID: 7, Quantity: 3}
	err := p.PublishData(context.Background(), "inventory-events", model.EventIncreaseStock, "7", adjustment)
	require.NoError(t, err)

	require.Len(t, q.messages, 1)
	assert.Equal(t, "inventory-events", q.topics[0])
	assert.Equal(t, "7", q.messages[0].Key)

	var event model.Event
	require.NoError(t, json.Unmarshal(q.messages[0].Body, &event))
	assert.Equal(t, model.EventIncreaseStock, event.EventType)
	assert.Equal(t, "7", event.Key)
	assert.False(t, event.CreatedAt.IsZero())

	var decoded model.StockAdjustment
	require.NoError(t, event.DecodeData(&decoded))
	assert.Equal(t, adjustment, decoded)
}

func TestPublishDataList(t *testing.T) {
	q := &capturingQueue{}
	p := New(q)

	adjustments := []model.StockAdjustment{
		{ProductID: 7, Quantity: 3},
		{ProductID: 9, Quantity: 1},
	}
	err := p.PublishDataList(context.Background(), "inventory-events", model.EventReduceStocks, "42", adjustments)
	require.NoError(t, err)

	require.Len(t, q.messages, 1)

	var event model.Event
	require.NoError(t, json.Unmarshal(q.messages[0].Body, &event))
	assert.Equal(t, model.EventReduceStocks, event.EventType)

	var decoded []model.StockAdjustment
	require.NoError(t, event.DecodeDataList(&decoded))
	assert.Equal(t, adjustments, decoded)
}

func TestPublish_RejectsInvalidEnvelope(t *testing.T) {
	q := &capturingQueue{}
	p := New(q)

	err := p.Publish(context.Background(), "inventory-events", &model.Event{EventType: model.EventCreate})
	assert.ErrorIs(t, err, apperr.ErrEventProcessing)
	assert.Empty(t, q.messages)
}

func TestPublish_SurfacesQueueFailure(t *testing.T) {
	q := &capturingQueue{err: errors.New("broker down")}
	p := New(q)

	err := p.PublishData(context.Background(), "inventory-events", model.EventIncreaseStock, "7",
		model.StockAdjustment{ProductID: 7, Quantity: 1})
	require.Error(t, err)
	assert.Equal(t, apperr.KindEventProcessing, apperr.KindOf(err))
}
