package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordercomposite/pkg/apperr"
)

func TestNewEvent_SinglePayload(t *testing.T) {
	event, err := NewEvent(EventIncreaseStock, "7", StockAdjustment{ProductID: 7, Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, EventIncreaseStock, event.EventType)
	assert.Equal(t, "7", event.Key)
	assert.NotEmpty(t, event.Data)
	assert.Empty(t, event.DataList)
	assert.WithinDuration(t, time.Now().UTC(), event.CreatedAt, time.Minute)
	assert.NoError(t, event.Validate())

	var payload StockAdjustment
	require.NoError(t, event.DecodeData(&payload))
	assert.Equal(t, 7, payload.ProductID)
	assert.Equal(t, 3, payload.Quantity)
}

func TestNewBatchEvent_PayloadList(t *testing.T) {
	adjustments := []StockAdjustment{
		{ProductID: 1, Quantity: 3},
		{ProductID: 2, Quantity: 1000},
	}
	event, err := NewBatchEvent(EventReduceStocks, "1", adjustments)
	require.NoError(t, err)

	assert.Empty(t, event.Data)
	assert.NotEmpty(t, event.DataList)
	assert.NoError(t, event.Validate())

	var decoded []StockAdjustment
	require.NoError(t, event.DecodeDataList(&decoded))
	assert.Equal(t, adjustments, decoded)
}

func TestEvent_ValidateRejectsBrokenUnion(t *testing.T) {
	tests := []struct {
		name  string
		event Event
	}{
		{"neither populated", Event{EventType: EventCreate, Key: "1"}},
		{"both populated", Event{
			EventType: EventCreate,
			Key:       "1",
			Data:      json.RawMessage(`{}`),
			DataList:  json.RawMessage(`[]`),
		}},
		{"missing type", Event{Key: "1", Data: json.RawMessage(`{}`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			assert.ErrorIs(t, err, apperr.ErrEventProcessing)
		})
	}
}

func TestEvent_DecodeMismatchedVariant(t *testing.T) {
	event, err := NewEvent(EventIncreaseStock, "7", StockAdjustment{ProductID: 7, Quantity: 1})
	require.NoError(t, err)

	var list []StockAdjustment
	assert.ErrorIs(t, event.DecodeDataList(&list), apperr.ErrEventProcessing)
}

func TestEvent_JSONRoundTripKeepsEnvelope(t *testing.T) {
	event, err := NewBatchEvent(EventReduceStocks, "42", []StockAdjustment{{ProductID: 9, Quantity: 2}})
	require.NoError(t, err)

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, EventReduceStocks, decoded.EventType)
	assert.Equal(t, "42", decoded.Key)
	assert.NoError(t, decoded.Validate())
}

func TestOrderCreateRequest_Validate(t *testing.T) {
	valid := OrderCreateRequest{
		UserID:          1,
		ShippingAddress: "123 Main St",
		Items:           []OrderItemCreate{{ProductID: 7, Quantity: 2}},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(r *OrderCreateRequest)
	}{
		{"zero user id", func(r *OrderCreateRequest) { r.UserID = 0 }},
		{"empty address", func(r *OrderCreateRequest) { r.ShippingAddress = "" }},
		{"no items", func(r *OrderCreateRequest) { r.Items = nil }},
		{"zero product id", func(r *OrderCreateRequest) { r.Items[0].ProductID = 0 }},
		{"zero quantity", func(r *OrderCreateRequest) { r.Items[0].Quantity = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			req.Items = append([]OrderItemCreate(nil), valid.Items...)
			tt.mutate(&req)
			assert.ErrorIs(t, req.Validate(), apperr.ErrInvalidInput)
		})
	}
}

func TestStockAdjustment_Validate(t *testing.T) {
	assert.NoError(t, StockAdjustment{ProductID: 1, Quantity: 1}.Validate())
	assert.ErrorIs(t, StockAdjustment{ProductID: 0, Quantity: 1}.Validate(), apperr.ErrInvalidInput)
	assert.ErrorIs(t, StockAdjustment{ProductID: 1, Quantity: 0}.Validate(), apperr.ErrInvalidInput)
}
