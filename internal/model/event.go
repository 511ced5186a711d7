package model

import (
	"encoding/json"
	"time"

	"ordercomposite/pkg/apperr"
)

// EventType discriminates event envelopes
type EventType string

// Recognized event types
const (
	EventCreate        EventType = "CREATE"
	EventUpdate        EventType = "UPDATE"
	EventDelete        EventType = "DELETE"
	EventIncreaseStock EventType = "INCREASE_STOCK"
	EventReduceStocks  EventType = "REDUCE_STOCKS"
)

// Event typed envelope published to the message channel. Key is the
// partition/ordering key (the entity's natural id). Exactly one of Data
// and DataList is populated; the constructors enforce the union.
type Event struct {
	EventType EventType       `json:"eventType"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data,omitempty"`
	DataList  json.RawMessage `json:"dataList,omitempty"`
	CreatedAt time.Time       `json:"eventCreatedAt"`
}

// NewEvent builds an envelope carrying a single payload
func NewEvent(eventType EventType, key string, payload interface{}) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindEventProcessing, "marshal event payload")
	}
	return &Event{
		EventType: eventType,
		Key:       key,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewBatchEvent builds an envelope carrying a payload list
func NewBatchEvent(eventType EventType, key string, payloads interface{}) (*Event, error) {
	data, err := json.Marshal(payloads)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindEventProcessing, "marshal event payload list")
	}
	return &Event{
		EventType: eventType,
		Key:       key,
		DataList:  data,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Validate checks the envelope union invariant
func (e *Event) Validate() error {
	if e.EventType == "" {
		return apperr.New(apperr.KindEventProcessing, "event type is empty")
	}
	hasData := len(e.Data) > 0
	hasList := len(e.DataList) > 0
	if hasData == hasList {
		return apperr.New(apperr.KindEventProcessing, "event must carry exactly one of data and dataList")
	}
	return nil
}

// DecodeData unmarshals the single payload into v
func (e *Event) DecodeData(v interface{}) error {
	if len(e.Data) == 0 {
		return apperr.Newf(apperr.KindEventProcessing, "%s event carries no data", e.EventType)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return apperr.Wrap(err, apperr.KindEventProcessing, "decode event data")
	}
	return nil
}

// DecodeDataList unmarshals the payload list into v
func (e *Event) DecodeDataList(v interface{}) error {
	if len(e.DataList) == 0 {
		return apperr.Newf(apperr.KindEventProcessing, "%s event carries no dataList", e.EventType)
	}
	if err := json.Unmarshal(e.DataList, v); err != nil {
		return apperr.Wrap(err, apperr.KindEventProcessing, "decode event dataList")
	}
	return nil
}
