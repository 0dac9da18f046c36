package event

import (
	"time"

	"github.com/google/uuid"
)

// Payload keys shared between producers and subscribers. The "details" value
// is the document's opaque form payload, forwarded verbatim.
const (
	KeyDrafterID   = "drafter_id"
	KeyTitle       = "title"
	KeyDetails     = "details"
	KeyComment     = "comment"
	KeyDocNumber   = "doc_number"
	KeyApproverID  = "approver_id"
	KeyLineID      = "line_id"
	KeySeq         = "seq"
	KeyWaitingDays = "waiting_days"
	KeyReferencers = "referencers"
)

// Event represents a domain event emitted by the approval engine
type Event struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	DocID         int64                  `json:"doc_id"`
	TemplateKey   string                 `json:"template_key"`
	Payload       map[string]interface{} `json:"payload"`
	Timestamp     time.Time              `json:"timestamp"`
	CorrelationID string                 `json:"correlation_id"`
}

// NewEvent creates a new domain event with auto-generated ID and timestamp
func NewEvent(eventType Type, docID int64, templateKey string, payload map[string]interface{}) *Event {
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		DocID:         docID,
		TemplateKey:   templateKey,
		Payload:       payload,
		Timestamp:     time.Now(),
		CorrelationID: uuid.NewString(),
	}
}

// NewEventWithCorrelation creates an event linked to a correlation chain
func NewEventWithCorrelation(eventType Type, docID int64, templateKey string, payload map[string]interface{}, correlationID string) *Event {
	evt := NewEvent(eventType, docID, templateKey, payload)
	evt.CorrelationID = correlationID
	return evt
}

// WithPayload returns a new Event with an added payload key-value pair (immutable operation)
func (e *Event) WithPayload(key string, value interface{}) *Event {
	newPayload := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		newPayload[k] = v
	}
	newPayload[key] = value

	return &Event{
		ID:            e.ID,
		Type:          e.Type,
		DocID:         e.DocID,
		TemplateKey:   e.TemplateKey,
		Payload:       newPayload,
		Timestamp:     e.Timestamp,
		CorrelationID: e.CorrelationID,
	}
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetPayloadInt retrieves an int64 value from the payload
func (e *Event) GetPayloadInt(key string) int64 {
	if val, ok := e.Payload[key]; ok {
		switch v := val.(type) {
		case int64:
			return v
		case int:
			return int64(v)
		case float64:
			return int64(v)
		}
	}
	return 0
}

// GetPayloadStrings retrieves a string slice from the payload
func (e *Event) GetPayloadStrings(key string) []string {
	val, ok := e.Payload[key]
	if !ok {
		return nil
	}
	switch v := val.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
