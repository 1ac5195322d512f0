package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventInquiryCreated     = "inquiry.created"
	EventInquiryCategorized = "inquiry.categorized"
	EventResponseSent       = "response.sent"
)

// InquiryEvent is the payload stored in the outbox and published to Kafka.
// InquiryID doubles as the partition key so events for one inquiry stay
// ordered.
type InquiryEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	InquiryID  string    `json:"inquiry_id"`
	UserID     string    `json:"user_id,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	Category   string    `json:"category,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewInquiryEvent(eventType, inquiryID, userID, subject, category string) *InquiryEvent {
	return &InquiryEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		InquiryID:  inquiryID,
		UserID:     userID,
		Subject:    subject,
		Category:   category,
		OccurredAt: time.Now().UTC(),
	}
}

func (e *InquiryEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
