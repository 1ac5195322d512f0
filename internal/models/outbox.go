package models

import (
	"encoding/json"
	"time"
)

// OutboxMessage is a domain event persisted in the same transaction as the
// write that produced it. The outbox sender publishes it to Kafka later.
// SentAt and LastError stay NULL until the first send attempt, hence the
// pointer fields.
type OutboxMessage struct {
	ID        int             `db:"id"`
	MessageID string          `db:"message_id"` // UUID
	Topic     string          `db:"topic"`
	Payload   json.RawMessage `db:"payload"` // stored as JSONB

	Status     string     `db:"status"` // pending, sent, failed
	RetryCount int        `db:"retry_count"`
	CreatedAt  time.Time  `db:"created_at"`
	SentAt     *time.Time `db:"sent_at"`
	LastError  *string    `db:"last_error"`
}
