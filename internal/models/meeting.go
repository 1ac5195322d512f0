package models

import "time"

const MeetingStatusScheduled = "scheduled"

type Attendee struct {
	Name string `json:"name"`
}

type Meeting struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	StartTime   time.Time  `db:"start_time" json:"start_time"`
	EndTime     time.Time  `db:"end_time" json:"end_time"`
	Location    *string    `db:"location" json:"location"`
	Attendees   []Attendee `db:"attendees" json:"attendees"`
	CreatedBy   string     `db:"created_by" json:"created_by"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// ActivityLog keeps an audit trail of calendar mutations made by voice.
type ActivityLog struct {
	ID           int64     `db:"id" json:"id"`
	Action       string    `db:"action" json:"action"`
	EntityType   string    `db:"entity_type" json:"entity_type"`
	EntityID     string    `db:"entity_id" json:"entity_id"`
	VoiceCommand string    `db:"voice_command" json:"voice_command"`
	Details      []byte    `db:"details" json:"details,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
