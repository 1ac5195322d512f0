package models

import "time"

// AIResponse is a drafted reply for an inquiry, waiting for the owner to
// approve and send it.
type AIResponse struct {
	ID                string     `db:"id" json:"id"`
	InquiryID         string     `db:"inquiry_id" json:"inquiry_id"`
	SuggestedResponse string     `db:"suggested_response" json:"suggested_response"`
	IsApproved        bool       `db:"is_approved" json:"is_approved"`
	SentAt            *time.Time `db:"sent_at" json:"sent_at"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// BatchItemResult records the outcome of one inquiry inside a processor run.
// Outcomes are independent: a failed item never aborts the batch.
type BatchItemResult struct {
	ID          string  `json:"id"`
	Categorized bool    `json:"categorized"`
	Skipped     bool    `json:"skipped,omitempty"`
	Category    string  `json:"category,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`
	Error       string  `json:"error,omitempty"`
}

type BatchResult struct {
	Processed      int               `json:"processed"`
	SimulationMode bool              `json:"simulation_mode"`
	Results        []BatchItemResult `json:"results"`
}
