package models

import "time"

const (
	InquiryStatusOpen       = "open"
	InquiryStatusInProgress = "in_progress"
	InquiryStatusClosed     = "closed"
)

var allowedInquiryStatuses = map[string]struct{}{
	InquiryStatusOpen:       {},
	InquiryStatusInProgress: {},
	InquiryStatusClosed:     {},
}

func IsValidInquiryStatus(s string) bool {
	_, ok := allowedInquiryStatuses[s]
	return ok
}

// Inquiry is a customer-submitted message awaiting categorization and response.
// AICategory stays nil until the processor has classified it; rows with a nil
// AICategory are the only ones eligible for claiming.
type Inquiry struct {
	ID     string `db:"id" json:"id"`
	UserID string `db:"user_id" json:"user_id"`

	Name    string  `db:"name" json:"name"`
	Email   string  `db:"email" json:"email"`
	Phone   *string `db:"phone" json:"phone,omitempty"`
	Subject string  `db:"subject" json:"subject"`
	Message string  `db:"message" json:"message"`

	Category   string  `db:"category" json:"category"`
	AICategory *string `db:"ai_category" json:"ai_category"`
	Status     string  `db:"status" json:"status"`
	Notes      *string `db:"notes" json:"notes,omitempty"`

	Attempts  int        `db:"attempts" json:"attempts"`
	NextTryAt *time.Time `db:"next_try_at" json:"next_try_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type InquiryRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Subject  string `json:"subject" validate:"required,max=200"`
	Message  string `json:"message" validate:"required,max=5000"`
	Category string `json:"category" validate:"omitempty,max=50"`
	UserID   string `json:"user_id" validate:"required,uuid"`
}

type InquiryUpdateRequest struct {
	Status     *string `json:"status"`
	AICategory *string `json:"ai_category"`
	Notes      *string `json:"notes"`
}
