package models

import "time"

// CompanyProfile holds the company-facing configuration used by the AI
// response workflow (templates, tone) and the public contact widget.
type CompanyProfile struct {
	ID          string  `db:"id" json:"id"`
	FullName    *string `db:"full_name" json:"full_name"`
	CompanyName *string `db:"company_name" json:"company_name"`
	Industry    *string `db:"industry" json:"industry"`

	Phone   *string `db:"phone" json:"phone"`
	Email   *string `db:"email" json:"email"`
	Website *string `db:"website" json:"website"`

	PreferredTone     *string `db:"preferred_tone" json:"preferred_tone"`
	PreferredLanguage *string `db:"preferred_language" json:"preferred_language"`
	ResponseIntro     *string `db:"response_template_intro" json:"response_template_intro"`
	ResponseSignature *string `db:"response_template_signature" json:"response_template_signature"`

	AutoResponseEnabled       bool `db:"auto_response_enabled" json:"auto_response_enabled"`
	AutoCategorizationEnabled bool `db:"auto_categorization_enabled" json:"auto_categorization_enabled"`

	ContactFormSlug *string `db:"contact_form_slug" json:"contact_form_slug"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type ProfileUpdateRequest struct {
	FullName          *string `json:"full_name" validate:"omitempty,max=100"`
	CompanyName       *string `json:"company_name" validate:"omitempty,max=200"`
	Industry          *string `json:"industry" validate:"omitempty,max=100"`
	Phone             *string `json:"phone" validate:"omitempty,max=20"`
	Email             *string `json:"email" validate:"omitempty,email,max=255"`
	Website           *string `json:"website" validate:"omitempty,max=255"`
	PreferredTone     *string `json:"preferred_tone" validate:"omitempty,oneof=formal professional casual friendly"`
	PreferredLanguage *string `json:"preferred_language" validate:"omitempty,max=10"`
	ResponseIntro     *string `json:"response_template_intro" validate:"omitempty,max=2000"`
	ResponseSignature *string `json:"response_template_signature" validate:"omitempty,max=2000"`

	AutoResponseEnabled       *bool `json:"auto_response_enabled"`
	AutoCategorizationEnabled *bool `json:"auto_categorization_enabled"`
}

// EmployeeProfile links a provisioned identity to its employer.
type EmployeeProfile struct {
	ID          string    `db:"id" json:"id"`
	EmployerID  string    `db:"employer_id" json:"employer_id"`
	FullName    string    `db:"full_name" json:"full_name"`
	Role        string    `db:"role" json:"role"`
	Skills      []string  `db:"skills" json:"skills"`
	MaxCapacity int       `db:"max_capacity" json:"max_capacity"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type EmployeeRequest struct {
	Email       string   `json:"email" validate:"required,email,max=255"`
	Password    string   `json:"password" validate:"required,min=8"`
	Name        string   `json:"name" validate:"required,max=100"`
	Role        string   `json:"role" validate:"required,max=50"`
	Skills      []string `json:"skills" validate:"omitempty,dive,max=50"`
	MaxCapacity int      `json:"max_capacity" validate:"omitempty,gte=1,lte=100"`
}
