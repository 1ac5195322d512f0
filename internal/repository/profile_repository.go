package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inquiry_service/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var profileColumns = []string{
	"id", "full_name", "company_name", "industry",
	"phone", "email", "website",
	"preferred_tone", "preferred_language",
	"response_template_intro", "response_template_signature",
	"auto_response_enabled", "auto_categorization_enabled",
	"contact_form_slug", "created_at", "updated_at",
}

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.CompanyProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is empty")
	}

	q := r.sb.
		Select(profileColumns...).
		From("profiles").
		Where(sq.Eq{"id": userID}).
		Limit(1)

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get profile: %w", err)
	}

	p, err := scanProfile(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Update applies only the fields present in the request. Returns the fresh row.
func (r *ProfileRepository) Update(ctx context.Context, userID string, upd *models.ProfileUpdateRequest) (*models.CompanyProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is empty")
	}
	if upd == nil {
		return nil, fmt.Errorf("update is nil")
	}

	q := r.sb.
		Update("profiles").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": userID})

	set := false
	setText := func(col string, v *string) {
		if v != nil {
			q = q.Set(col, *v)
			set = true
		}
	}
	setText("full_name", upd.FullName)
	setText("company_name", upd.CompanyName)
	setText("industry", upd.Industry)
	setText("phone", upd.Phone)
	setText("email", upd.Email)
	setText("website", upd.Website)
	setText("preferred_tone", upd.PreferredTone)
	setText("preferred_language", upd.PreferredLanguage)
	setText("response_template_intro", upd.ResponseIntro)
	setText("response_template_signature", upd.ResponseSignature)
	if upd.AutoResponseEnabled != nil {
		q = q.Set("auto_response_enabled", *upd.AutoResponseEnabled)
		set = true
	}
	if upd.AutoCategorizationEnabled != nil {
		q = q.Set("auto_categorization_enabled", *upd.AutoCategorizationEnabled)
		set = true
	}
	if !set {
		return nil, fmt.Errorf("nothing to update")
	}

	q = q.Suffix("RETURNING " + strings.Join(profileColumns, ", "))

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update profile: %w", err)
	}

	p, err := scanProfile(r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

// CreateEmployee inserts the profile row for a freshly provisioned identity.
func (r *ProfileRepository) CreateEmployee(ctx context.Context, e *models.EmployeeProfile) error {
	if e == nil {
		return fmt.Errorf("employee profile is nil")
	}
	if e.ID == "" || e.EmployerID == "" {
		return fmt.Errorf("employee or employer id is empty")
	}
	if e.MaxCapacity <= 0 {
		e.MaxCapacity = 10
	}
	if e.Skills == nil {
		e.Skills = []string{}
	}

	q := r.sb.
		Insert("employee_profiles").
		Columns("id", "employer_id", "full_name", "role", "skills", "max_capacity").
		Values(e.ID, e.EmployerID, e.FullName, e.Role, e.Skills, e.MaxCapacity).
		Suffix("RETURNING created_at")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert employee profile: %w", err)
	}

	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&e.CreatedAt); err != nil {
		return fmt.Errorf("insert employee profile: %w", err)
	}
	return nil
}

func scanProfile(row rowScanner) (*models.CompanyProfile, error) {
	var (
		p    models.CompanyProfile
		text [11]pgtype.Text
	)

	err := row.Scan(
		&p.ID,
		&text[0], // full_name
		&text[1], // company_name
		&text[2], // industry
		&text[3], // phone
		&text[4], // email
		&text[5], // website
		&text[6], // preferred_tone
		&text[7], // preferred_language
		&text[8], // response_template_intro
		&text[9], // response_template_signature
		&p.AutoResponseEnabled,
		&p.AutoCategorizationEnabled,
		&text[10], // contact_form_slug
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	assign := func(dst **string, src pgtype.Text) {
		if src.Valid {
			s := src.String
			*dst = &s
		}
	}
	assign(&p.FullName, text[0])
	assign(&p.CompanyName, text[1])
	assign(&p.Industry, text[2])
	assign(&p.Phone, text[3])
	assign(&p.Email, text[4])
	assign(&p.Website, text[5])
	assign(&p.PreferredTone, text[6])
	assign(&p.PreferredLanguage, text[7])
	assign(&p.ResponseIntro, text[8])
	assign(&p.ResponseSignature, text[9])
	assign(&p.ContactFormSlug, text[10])

	return &p, nil
}

