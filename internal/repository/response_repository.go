package repository

import (
	"context"
	"errors"
	"fmt"

	"inquiry_service/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ResponseRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewResponseRepository(db *pgxpool.Pool) *ResponseRepository {
	return &ResponseRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// GetWithInquiry loads a response draft together with the inquiry it answers.
// The send flow needs both: the draft body and the inquiry's owner/recipient.
func (r *ResponseRepository) GetWithInquiry(ctx context.Context, responseID string) (*models.AIResponse, *models.Inquiry, error) {
	if responseID == "" {
		return nil, nil, fmt.Errorf("response id is empty")
	}

	q := r.sb.
		Select(
			"r.id",
			"r.inquiry_id",
			"r.suggested_response",
			"r.is_approved",
			"r.sent_at",
			"r.created_at",
			"i.id",
			"i.user_id",
			"i.name",
			"i.email",
			"i.subject",
			"i.message",
			"i.status",
		).
		From("ai_responses r").
		Join("inquiries i ON i.id = r.inquiry_id").
		Where(sq.Eq{"r.id": responseID}).
		Limit(1)

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("build get response: %w", err)
	}

	var (
		resp   models.AIResponse
		inq    models.Inquiry
		sentAt pgtype.Timestamptz
	)

	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(
		&resp.ID,
		&resp.InquiryID,
		&resp.SuggestedResponse,
		&resp.IsApproved,
		&sentAt,
		&resp.CreatedAt,
		&inq.ID,
		&inq.UserID,
		&inq.Name,
		&inq.Email,
		&inq.Subject,
		&inq.Message,
		&inq.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("get response with inquiry: %w", err)
	}

	if sentAt.Valid {
		t := sentAt.Time
		resp.SentAt = &t
	}

	return &resp, &inq, nil
}

// ListByInquiry returns all drafts for one inquiry, newest first.
func (r *ResponseRepository) ListByInquiry(ctx context.Context, inquiryID string) ([]*models.AIResponse, error) {
	if inquiryID == "" {
		return nil, fmt.Errorf("inquiry id is empty")
	}

	q := r.sb.
		Select("id", "inquiry_id", "suggested_response", "is_approved", "sent_at", "created_at").
		From("ai_responses").
		Where(sq.Eq{"inquiry_id": inquiryID}).
		OrderBy("created_at DESC")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list responses: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	var res []*models.AIResponse
	for rows.Next() {
		var (
			resp   models.AIResponse
			sentAt pgtype.Timestamptz
		)
		if err := rows.Scan(
			&resp.ID,
			&resp.InquiryID,
			&resp.SuggestedResponse,
			&resp.IsApproved,
			&sentAt,
			&resp.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan response row: %w", err)
		}
		if sentAt.Valid {
			t := sentAt.Time
			resp.SentAt = &t
		}
		res = append(res, &resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate response rows: %w", err)
	}
	return res, nil
}

// MarkSent records a successful send: sent_at set, draft approved.
func (r *ResponseRepository) MarkSent(ctx context.Context, responseID string) error {
	if responseID == "" {
		return fmt.Errorf("response id is empty")
	}

	q := r.sb.
		Update("ai_responses").
		Set("sent_at", sq.Expr("NOW()")).
		Set("is_approved", true).
		Where(sq.Eq{"id": responseID})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build mark response sent: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("mark response sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
