package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inquiry_service/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const inquiryColumns = `id, user_id, name, email, phone, subject, message,
	category, ai_category, status, notes, attempts, next_try_at, created_at, updated_at`

type InquiryRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewInquiryRepository(db *pgxpool.Pool) *InquiryRepository {
	return &InquiryRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateTx inserts a new inquiry inside the given transaction so the caller
// can persist the matching outbox event atomically.
func (r *InquiryRepository) CreateTx(ctx context.Context, tx pgx.Tx, inq *models.Inquiry) error {
	if inq == nil {
		return fmt.Errorf("inquiry is nil")
	}
	if strings.TrimSpace(inq.Email) == "" {
		return fmt.Errorf("email is empty")
	}
	if strings.TrimSpace(inq.Subject) == "" {
		return fmt.Errorf("subject is empty")
	}
	if inq.Category == "" {
		inq.Category = "general"
	}

	q := r.sb.
		Insert("inquiries").
		Columns("user_id", "name", "email", "phone", "subject", "message", "category", "status").
		Values(inq.UserID, inq.Name, inq.Email, inq.Phone, inq.Subject, inq.Message, inq.Category, models.InquiryStatusOpen).
		Suffix("RETURNING id::text, created_at, updated_at")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert inquiry: %w", err)
	}

	if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&inq.ID, &inq.CreatedAt, &inq.UpdatedAt); err != nil {
		return fmt.Errorf("insert inquiry: %w", err)
	}

	inq.Status = models.InquiryStatusOpen
	return nil
}

func (r *InquiryRepository) GetByID(ctx context.Context, id string) (*models.Inquiry, error) {
	if id == "" {
		return nil, fmt.Errorf("id is empty")
	}

	q := r.sb.
		Select(inquiryColumns).
		From("inquiries").
		Where(sq.Eq{"id": id}).
		Limit(1)

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get inquiry: %w", err)
	}

	row := r.db.QueryRow(ctx, sqlStr, args...)
	inq, err := scanInquiry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get inquiry: %w", err)
	}
	return inq, nil
}

// ListByUser returns the owner's inquiries, newest first.
func (r *InquiryRepository) ListByUser(ctx context.Context, userID string) ([]*models.Inquiry, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is empty")
	}

	q := r.sb.
		Select(inquiryColumns).
		From("inquiries").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list inquiries: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query inquiries: %w", err)
	}
	defer rows.Close()

	var res []*models.Inquiry
	for rows.Next() {
		inq, err := scanInquiry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inquiry row: %w", err)
		}
		res = append(res, inq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inquiry rows: %w", err)
	}
	return res, nil
}

// Update applies a dashboard edit (status, ai_category and/or notes).
func (r *InquiryRepository) Update(ctx context.Context, id string, upd *models.InquiryUpdateRequest) (*models.Inquiry, error) {
	if id == "" {
		return nil, fmt.Errorf("id is empty")
	}
	if upd == nil || (upd.Status == nil && upd.AICategory == nil && upd.Notes == nil) {
		return nil, fmt.Errorf("nothing to update")
	}

	q := r.sb.
		Update("inquiries").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + inquiryColumns)

	if upd.Status != nil {
		q = q.Set("status", *upd.Status)
	}
	if upd.AICategory != nil {
		q = q.Set("ai_category", *upd.AICategory)
	}
	if upd.Notes != nil {
		q = q.Set("notes", *upd.Notes)
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update inquiry: %w", err)
	}

	row := r.db.QueryRow(ctx, sqlStr, args...)
	inq, err := scanInquiry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update inquiry: %w", err)
	}
	return inq, nil
}

// ClaimBatch atomically claims up to limit uncategorized inquiries: rows with
// ai_category IS NULL, not closed, not backing off, oldest first. FOR UPDATE
// SKIP LOCKED keeps concurrent claimers from ever taking the same row; the
// claimed rows come back already flipped to in_progress.
func (r *InquiryRepository) ClaimBatch(ctx context.Context, limit, maxAttempts int) ([]*models.Inquiry, error) {
	if limit <= 0 {
		limit = 1
	}
	if maxAttempts <= 0 {
		maxAttempts = 10
	}

	const claimSQL = `
WITH candidate AS (
	SELECT id AS claim_id
	FROM inquiries
	WHERE ai_category IS NULL
	  AND status <> 'closed'
	  AND attempts < $2
	  AND (next_try_at IS NULL OR next_try_at <= NOW())
	ORDER BY created_at ASC
	FOR UPDATE SKIP LOCKED
	LIMIT $1
)
UPDATE inquiries q
SET status = 'in_progress', updated_at = NOW()
FROM candidate c
WHERE q.id = c.claim_id
RETURNING ` + inquiryColumns

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin claim tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, claimSQL, limit, maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("claim inquiries: %w", err)
	}

	var claimed []*models.Inquiry
	for rows.Next() {
		inq, err := scanInquiry(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan claimed row: %w", err)
		}
		claimed = append(claimed, inq)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claimed rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit claim tx: %w", err)
	}

	return claimed, nil
}

// MarkCategorizedTx stores the category and releases the row back to open.
// Attempts reset so a later re-categorization starts fresh.
func (r *InquiryRepository) MarkCategorizedTx(ctx context.Context, tx pgx.Tx, id, category string) error {
	if id == "" {
		return fmt.Errorf("id is empty")
	}
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("category is empty")
	}

	q := r.sb.
		Update("inquiries").
		Set("ai_category", category).
		Set("status", models.InquiryStatusOpen).
		Set("attempts", 0).
		Set("next_try_at", nil).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build mark categorized: %w", err)
	}

	tag, err := tx.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("mark categorized: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkFailed releases a claimed row after a failed categorization: status back
// to open, ai_category stays NULL, attempts incremented, next_try_at pushed
// out so the row is not reclaimed before the backoff elapses.
func (r *InquiryRepository) MarkFailed(ctx context.Context, id string, backoff time.Duration) error {
	if id == "" {
		return fmt.Errorf("id is empty")
	}
	if backoff < 0 {
		backoff = 0
	}

	q := r.sb.
		Update("inquiries").
		Set("status", models.InquiryStatusOpen).
		Set("attempts", sq.Expr("attempts + 1")).
		Set("next_try_at", sq.Expr("NOW() + (? * INTERVAL '1 second')", int64(backoff/time.Second))).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build mark failed: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close flips an inquiry to closed after its response went out.
func (r *InquiryRepository) Close(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("id is empty")
	}

	q := r.sb.
		Update("inquiries").
		Set("status", models.InquiryStatusClosed).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build close inquiry: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("close inquiry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInquiry(row rowScanner) (*models.Inquiry, error) {
	var (
		inq        models.Inquiry
		phone      pgtype.Text
		aiCategory pgtype.Text
		notes      pgtype.Text
		nextTryAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&inq.ID,
		&inq.UserID,
		&inq.Name,
		&inq.Email,
		&phone,
		&inq.Subject,
		&inq.Message,
		&inq.Category,
		&aiCategory,
		&inq.Status,
		&notes,
		&inq.Attempts,
		&nextTryAt,
		&inq.CreatedAt,
		&inq.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		s := phone.String
		inq.Phone = &s
	}
	if aiCategory.Valid {
		s := aiCategory.String
		inq.AICategory = &s
	}
	if notes.Valid {
		s := notes.String
		inq.Notes = &s
	}
	if nextTryAt.Valid {
		t := nextTryAt.Time
		inq.NextTryAt = &t
	}

	return &inq, nil
}
