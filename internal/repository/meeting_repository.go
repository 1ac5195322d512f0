package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inquiry_service/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MeetingRepository struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewMeetingRepository(db *pgxpool.Pool) *MeetingRepository {
	return &MeetingRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *MeetingRepository) Create(ctx context.Context, m *models.Meeting) error {
	if m == nil {
		return fmt.Errorf("meeting is nil")
	}
	if m.Title == "" {
		return fmt.Errorf("title is empty")
	}
	if m.StartTime.IsZero() || m.EndTime.IsZero() {
		return fmt.Errorf("start/end time is zero")
	}
	if m.Status == "" {
		m.Status = models.MeetingStatusScheduled
	}

	attendees, err := json.Marshal(m.Attendees)
	if err != nil {
		return fmt.Errorf("marshal attendees: %w", err)
	}

	q := r.sb.
		Insert("meetings").
		Columns("title", "description", "start_time", "end_time", "location", "attendees", "created_by", "status").
		Values(m.Title, m.Description, m.StartTime, m.EndTime, m.Location, attendees, m.CreatedBy, m.Status).
		Suffix("RETURNING id::text, created_at")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert meeting: %w", err)
	}

	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}
	return nil
}

// ListUpcoming returns meetings starting at or after now, soonest first.
func (r *MeetingRepository) ListUpcoming(ctx context.Context, limit int) ([]*models.Meeting, error) {
	if limit <= 0 {
		limit = 10
	}

	q := r.sb.
		Select(meetingColumns...).
		From("meetings").
		Where(sq.GtOrEq{"start_time": time.Now()}).
		OrderBy("start_time ASC").
		Limit(uint64(limit))

	return r.queryMeetings(ctx, q)
}

// ListBetween returns meetings with start_time in [from, to).
func (r *MeetingRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*models.Meeting, error) {
	q := r.sb.
		Select(meetingColumns...).
		From("meetings").
		Where(sq.GtOrEq{"start_time": from}).
		Where(sq.Lt{"start_time": to}).
		OrderBy("start_time ASC")

	return r.queryMeetings(ctx, q)
}

func (r *MeetingRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("id is empty")
	}

	q := r.sb.
		Delete("meetings").
		Where(sq.Eq{"id": id})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete meeting: %w", err)
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// LogActivity appends to the audit trail. Best-effort from the caller's point
// of view; failures here never roll back the calendar mutation.
func (r *MeetingRepository) LogActivity(ctx context.Context, log *models.ActivityLog) error {
	if log == nil {
		return fmt.Errorf("activity log is nil")
	}
	if log.Action == "" {
		return fmt.Errorf("action is empty")
	}

	details := log.Details
	if len(details) == 0 {
		details = []byte("{}")
	}

	q := r.sb.
		Insert("activity_logs").
		Columns("action", "entity_type", "entity_id", "voice_command", "details").
		Values(log.Action, log.EntityType, log.EntityID, log.VoiceCommand, details).
		Suffix("RETURNING id, created_at")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert activity log: %w", err)
	}

	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&log.ID, &log.CreatedAt); err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

var meetingColumns = []string{
	"id", "title", "description", "start_time", "end_time",
	"location", "attendees", "created_by", "status", "created_at",
}

func (r *MeetingRepository) queryMeetings(ctx context.Context, q sq.SelectBuilder) ([]*models.Meeting, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select meetings: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}
	defer rows.Close()

	var res []*models.Meeting
	for rows.Next() {
		var (
			m         models.Meeting
			location  pgtype.Text
			attendees []byte
		)
		if err := rows.Scan(
			&m.ID,
			&m.Title,
			&m.Description,
			&m.StartTime,
			&m.EndTime,
			&location,
			&attendees,
			&m.CreatedBy,
			&m.Status,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan meeting row: %w", err)
		}

		if location.Valid {
			s := location.String
			m.Location = &s
		}
		if len(attendees) > 0 {
			if err := json.Unmarshal(attendees, &m.Attendees); err != nil {
				return nil, fmt.Errorf("unmarshal attendees: %w", err)
			}
		}

		res = append(res, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meeting rows: %w", err)
	}
	return res, nil
}
