package voice

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"inquiry_service/internal/models"

	"github.com/sirupsen/logrus"
)

type fakeMeetingStore struct {
	created  []*models.Meeting
	upcoming []*models.Meeting
	today    []*models.Meeting
	deleted  []string
	logs     []*models.ActivityLog

	createErr error
	listErr   error
}

func (f *fakeMeetingStore) Create(_ context.Context, m *models.Meeting) error {
	if f.createErr != nil {
		return f.createErr
	}
	m.ID = "meeting-1"
	f.created = append(f.created, m)
	return nil
}

func (f *fakeMeetingStore) ListUpcoming(_ context.Context, _ int) ([]*models.Meeting, error) {
	return f.upcoming, f.listErr
}

func (f *fakeMeetingStore) ListBetween(_ context.Context, _, _ time.Time) ([]*models.Meeting, error) {
	return f.today, f.listErr
}

func (f *fakeMeetingStore) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeMeetingStore) LogActivity(_ context.Context, log *models.ActivityLog) error {
	f.logs = append(f.logs, log)
	return nil
}

func newTestService(store *fakeMeetingStore, now time.Time) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := NewService(store, logger)
	s.now = func() time.Time { return now }
	return s
}

func TestExecute_CreateMeeting(t *testing.T) {
	// Thursday
	now := time.Date(2026, time.September, 3, 10, 0, 0, 0, time.UTC)
	store := &fakeMeetingStore{}
	s := newTestService(store, now)

	res := s.Execute(context.Background(), "Lege ein Meeting mit Anna am Dienstag um 14 Uhr an")

	created, ok := res.(Created)
	if !ok {
		t.Fatalf("expected Created, got %T (%s)", res, res.Message())
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one stored meeting, got %d", len(store.created))
	}

	m := store.created[0]
	if m.Title != "Meeting mit Anna" {
		t.Fatalf("unexpected title %q", m.Title)
	}
	wantStart := time.Date(2026, time.September, 8, 14, 0, 0, 0, time.UTC)
	if !m.StartTime.Equal(wantStart) {
		t.Fatalf("expected start %v, got %v", wantStart, m.StartTime)
	}
	if !m.EndTime.Equal(wantStart.Add(time.Hour)) {
		t.Fatalf("expected end one hour after start, got %v", m.EndTime)
	}
	if len(m.Attendees) != 1 || m.Attendees[0].Name != "Anna" {
		t.Fatalf("unexpected attendees %v", m.Attendees)
	}
	if created.Meeting.ID != "meeting-1" {
		t.Fatalf("expected stored meeting back, got %+v", created.Meeting)
	}

	if len(store.logs) != 1 || store.logs[0].Action != "create_meeting" {
		t.Fatalf("expected one create_meeting activity log, got %+v", store.logs)
	}
}

func TestExecute_CreateWithoutDate(t *testing.T) {
	store := &fakeMeetingStore{}
	s := newTestService(store, time.Now())

	res := s.Execute(context.Background(), "Lege ein Meeting mit Anna an")

	if _, ok := res.(Failed); !ok {
		t.Fatalf("expected Failed without date/time, got %T", res)
	}
	if len(store.created) != 0 {
		t.Fatal("no meeting should be stored")
	}
}

func TestExecute_List(t *testing.T) {
	store := &fakeMeetingStore{
		upcoming: []*models.Meeting{{ID: "a"}, {ID: "b"}},
	}
	s := newTestService(store, time.Now())

	res := s.Execute(context.Background(), "Zeige meine Termine")

	listed, ok := res.(Listed)
	if !ok {
		t.Fatalf("expected Listed, got %T", res)
	}
	if len(listed.Meetings) != 2 {
		t.Fatalf("expected 2 meetings, got %d", len(listed.Meetings))
	}
	if listed.Message() != "Sie haben 2 anstehende Termine." {
		t.Fatalf("unexpected message %q", listed.Message())
	}
}

func TestExecute_ListEmpty(t *testing.T) {
	s := newTestService(&fakeMeetingStore{}, time.Now())

	res := s.Execute(context.Background(), "Zeige meine Termine")

	listed, ok := res.(Listed)
	if !ok {
		t.Fatalf("expected Listed, got %T", res)
	}
	if listed.Message() != "Sie haben keine anstehenden Termine." {
		t.Fatalf("unexpected message %q", listed.Message())
	}
}

func TestExecute_DeleteByHour(t *testing.T) {
	now := time.Date(2026, time.September, 3, 10, 0, 0, 0, time.UTC)
	store := &fakeMeetingStore{
		today: []*models.Meeting{
			{ID: "m-9", Title: "Standup", StartTime: time.Date(2026, time.September, 3, 9, 0, 0, 0, time.UTC)},
			{ID: "m-14", Title: "Review", StartTime: time.Date(2026, time.September, 3, 14, 0, 0, 0, time.UTC)},
		},
	}
	s := newTestService(store, now)

	res := s.Execute(context.Background(), "Lösche das Meeting um 14 Uhr")

	deleted, ok := res.(Deleted)
	if !ok {
		t.Fatalf("expected Deleted, got %T (%s)", res, res.Message())
	}
	if deleted.Meeting.ID != "m-14" {
		t.Fatalf("expected m-14 deleted, got %q", deleted.Meeting.ID)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "m-14" {
		t.Fatalf("unexpected delete calls %v", store.deleted)
	}
}

func TestExecute_DeleteNoMatch(t *testing.T) {
	now := time.Date(2026, time.September, 3, 10, 0, 0, 0, time.UTC)
	s := newTestService(&fakeMeetingStore{}, now)

	res := s.Execute(context.Background(), "Lösche das Meeting um 14 Uhr")

	if _, ok := res.(Failed); !ok {
		t.Fatalf("expected Failed when nothing matches, got %T", res)
	}
}

func TestExecute_Unknown(t *testing.T) {
	s := newTestService(&fakeMeetingStore{}, time.Now())

	res := s.Execute(context.Background(), "Mach irgendwas")

	if _, ok := res.(Failed); !ok {
		t.Fatalf("expected Failed for unknown command, got %T", res)
	}
}

func TestExecute_CreateStoreError(t *testing.T) {
	store := &fakeMeetingStore{createErr: errors.New("db down")}
	s := newTestService(store, time.Date(2026, time.September, 3, 10, 0, 0, 0, time.UTC))

	res := s.Execute(context.Background(), "Lege ein Meeting mit Anna am Dienstag um 14 Uhr an")

	if _, ok := res.(Failed); !ok {
		t.Fatalf("expected Failed on store error, got %T", res)
	}
}
