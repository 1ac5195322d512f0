package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inquiry_service/internal/metrics"
	"inquiry_service/internal/models"

	"github.com/sirupsen/logrus"
)

// MeetingStore is the slice of the meeting repository the executor needs.
type MeetingStore interface {
	Create(ctx context.Context, m *models.Meeting) error
	ListUpcoming(ctx context.Context, limit int) ([]*models.Meeting, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.Meeting, error)
	Delete(ctx context.Context, id string) error
	LogActivity(ctx context.Context, log *models.ActivityLog) error
}

// Result is the outcome of one executed voice command. Exactly one concrete
// type is returned per call; callers switch on the type rather than
// inspecting a success flag.
type Result interface {
	Kind() string
	Message() string
}

type Created struct {
	Meeting *models.Meeting
	Msg     string
}

func (Created) Kind() string      { return "created" }
func (r Created) Message() string { return r.Msg }

type Listed struct {
	Meetings []*models.Meeting
	Msg      string
}

func (Listed) Kind() string      { return "listed" }
func (r Listed) Message() string { return r.Msg }

type Deleted struct {
	Meeting *models.Meeting
	Msg     string
}

func (Deleted) Kind() string      { return "deleted" }
func (r Deleted) Message() string { return r.Msg }

type Failed struct {
	Msg string
}

func (Failed) Kind() string      { return "failed" }
func (r Failed) Message() string { return r.Msg }

type Service struct {
	meetings MeetingStore
	log      *logrus.Logger

	now func() time.Time
}

func NewService(meetings MeetingStore, log *logrus.Logger) *Service {
	return &Service{
		meetings: meetings,
		log:      log,
		now:      time.Now,
	}
}

// Execute parses and runs one German voice command. Errors from the calendar
// store surface as Failed results with a user-facing German message; the
// underlying error goes to the log.
func (s *Service) Execute(ctx context.Context, command string) Result {
	parsed := Parse(command)
	metrics.IncVoiceCommand(string(parsed.Action))

	s.log.WithFields(logrus.Fields{
		"action": parsed.Action,
		"title":  parsed.Title,
		"date":   parsed.Date,
		"time":   parsed.Time,
	}).Debug("voice command parsed")

	switch parsed.Action {
	case ActionCreate:
		return s.create(ctx, command, parsed)
	case ActionList:
		return s.list(ctx)
	case ActionDelete:
		return s.delete(ctx, command, parsed)
	default:
		return Failed{Msg: fmt.Sprintf(
			`Entschuldigung, ich habe den Befehl %q nicht verstanden. Versuchen Sie: "Lege ein Meeting mit [Name] am [Tag] um [Zeit] an"`,
			command)}
	}
}

func (s *Service) create(ctx context.Context, command string, parsed ParsedCommand) Result {
	start, ok := ResolveStart(parsed.Date, parsed.Time, s.now())
	if !ok {
		return Failed{Msg: "Bitte geben Sie ein Datum und eine Uhrzeit an."}
	}

	title := parsed.Title
	if title == "" {
		title = "Neues Meeting"
	}

	attendees := make([]models.Attendee, 0, len(parsed.Attendees))
	for _, name := range parsed.Attendees {
		attendees = append(attendees, models.Attendee{Name: name})
	}

	m := &models.Meeting{
		Title:       title,
		Description: fmt.Sprintf("Erstellt per Sprachbefehl: %q", command),
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Attendees:   attendees,
		CreatedBy:   "Sprachassistent",
		Status:      models.MeetingStatusScheduled,
	}
	if parsed.Location != "" {
		loc := parsed.Location
		m.Location = &loc
	}

	if err := s.meetings.Create(ctx, m); err != nil {
		s.log.WithError(err).Error("failed to create meeting from voice command")
		return Failed{Msg: "Das Meeting konnte nicht erstellt werden."}
	}

	s.logActivity(ctx, "create_meeting", m.ID, command, parsed)

	return Created{
		Meeting: m,
		Msg: fmt.Sprintf("Meeting %q wurde für %s erstellt.",
			m.Title, start.Format("02.01.2006, 15:04")),
	}
}

func (s *Service) list(ctx context.Context) Result {
	meetings, err := s.meetings.ListUpcoming(ctx, 10)
	if err != nil {
		s.log.WithError(err).Error("failed to list upcoming meetings")
		return Failed{Msg: "Die Termine konnten nicht geladen werden."}
	}

	msg := "Sie haben keine anstehenden Termine."
	if len(meetings) > 0 {
		msg = fmt.Sprintf("Sie haben %d anstehende Termine.", len(meetings))
	}
	return Listed{Meetings: meetings, Msg: msg}
}

// delete removes today's meeting at the spoken hour. Without a time token
// there is no way to pick a meeting, so the command fails.
func (s *Service) delete(ctx context.Context, command string, parsed ParsedCommand) Result {
	if parsed.Time == "" {
		return Failed{Msg: "Bitte geben Sie eine Uhrzeit für das zu löschende Meeting an."}
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	meetings, err := s.meetings.ListBetween(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		s.log.WithError(err).Error("failed to load today's meetings")
		return Failed{Msg: "Die Termine konnten nicht geladen werden."}
	}

	var hour int
	fmt.Sscanf(parsed.Time, "%d", &hour)

	var target *models.Meeting
	for _, m := range meetings {
		if m.StartTime.In(now.Location()).Hour() == hour {
			target = m
			break
		}
	}
	if target == nil {
		return Failed{Msg: fmt.Sprintf("Kein Meeting um %s Uhr heute gefunden.", parsed.Time)}
	}

	if err := s.meetings.Delete(ctx, target.ID); err != nil {
		s.log.WithError(err).Error("failed to delete meeting")
		return Failed{Msg: "Das Meeting konnte nicht gelöscht werden."}
	}

	s.logActivity(ctx, "delete_meeting", target.ID, command, parsed)

	return Deleted{
		Meeting: target,
		Msg:     fmt.Sprintf("Meeting %q um %s Uhr wurde gelöscht.", target.Title, parsed.Time),
	}
}

func (s *Service) logActivity(ctx context.Context, action, entityID, command string, parsed ParsedCommand) {
	details, _ := json.Marshal(parsed)
	err := s.meetings.LogActivity(ctx, &models.ActivityLog{
		Action:       action,
		EntityType:   "meeting",
		EntityID:     entityID,
		VoiceCommand: command,
		Details:      details,
	})
	if err != nil {
		s.log.WithError(err).Warn("failed to write activity log")
	}
}
