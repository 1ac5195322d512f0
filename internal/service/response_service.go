package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inquiry_service/internal/kafka"
	"inquiry_service/internal/mail"
	"inquiry_service/internal/models"
	"inquiry_service/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// ResponseStore is the slice of the response repository the send flow needs.
type ResponseStore interface {
	GetWithInquiry(ctx context.Context, responseID string) (*models.AIResponse, *models.Inquiry, error)
	MarkSent(ctx context.Context, responseID string) error
}

type InquiryCloser interface {
	Close(ctx context.Context, id string) error
}

type ProfileReader interface {
	Get(ctx context.Context, userID string) (*models.CompanyProfile, error)
}

// ResponseService sends an approved draft reply to the inquiry's author and
// closes the inquiry.
type ResponseService struct {
	db           *pgxpool.Pool
	responseRepo ResponseStore
	inquiryRepo  InquiryCloser
	profileRepo  ProfileReader
	outboxRepo   *repository.OutboxRepository
	mailer       mail.Mailer

	kafkaTopic string
	logger     *logrus.Logger
}

func NewResponseService(
	db *pgxpool.Pool,
	responseRepo ResponseStore,
	inquiryRepo InquiryCloser,
	profileRepo ProfileReader,
	outboxRepo *repository.OutboxRepository,
	mailer mail.Mailer,
	kafkaTopic string,
	logger *logrus.Logger,
) *ResponseService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &ResponseService{
		db:           db,
		responseRepo: responseRepo,
		inquiryRepo:  inquiryRepo,
		profileRepo:  profileRepo,
		outboxRepo:   outboxRepo,
		mailer:       mailer,
		kafkaTopic:   kafkaTopic,
		logger:       logger,
	}
}

// Send delivers the draft response responseID by email. Only the inquiry's
// owner may send; ownership is checked before anything is mutated, so a
// forbidden call leaves the response unsent. The inquiry is closed after a
// successful delivery; a failure to close is logged but the send still counts.
func (s *ResponseService) Send(ctx context.Context, responseID, userID string) (*models.AIResponse, error) {
	if strings.TrimSpace(responseID) == "" {
		return nil, fmt.Errorf("%w: response id is required", ErrInvalidInput)
	}
	if s.mailer == nil {
		return nil, mail.ErrNotConfigured
	}

	resp, inq, err := s.responseRepo.GetWithInquiry(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if inq.UserID != userID {
		return nil, ErrForbidden
	}
	if resp.SentAt != nil {
		return nil, fmt.Errorf("%w: response already sent", ErrInvalidInput)
	}

	data := &mail.ResponseEmailData{
		RecipientName:   inq.Name,
		ResponseBody:    resp.SuggestedResponse,
		OriginalMessage: inq.Message,
	}

	// Intro and signature come from the owner's profile when present.
	if profile, err := s.profileRepo.Get(ctx, userID); err == nil {
		if profile.ResponseIntro != nil {
			data.Intro = *profile.ResponseIntro
		}
		if profile.ResponseSignature != nil {
			data.Signature = *profile.ResponseSignature
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.WithError(err).Warn("failed to load profile for response email")
	}

	html, err := mail.RenderResponseEmail(data)
	if err != nil {
		return nil, fmt.Errorf("render response email: %w", err)
	}

	msg := &mail.Message{
		To:      inq.Email,
		Subject: "Re: " + inq.Subject,
		HTML:    html,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("send response email: %w", err)
	}

	if err := s.responseRepo.MarkSent(ctx, responseID); err != nil {
		return nil, fmt.Errorf("mark response sent: %w", err)
	}

	if err := s.inquiryRepo.Close(ctx, inq.ID); err != nil {
		s.logger.WithError(err).WithField("inquiry_id", inq.ID).
			Warn("response sent but inquiry not closed")
	}

	s.publishSent(ctx, inq)

	resp, _, err = s.responseRepo.GetWithInquiry(ctx, responseID)
	if err != nil {
		return nil, fmt.Errorf("reload response: %w", err)
	}
	return resp, nil
}

func (s *ResponseService) publishSent(ctx context.Context, inq *models.Inquiry) {
	if s.db == nil || s.outboxRepo == nil {
		return
	}

	event := kafka.NewInquiryEvent(kafka.EventResponseSent, inq.ID, inq.UserID, inq.Subject, "")
	payload, err := event.Marshal()
	if err != nil {
		s.logger.WithError(err).Error("failed to marshal response.sent event")
		return
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to begin outbox tx")
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ob := &models.OutboxMessage{
		Topic:   s.kafkaTopic,
		Payload: payload,
	}
	if err := s.outboxRepo.CreateMessage(ctx, tx, ob); err != nil {
		s.logger.WithError(err).Error("failed to store response.sent event")
		return
	}
	if err := tx.Commit(ctx); err != nil {
		s.logger.WithError(err).Error("failed to commit outbox tx")
	}
}
