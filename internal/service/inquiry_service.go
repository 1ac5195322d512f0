package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"inquiry_service/internal/cache"
	"inquiry_service/internal/kafka"
	"inquiry_service/internal/metrics"
	"inquiry_service/internal/models"
	"inquiry_service/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

type InquiryService struct {
	db          *pgxpool.Pool
	inquiryRepo *repository.InquiryRepository
	outboxRepo  *repository.OutboxRepository
	cache       cache.Cache
	cacheTTL    time.Duration

	kafkaTopic string
	webhookURL string

	validate *validator.Validate
	logger   *logrus.Logger
}

func NewInquiryService(
	db *pgxpool.Pool,
	inquiryRepo *repository.InquiryRepository,
	outboxRepo *repository.OutboxRepository,
	c cache.Cache,
	cacheTTL time.Duration,
	kafkaTopic string,
	webhookURL string,
	logger *logrus.Logger,
) *InquiryService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if strings.TrimSpace(kafkaTopic) == "" {
		kafkaTopic = "inquiry_events"
	}

	return &InquiryService{
		db:          db,
		inquiryRepo: inquiryRepo,
		outboxRepo:  outboxRepo,
		cache:       c,
		cacheTTL:    cacheTTL,
		kafkaTopic:  kafkaTopic,
		webhookURL:  webhookURL,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Create persists a new inquiry and its inquiry.created outbox event in one
// transaction. The webhook notification is fired after commit and never fails
// the request.
func (s *InquiryService) Create(ctx context.Context, req *models.InquiryRequest) (*models.Inquiry, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	inq := &models.Inquiry{
		UserID:   req.UserID,
		Name:     req.Name,
		Email:    req.Email,
		Subject:  req.Subject,
		Message:  req.Message,
		Category: req.Category,
	}
	if req.Phone != "" {
		phone := req.Phone
		inq.Phone = &phone
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.inquiryRepo.CreateTx(ctx, tx, inq); err != nil {
		return nil, fmt.Errorf("create inquiry tx: %w", err)
	}

	event := kafka.NewInquiryEvent(kafka.EventInquiryCreated, inq.ID, inq.UserID, inq.Subject, "")
	payload, err := event.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal inquiry event: %w", err)
	}

	ob := &models.OutboxMessage{
		Topic:   s.kafkaTopic,
		Payload: payload,
	}
	if err := s.outboxRepo.CreateMessage(ctx, tx, ob); err != nil {
		return nil, fmt.Errorf("create outbox message tx: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	metrics.IncInquiriesCreated()
	s.invalidateCaches(ctx, inq.UserID, inq.ID)

	if s.webhookURL != "" {
		go s.notifyWebhook(inq)
	}

	return inq, nil
}

// Get returns one inquiry. Non-admins only see their own.
func (s *InquiryService) Get(ctx context.Context, id, userID, role string) (*models.Inquiry, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}

	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, cache.InquiryKey(id)); err == nil && ok {
			var inq models.Inquiry
			if err := json.Unmarshal(raw, &inq); err == nil {
				if err := s.authorize(&inq, userID, role); err != nil {
					return nil, err
				}
				return &inq, nil
			}
		}
	}

	inq, err := s.inquiryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(inq, userID, role); err != nil {
		return nil, err
	}

	s.cacheInquiry(ctx, inq)
	return inq, nil
}

func (s *InquiryService) ListByUser(ctx context.Context, userID string) ([]*models.Inquiry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	key := cache.InquiryListKey(userID)
	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			var list []*models.Inquiry
			if err := json.Unmarshal(raw, &list); err == nil {
				return list, nil
			}
		}
	}

	list, err := s.inquiryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(list); err == nil {
			if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
				s.logger.WithError(err).Warn("failed to cache inquiry list")
			}
		}
	}

	return list, nil
}

// Update applies a dashboard edit. Only the owner (or an admin) may edit.
func (s *InquiryService) Update(ctx context.Context, id, userID, role string, upd *models.InquiryUpdateRequest) (*models.Inquiry, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if upd == nil || (upd.Status == nil && upd.AICategory == nil && upd.Notes == nil) {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if upd.Status != nil && !models.IsValidInquiryStatus(*upd.Status) {
		return nil, fmt.Errorf("%w: status must be open|in_progress|closed", ErrInvalidInput)
	}

	current, err := s.inquiryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(current, userID, role); err != nil {
		return nil, err
	}

	inq, err := s.inquiryRepo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	s.invalidateCaches(ctx, inq.UserID, inq.ID)
	return inq, nil
}

func (s *InquiryService) authorize(inq *models.Inquiry, userID, role string) error {
	if role == "admin" {
		return nil
	}
	if inq.UserID != userID {
		return ErrForbidden
	}
	return nil
}

func (s *InquiryService) cacheInquiry(ctx context.Context, inq *models.Inquiry) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(inq)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cache.InquiryKey(inq.ID), data, s.cacheTTL); err != nil {
		s.logger.WithError(err).Warn("failed to cache inquiry")
	}
}

func (s *InquiryService) invalidateCaches(ctx context.Context, userID, inquiryID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cache.InquiryKey(inquiryID), cache.InquiryListKey(userID)); err != nil {
		s.logger.WithError(err).Warn("failed to invalidate inquiry cache")
	}
}

// notifyWebhook posts the new inquiry to the configured webhook. Runs in its
// own goroutine with its own deadline; failures are logged and dropped.
func (s *InquiryService) notifyWebhook(inq *models.Inquiry) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	body, err := json.Marshal(map[string]any{
		"event":   "inquiry.created",
		"inquiry": inq,
	})
	if err != nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		s.logger.WithError(err).Warn("failed to build webhook request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		s.logger.WithError(err).Warn("webhook notification failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		s.logger.WithField("status", resp.StatusCode).Warn("webhook returned non-success status")
	}
}
