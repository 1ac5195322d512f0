package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inquiry_service/internal/kafka"
	"inquiry_service/internal/metrics"
	"inquiry_service/internal/models"
	"inquiry_service/internal/repository"

	"github.com/sirupsen/logrus"
)

// OutboxSender drains pending outbox rows into Kafka. Events are keyed by
// inquiry_id so all events for one inquiry land on the same partition.
type OutboxSender struct {
	repo          *repository.OutboxRepository
	producer      *kafka.Producer
	pollInterval  time.Duration
	batchSize     int
	retentionDays int
	maxRetries    int
	logger        *logrus.Logger

	cleanupEvery time.Duration
}

func NewOutboxSender(
	repo *repository.OutboxRepository,
	producer *kafka.Producer,
	pollInterval time.Duration,
	batchSize int,
	retentionDays int,
	maxRetries int,
	logger *logrus.Logger,
) *OutboxSender {
	if maxRetries <= 0 {
		maxRetries = 10
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if retentionDays < 0 {
		retentionDays = 0
	}

	return &OutboxSender{
		repo:          repo,
		producer:      producer,
		pollInterval:  pollInterval,
		batchSize:     batchSize,
		retentionDays: retentionDays,
		maxRetries:    maxRetries,
		logger:        logger,
		// cleanup runs rarely so the DB is not hammered
		cleanupEvery: 1 * time.Hour,
	}
}

// Start launches the background sender goroutine.
func (s *OutboxSender) Start(ctx context.Context) {
	go func() {
		s.logger.Info("outbox sender started")
		defer s.logger.Info("outbox sender stopped")

		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		cleanupTicker := time.NewTicker(s.cleanupEvery)
		defer cleanupTicker.Stop()

		s.flushOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.flushOnce(ctx)
			case <-cleanupTicker.C:
				s.cleanupOnce(ctx)
			}
		}
	}()
}

func (s *OutboxSender) flushOnce(ctx context.Context) {
	msgs, err := s.repo.GetPendingMessages(ctx, s.batchSize)
	if err != nil {
		s.logger.WithError(err).Error("outbox get pending failed")
		return
	}
	if len(msgs) == 0 {
		return
	}

	for _, m := range msgs {
		if err := s.sendOne(m); err != nil {
			// the repo flips the row to failed once the retry limit is hit
			if err2 := s.repo.MarkAsFailed(ctx, m.MessageID, err.Error()); err2 != nil {
				s.logger.WithError(err2).Error("outbox mark failed error")
			}
			if m.RetryCount+1 >= s.maxRetries {
				metrics.IncOutboxFailed()
			}
			continue
		}
		if err := s.repo.MarkAsSent(ctx, m.MessageID); err != nil {
			s.logger.WithError(err).Error("outbox mark sent failed")
		}
	}
}

func (s *OutboxSender) sendOne(m *models.OutboxMessage) error {
	if m == nil {
		return fmt.Errorf("outbox message is nil")
	}
	if m.Topic == "" {
		return fmt.Errorf("outbox topic is empty")
	}
	if len(m.Payload) == 0 {
		return fmt.Errorf("outbox payload is empty")
	}

	// how long the event sat in the outbox before this attempt
	metrics.ObserveOutboxLagSeconds(time.Since(m.CreatedAt).Seconds())

	start := time.Now()

	key, err := extractInquiryID(m.Payload)
	if err != nil {
		metrics.IncKafkaError("producer", "prepare")
		metrics.ObserveOutboxProcessing(time.Since(start))
		return fmt.Errorf("extract inquiry_id: %w", err)
	}

	if err := s.producer.SendRaw(m.Topic, key, m.Payload); err != nil {
		metrics.IncKafkaError("producer", "send")
		metrics.IncOutboxRetry()
		metrics.ObserveOutboxProcessing(time.Since(start))
		return fmt.Errorf("kafka send failed: %w", err)
	}

	metrics.IncKafkaSent()
	metrics.IncOutboxSent()
	metrics.ObserveOutboxProcessing(time.Since(start))

	return nil
}

func (s *OutboxSender) cleanupOnce(ctx context.Context) {
	if s.retentionDays <= 0 {
		return
	}
	n, err := s.repo.CleanupOldMessages(ctx, s.retentionDays)
	if err != nil {
		s.logger.WithError(err).Error("outbox cleanup failed")
		return
	}
	if n > 0 {
		s.logger.WithField("deleted", n).Info("outbox cleanup finished")
	}
}

func extractInquiryID(payload []byte) (string, error) {
	var x struct {
		InquiryID string `json:"inquiry_id"`
	}
	if err := json.Unmarshal(payload, &x); err != nil {
		return "", err
	}
	if x.InquiryID == "" {
		return "", fmt.Errorf("inquiry_id is empty in payload")
	}
	return x.InquiryID, nil
}
