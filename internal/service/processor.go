package service

import (
	"context"
	"fmt"
	"time"

	"inquiry_service/internal/ai"
	"inquiry_service/internal/config"
	"inquiry_service/internal/kafka"
	"inquiry_service/internal/metrics"
	"inquiry_service/internal/models"
	"inquiry_service/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// BatchStore is the persistence surface the processor needs: claim a batch,
// commit a category, release a failed row.
type BatchStore interface {
	ClaimBatch(ctx context.Context, limit, maxAttempts int) ([]*models.Inquiry, error)
	StoreCategory(ctx context.Context, inq *models.Inquiry, category string) error
	MarkFailed(ctx context.Context, id string, backoff time.Duration) error
}

// Processor claims batches of uncategorized inquiries and runs them through
// the classifier. Safe to run from several triggers at once: the claim is a
// single SKIP LOCKED statement, so concurrent runs never see the same row.
type Processor struct {
	store      BatchStore
	classifier ai.Classifier

	simulation   bool
	maxAttempts  int
	retryBackoff time.Duration

	logger *logrus.Logger
}

func NewProcessor(
	db *pgxpool.Pool,
	inquiryRepo *repository.InquiryRepository,
	outboxRepo *repository.OutboxRepository,
	classifier ai.Classifier,
	cfg *config.Config,
	logger *logrus.Logger,
) *Processor {
	store := &pgBatchStore{
		db:          db,
		inquiryRepo: inquiryRepo,
		outboxRepo:  outboxRepo,
		kafkaTopic:  cfg.KafkaTopic,
	}
	return NewProcessorWithStore(store, classifier, cfg, logger)
}

func NewProcessorWithStore(store BatchStore, classifier ai.Classifier, cfg *config.Config, logger *logrus.Logger) *Processor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Processor{
		store:        store,
		classifier:   classifier,
		simulation:   cfg.SimulationMode,
		maxAttempts:  cfg.MaxAttempts,
		retryBackoff: cfg.RetryBackoff,
		logger:       logger,
	}
}

// ProcessBatch claims up to limit inquiries and categorizes each one. The
// limit is clamped to [1, 20]; zero or negative falls back to the default.
// Item failures are recorded per item and never abort the batch.
func (p *Processor) ProcessBatch(ctx context.Context, limit int) (*models.BatchResult, error) {
	if limit <= 0 {
		limit = config.DefaultProcessLimit
	}
	if limit > config.MaxProcessLimit {
		limit = config.MaxProcessLimit
	}

	start := time.Now()

	claimed, err := p.store.ClaimBatch(ctx, limit, p.maxAttempts)
	if err != nil {
		// A failed claim means no candidates this round; the next trigger or
		// poll retries. The caller never sees it as an error.
		p.logger.WithError(err).Warn("claim batch failed")
		return &models.BatchResult{
			Processed:      0,
			SimulationMode: p.simulation,
			Results:        []models.BatchItemResult{},
		}, nil
	}

	metrics.ObserveBatchClaimed(len(claimed))

	result := &models.BatchResult{
		Processed:      len(claimed),
		SimulationMode: p.simulation,
		Results:        make([]models.BatchItemResult, 0, len(claimed)),
	}

	for _, inq := range claimed {
		result.Results = append(result.Results, p.processOne(ctx, inq))
	}

	metrics.ObserveBatchDuration(time.Since(start))

	p.logger.WithFields(logrus.Fields{
		"claimed":    len(claimed),
		"simulation": p.simulation,
		"duration":   time.Since(start).String(),
	}).Info("inquiry batch processed")

	return result, nil
}

func (p *Processor) processOne(ctx context.Context, inq *models.Inquiry) models.BatchItemResult {
	// The claim never returns categorized rows; this guards against a stale
	// snapshot if the query ever changes.
	if inq.AICategory != nil {
		return models.BatchItemResult{ID: inq.ID, Skipped: true, Category: *inq.AICategory}
	}

	cat, err := p.classifier.Categorize(ctx, inq.Subject, inq.Message, inq.UserID)
	if err != nil {
		p.release(ctx, inq, err)
		return models.BatchItemResult{ID: inq.ID, Error: err.Error()}
	}

	if err := p.store.StoreCategory(ctx, inq, cat.Category); err != nil {
		p.release(ctx, inq, err)
		return models.BatchItemResult{ID: inq.ID, Error: err.Error()}
	}

	metrics.IncInquiryCategorized(cat.Category)

	return models.BatchItemResult{
		ID:          inq.ID,
		Categorized: true,
		Category:    cat.Category,
		Confidence:  cat.Confidence,
	}
}

// release puts a claimed row back to open with a linear backoff so the next
// run does not immediately retry a failing inquiry.
func (p *Processor) release(ctx context.Context, inq *models.Inquiry, cause error) {
	metrics.IncCategorizationFailure()

	backoff := time.Duration(inq.Attempts+1) * p.retryBackoff
	if err := p.store.MarkFailed(ctx, inq.ID, backoff); err != nil {
		p.logger.WithError(err).WithField("inquiry_id", inq.ID).
			Error("failed to release claimed inquiry")
	}

	p.logger.WithError(cause).WithFields(logrus.Fields{
		"inquiry_id": inq.ID,
		"attempts":   inq.Attempts + 1,
		"backoff":    backoff.String(),
	}).Warn("inquiry categorization failed")
}

// RunBatch satisfies the Kafka consumer trigger.
func (p *Processor) RunBatch(ctx context.Context, limit int) error {
	_, err := p.ProcessBatch(ctx, limit)
	return err
}

// Start runs the periodic processing loop. A zero interval disables it, in
// which case batches only run via HTTP or Kafka triggers.
func (p *Processor) Start(ctx context.Context, interval time.Duration, limit int) {
	if interval <= 0 {
		return
	}

	go func() {
		p.logger.WithField("interval", interval.String()).Info("inquiry processor loop started")
		defer p.logger.Info("inquiry processor loop stopped")

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := p.ProcessBatch(ctx, limit); err != nil {
					p.logger.WithError(err).Error("periodic batch run failed")
				}
			}
		}
	}()
}

// pgBatchStore binds the processor to Postgres. StoreCategory writes the
// category and the inquiry.categorized outbox event in one transaction, so
// the event only exists if the write-back committed.
type pgBatchStore struct {
	db          *pgxpool.Pool
	inquiryRepo *repository.InquiryRepository
	outboxRepo  *repository.OutboxRepository
	kafkaTopic  string
}

func (s *pgBatchStore) ClaimBatch(ctx context.Context, limit, maxAttempts int) ([]*models.Inquiry, error) {
	return s.inquiryRepo.ClaimBatch(ctx, limit, maxAttempts)
}

func (s *pgBatchStore) StoreCategory(ctx context.Context, inq *models.Inquiry, category string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.inquiryRepo.MarkCategorizedTx(ctx, tx, inq.ID, category); err != nil {
		return fmt.Errorf("mark categorized tx: %w", err)
	}

	event := kafka.NewInquiryEvent(kafka.EventInquiryCategorized, inq.ID, inq.UserID, inq.Subject, category)
	payload, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("marshal categorized event: %w", err)
	}

	ob := &models.OutboxMessage{
		Topic:   s.kafkaTopic,
		Payload: payload,
	}
	if err := s.outboxRepo.CreateMessage(ctx, tx, ob); err != nil {
		return fmt.Errorf("create outbox message tx: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *pgBatchStore) MarkFailed(ctx context.Context, id string, backoff time.Duration) error {
	return s.inquiryRepo.MarkFailed(ctx, id, backoff)
}
