package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inquiry_service/internal/metrics"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// BatchRunner triggers one claim-and-categorize run. The consumer calls it
// whenever a new inquiry lands on the topic so categorization does not have
// to wait for the next scheduled invocation.
type BatchRunner interface {
	RunBatch(ctx context.Context, limit int) error
}

type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler sarama.ConsumerGroupHandler
	logger  *logrus.Logger
}

func NewConsumer(
	brokers []string,
	groupID string,
	topic string,
	runner BatchRunner,
	batchLimit int,
	logger *logrus.Logger,
) (*Consumer, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	cfg := sarama.NewConfig()

	cfg.Consumer.Return.Errors = true
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest

	// Commit only after the event has been handled.
	cfg.Consumer.Offsets.AutoCommit.Enable = false

	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{
		sarama.NewBalanceStrategyRange(),
	}
	cfg.Consumer.Group.Session.Timeout = 30 * time.Second
	cfg.Consumer.Group.Heartbeat.Interval = 3 * time.Second

	group, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	h := &inquiryGroupHandler{
		runner:     runner,
		batchLimit: batchLimit,
		logger:     logger,
	}

	return &Consumer{
		group:   group,
		topic:   topic,
		handler: h,
		logger:  logger,
	}, nil
}

func (c *Consumer) Start(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.logger.WithError(err).Warn("consumer group error")
			metrics.IncKafkaError("consumer", "group")
		}
	}()

	for {
		err := c.group.Consume(ctx, []string{c.topic}, c.handler)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.WithError(err).Warn("consume loop error")
			time.Sleep(1 * time.Second)
			continue
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

type inquiryGroupHandler struct {
	runner     BatchRunner
	batchLimit int
	logger     *logrus.Logger
}

func (h *inquiryGroupHandler) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (h *inquiryGroupHandler) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

func (h *inquiryGroupHandler) ConsumeClaim(
	session sarama.ConsumerGroupSession,
	claim sarama.ConsumerGroupClaim,
) error {
	for kafkaMsg := range claim.Messages() {
		lag := claim.HighWaterMarkOffset() - kafkaMsg.Offset - 1
		metrics.SetKafkaConsumerLag(kafkaMsg.Topic, kafkaMsg.Partition, lag)

		if err := h.handleOnce(session.Context(), kafkaMsg); err != nil {
			metrics.IncKafkaError("consumer", "process")
			h.logger.WithError(err).WithFields(logrus.Fields{
				"topic":     kafkaMsg.Topic,
				"partition": kafkaMsg.Partition,
				"offset":    kafkaMsg.Offset,
			}).Warn("handle inquiry event failed")
			// Drop the event anyway: the batch runner is idempotent and the
			// poll loop / manual trigger will pick the inquiry up again.
		} else {
			metrics.IncKafkaProcessed()
		}

		session.MarkMessage(kafkaMsg, "")
		session.Commit()
	}
	return nil
}

func (h *inquiryGroupHandler) handleOnce(ctx context.Context, m *sarama.ConsumerMessage) error {
	var ev InquiryEvent
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		return fmt.Errorf("unmarshal inquiry event: %w", err)
	}

	// Only new inquiries trigger a categorization run; the events the
	// processor itself emits would otherwise loop for nothing.
	if ev.Type != EventInquiryCreated {
		return nil
	}

	if h.runner == nil {
		return nil
	}
	if err := h.runner.RunBatch(ctx, h.batchLimit); err != nil {
		return fmt.Errorf("run categorization batch: %w", err)
	}
	return nil
}
