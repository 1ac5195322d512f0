package kafka

import (
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

type Producer struct {
	topic    string
	producer sarama.SyncProducer
}

func NewSyncProducer(brokers []string, topic string) (*Producer, error) {
	cfg := sarama.NewConfig()

	// SyncProducer requires both:
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true

	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 500 * time.Millisecond

	prod, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create sarama sync producer: %w", err)
	}

	return &Producer{
		topic:    topic,
		producer: prod,
	}, nil
}

func (p *Producer) Close() error {
	return p.producer.Close()
}

// SendRaw publishes an already-serialized payload. The outbox sender uses
// this so the payload on the wire is byte-identical to what was committed.
func (p *Producer) SendRaw(topic, key string, payload []byte) error {
	if topic == "" {
		topic = p.topic
	}
	if len(payload) == 0 {
		return fmt.Errorf("payload is empty")
	}

	msg := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: time.Now(),
	}

	_, _, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send kafka message: %w", err)
	}

	return nil
}
