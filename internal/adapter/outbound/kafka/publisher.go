package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/cargotrack/server/internal/port/outbound"
	"github.com/segmentio/kafka-go"
)

// Config contains event stream configuration.
type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// messageWriter is the subset of *kafka.Writer used by the publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// publisher implements outbound.MessagePort on a Kafka topic.
type publisher struct {
	writer  messageWriter
	timeout time.Duration
	now     func() time.Time
}

// NewPublisher creates a publisher writing to cfg.Topic.
func NewPublisher(cfg Config) outbound.MessagePort {
	return newPublisher(&kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.WriteTimeout,
	}, cfg.WriteTimeout)
}

func newPublisher(w messageWriter, timeout time.Duration) *publisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &publisher{writer: w, timeout: timeout, now: time.Now}
}

// Publish writes msg keyed by key. Messages with the same key land on the
// same partition, so per-order ordering is preserved.
func (p *publisher) Publish(ctx context.Context, key string, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: msg,
		Time:  p.now(),
	})
	if err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (p *publisher) Close() error {
	return p.writer.Close()
}

var _ outbound.MessagePort = (*publisher)(nil)
