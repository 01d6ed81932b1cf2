package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"syfw-todo/internal/config"
	"syfw-todo/internal/models"
	"syfw-todo/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// EnsureTopic creates the command topic with configured partitions (idempotent).
// Failure is logged only; the producer still works against an existing topic.
func EnsureTopic(ctx context.Context, cfg config.Config) {
	if len(cfg.KafkaBrokers) == 0 {
		return
	}
	conn, err := kafka.DialContext(ctx, "tcp", cfg.KafkaBrokers[0])
	if err != nil {
		logger.Debug(ctx, "Kafka dial for topic creation failed", "error", err)
		return
	}
	defer conn.Close()
	controller, err := conn.Controller()
	if err != nil {
		logger.Debug(ctx, "Kafka controller lookup failed", "error", err)
		return
	}
	ctrlConn, err := kafka.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		logger.Debug(ctx, "Kafka controller dial failed", "error", err)
		return
	}
	defer ctrlConn.Close()
	err = ctrlConn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.KafkaTopic,
		NumPartitions:     cfg.KafkaPartitions,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Debug(ctx, "Kafka create topic failed (topic may already exist)", "error", err)
		return
	}
	logger.Info(ctx, "Kafka topic ensured", "topic", cfg.KafkaTopic, "partitions", cfg.KafkaPartitions)
}

// ErrPublish marks commands that could not be handed to the broker.
var ErrPublish = errors.New("publish command")

// MessageWriter is the subset of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes update/delete commands for the worker to apply.
type Producer struct {
	w MessageWriter
}

// writeBatchTimeout bounds how long a synchronous write waits for its batch
// to fill; kafka-go defaults to one second.
const writeBatchTimeout = 5 * time.Millisecond

// newWriter builds a synchronous writer so Dispatch reports broker failures
// to the caller.
func newWriter(cfg config.Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: writeBatchTimeout,
		RequiredAcks: kafka.RequireOne,
	}
}

// NewProducer builds a producer for the configured brokers and topic.
func NewProducer(ctx context.Context, cfg config.Config) *Producer {
	w := newWriter(cfg)
	logger.Info(ctx, "Kafka producer initialized", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers, "batch_timeout", w.BatchTimeout)
	return NewProducerWithWriter(w)
}

func NewProducerWithWriter(w MessageWriter) *Producer {
	return &Producer{w: w}
}

// Dispatch publishes cmd keyed by its target record, so commands for one
// record land on one partition in order.
func (p *Producer) Dispatch(ctx context.Context, cmd *models.Command) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}
	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(cmd.Key()),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.w.Close()
}
