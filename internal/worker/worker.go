package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"syfw-todo/internal/config"
	"syfw-todo/internal/models"
	"syfw-todo/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// Run starts the Kafka consumer: reads commands, applies them, invalidates cache.
// One consumer per process; scale by running more replicas (consumer group shares partitions).
// Returns when ctx is done.
func Run(ctx context.Context, cfg config.Config, a *Applier) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info(ctx, "Worker disabled (no Kafka brokers)")
		return
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	logger.Info(ctx, "Kafka consumer started", "topic", cfg.KafkaTopic, "group", cfg.KafkaGroupID)
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		if err := handleMessage(ctx, a, msg.Value); err != nil {
			// Commit anyway so a poison message does not block the partition.
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
	}
}

// Start runs Run in a goroutine. The returned channel is closed once Run has
// returned, so callers can wait before closing the store.
func Start(ctx context.Context, cfg config.Config, a *Applier) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(ctx, cfg, a)
	}()
	return done
}

func handleMessage(ctx context.Context, a *Applier, payload []byte) error {
	var cmd models.Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("decode command: %w", err)
	}
	if cmd.RequestID != "" {
		ctx = logger.WithRequestID(ctx, cmd.RequestID)
	}
	return a.Apply(ctx, &cmd)
}
