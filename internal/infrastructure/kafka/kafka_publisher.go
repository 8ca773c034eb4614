package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(brokers []string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.Hash{},
		},
	}
}

func (k *DefaultKafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	now := time.Now()
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
			Topic: topic,
		})
	}

	return k.writer.WriteMessages(ctx, km...)
}

// PublishResults writes one event per result keyed by product id, in chunks of
// batchSize with up to maxRetries attempts per chunk.
func (k *DefaultKafkaPublisher) PublishResults(ctx context.Context, topic, batchID string, results []domain.ExecutionResult, batchSize, maxRetries int) error {
	msgs := EncodeResults(batchID, results, time.Now())
	if len(msgs) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if maxRetries <= 0 {
		maxRetries = 1
	}

	published := 0
	for i := 0; i < len(msgs); i += batchSize {
		end := min(i+batchSize, len(msgs))

		var err error
		for attempt := 1; attempt <= maxRetries; attempt++ {
			if err = k.Publish(ctx, topic, msgs[i:end]...); err == nil {
				published += end - i
				break
			}
			slog.Warn("result publish attempt failed", "batch_id", batchID, "attempt", attempt, "error", err)
			if attempt < maxRetries {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Duration(attempt) * time.Second):
				}
			}
		}
		if err != nil {
			return fmt.Errorf("publish results %d-%d of batch %s: %w", i, end, batchID, err)
		}
	}

	slog.Info("listing results published", "batch_id", batchID, "count", published, "topic", topic)
	return nil
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}

// EncodeResults turns results into messages keyed by product id. Results that
// fail to encode are logged and left out.
func EncodeResults(batchID string, results []domain.ExecutionResult, at time.Time) []domain.Message {
	msgs := make([]domain.Message, 0, len(results))
	for _, r := range results {
		v, err := json.Marshal(NewListingResultEvent(batchID, r, at))
		if err != nil {
			slog.Error("failed to marshal listing result", "product_id", r.ProductID, "marketplace_id", r.MarketplaceID, "error", err)
			continue
		}
		msgs = append(msgs, domain.Message{Key: []byte(r.ProductID), Value: v})
	}
	return msgs
}
