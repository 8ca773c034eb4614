package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
	"github.com/LavaJover/shvark-listing-service/internal/usecase/listing"
	"github.com/google/uuid"
)

// BatchRequest is the body of one message on the jobs topic.
type BatchRequest struct {
	BatchID string              `json:"batch_id"`
	Jobs    []domain.ListingJob `json:"jobs"`
}

type ResultPublisher interface {
	PublishResults(ctx context.Context, topic, batchID string, results []domain.ExecutionResult, batchSize, maxRetries int) error
}

type ResultLogger interface {
	LogResults(ctx context.Context, batchID string, results []domain.ExecutionResult) error
}

type BatchMetrics interface {
	RecordBatch(summary domain.BatchSummary, seconds float64)
}

type Topics struct {
	Jobs          string
	Results       string
	ConsumerGroup string
}

type BatchHandler struct {
	uc         listing.ListingUsecase
	sub        domain.SubscriberPort
	pub        ResultPublisher
	resultLog  ResultLogger
	metrics    BatchMetrics
	topics     Topics
	logger     *slog.Logger
	reportWait time.Duration
}

func NewBatchHandler(
	uc listing.ListingUsecase,
	sub domain.SubscriberPort,
	pub ResultPublisher,
	resultLog ResultLogger,
	metrics BatchMetrics,
	topics Topics,
	logger *slog.Logger) *BatchHandler {

	if logger == nil {
		logger = slog.Default()
	}
	return &BatchHandler{
		uc:         uc,
		sub:        sub,
		pub:        pub,
		resultLog:  resultLog,
		metrics:    metrics,
		topics:     topics,
		logger:     logger,
		reportWait: 30 * time.Second,
	}
}

// Run consumes batch requests until ctx is done or the subscription ends.
// Batches are processed one at a time.
func (h *BatchHandler) Run(ctx context.Context) error {
	msgs, err := h.sub.Subscribe(ctx, h.topics.Jobs, h.topics.ConsumerGroup)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", h.topics.Jobs, err)
	}
	h.logger.Info("listing batch consumer started", "topic", h.topics.Jobs, "group", h.topics.ConsumerGroup)

	for msg := range msgs {
		if err := h.Handle(ctx, msg); err != nil {
			h.logger.Error("listing batch dropped", "key", string(msg.Key), "error", err)
		}
	}
	return ctx.Err()
}

// Handle runs one batch and reports its results. Reporting is detached from
// ctx so results of a canceled batch still go out.
func (h *BatchHandler) Handle(ctx context.Context, msg domain.Message) error {
	var req BatchRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		return fmt.Errorf("malformed batch request: %w", err)
	}
	if req.BatchID == "" {
		req.BatchID = uuid.New().String()
	}
	log := h.logger.With("batch_id", req.BatchID)

	started := time.Now()
	results := h.uc.RunBatch(ctx, req.Jobs)
	summary := domain.Summarize(results)
	if h.metrics != nil {
		h.metrics.RecordBatch(summary, time.Since(started).Seconds())
	}

	reportCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.reportWait)
	defer cancel()

	for _, r := range results {
		log.Info("listing result",
			"product_id", r.ProductID,
			"marketplace_id", r.MarketplaceID,
			"status", r.Status,
			"reason", r.Reason,
			"message", r.Message,
		)
	}
	if h.resultLog != nil {
		if err := h.resultLog.LogResults(reportCtx, req.BatchID, results); err != nil {
			log.Error("failed to store listing results", "error", err)
		}
	}
	if h.pub != nil {
		if err := h.pub.PublishResults(reportCtx, h.topics.Results, req.BatchID, results, 100, 3); err != nil {
			log.Error("failed to publish listing results", "error", err)
		}
	}

	log.Info("listing batch summary",
		"total", summary.Total,
		"success", summary.Success,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return nil
}
