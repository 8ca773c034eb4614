package listing

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
	"github.com/LavaJover/shvark-listing-service/internal/usecase/mapper"
)

type ListingUsecase interface {
	// RunBatch processes every (product, marketplace) unit of jobs and returns
	// exactly one result per unit.
	RunBatch(ctx context.Context, jobs []domain.ListingJob) []domain.ExecutionResult
	Convert(md domain.MasterDataProvider, product domain.Product, marketplaceID string, targetProfit float64) domain.ConversionResult
}

// MasterDataSource hands out an immutable view of master data per batch.
type MasterDataSource interface {
	Snapshot() domain.MasterDataProvider
}

type PayloadMapper interface {
	Map(marketplaceID string, in mapper.Input) (domain.Payload, []string)
}

type Metrics interface {
	RecordUnit(marketplaceID string, status domain.ExecutionStatus, reason domain.Reason)
	RecordGrossProfit(marketplaceID string, profitHome float64)
	RecordSubmission(marketplaceID, outcome string, seconds float64)
}

type Options struct {
	HomeCurrency        string
	FulfillmentCost     float64
	DefaultTargetProfit float64
	Workers             int
	CallTimeout         time.Duration
	// CallInterval is the minimum spacing between two submissions across all workers.
	CallInterval time.Duration
}

type DefaultListingUsecase struct {
	MasterData MasterDataSource
	Mappers    PayloadMapper
	Client     domain.MarketplaceClient
	Metrics    Metrics
	Logger     *slog.Logger
	opts       Options
}

func NewDefaultListingUsecase(
	masterData MasterDataSource,
	mappers PayloadMapper,
	client domain.MarketplaceClient,
	metrics Metrics,
	logger *slog.Logger,
	opts Options) *DefaultListingUsecase {

	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 15 * time.Second
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DefaultListingUsecase{
		MasterData: masterData,
		Mappers:    mappers,
		Client:     client,
		Metrics:    metrics,
		Logger:     logger,
		opts:       opts,
	}
}

type noopMetrics struct{}

func (noopMetrics) RecordUnit(string, domain.ExecutionStatus, domain.Reason) {}
func (noopMetrics) RecordGrossProfit(string, float64)                         {}
func (noopMetrics) RecordSubmission(string, string, float64)                  {}
