package metrics

import (
	"github.com/LavaJover/shvark-listing-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ListingMetrics holds every collector of the listing service
type ListingMetrics struct {
	// Units per terminal status
	UnitsTotal *prometheus.CounterVec

	// Realized gross profit of submitted listings, home currency
	GrossProfitTotal *prometheus.CounterVec
	GrossProfit      *prometheus.HistogramVec

	// Marketplace calls
	SubmissionsTotal   *prometheus.CounterVec
	SubmissionDuration *prometheus.HistogramVec

	// Master data lookups served from configured defaults
	MasterDataFallbacksTotal *prometheus.CounterVec

	// Batches
	BatchesTotal   prometheus.Counter
	BatchDuration  prometheus.Histogram
	BatchUnitsLast *prometheus.GaugeVec

	// Exchange rate refreshes
	RateRefreshTotal *prometheus.CounterVec
}

// NewListingMetrics registers the collectors on reg. A nil reg means the
// default registerer.
func NewListingMetrics(reg prometheus.Registerer) *ListingMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &ListingMetrics{
		UnitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listing_units_total",
				Help: "Listing units by marketplace, terminal status and reason",
			},
			[]string{"marketplace_id", "status", "reason"},
		),

		GrossProfitTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listing_gross_profit_home_total",
				Help: "Sum of gross profit of successful listings in home currency",
			},
			[]string{"marketplace_id"},
		),

		GrossProfit: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "listing_gross_profit_home",
				Help:    "Gross profit per successful listing in home currency",
				Buckets: prometheus.ExponentialBuckets(100, 2, 12), // 100, 200, 400...
			},
			[]string{"marketplace_id"},
		),

		SubmissionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listing_submissions_total",
				Help: "Marketplace listing calls by outcome",
			},
			[]string{"marketplace_id", "outcome"},
		),

		SubmissionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "listing_submission_duration_seconds",
				Help:    "Marketplace listing call latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms, 100ms, 200ms...
			},
			[]string{"marketplace_id", "outcome"},
		),

		MasterDataFallbacksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listing_master_data_fallbacks_total",
				Help: "Master data lookups answered with a configured default",
			},
			[]string{"kind"},
		),

		BatchesTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "listing_batches_total",
				Help: "Listing batches processed",
			},
		),

		BatchDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "listing_batch_duration_seconds",
				Help:    "Wall time of one listing batch in seconds",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			},
		),

		BatchUnitsLast: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "listing_last_batch_units",
				Help: "Unit counts of the most recent batch by status",
			},
			[]string{"status"},
		),

		RateRefreshTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listing_exchange_rate_refresh_total",
				Help: "Exchange rate refresh attempts by provider and result",
			},
			[]string{"provider", "result"},
		),
	}
}

func (m *ListingMetrics) RecordUnit(marketplaceID string, status domain.ExecutionStatus, reason domain.Reason) {
	m.UnitsTotal.WithLabelValues(marketplaceID, string(status), string(reason)).Inc()
}

func (m *ListingMetrics) RecordGrossProfit(marketplaceID string, profitHome float64) {
	m.GrossProfitTotal.WithLabelValues(marketplaceID).Add(profitHome)
	m.GrossProfit.WithLabelValues(marketplaceID).Observe(profitHome)
}

func (m *ListingMetrics) RecordSubmission(marketplaceID, outcome string, seconds float64) {
	m.SubmissionsTotal.WithLabelValues(marketplaceID, outcome).Inc()
	m.SubmissionDuration.WithLabelValues(marketplaceID, outcome).Observe(seconds)
}

func (m *ListingMetrics) RecordMasterDataFallback(kind string) {
	m.MasterDataFallbacksTotal.WithLabelValues(kind).Inc()
}

func (m *ListingMetrics) RecordBatch(summary domain.BatchSummary, seconds float64) {
	m.BatchesTotal.Inc()
	m.BatchDuration.Observe(seconds)
	m.BatchUnitsLast.WithLabelValues(string(domain.StatusSuccess)).Set(float64(summary.Success))
	m.BatchUnitsLast.WithLabelValues(string(domain.StatusSkipped)).Set(float64(summary.Skipped))
	m.BatchUnitsLast.WithLabelValues(string(domain.StatusFailed)).Set(float64(summary.Failed))
}

func (m *ListingMetrics) RecordRateRefresh(provider string, ok bool) {
	result := "error"
	if ok {
		result = "ok"
	}
	m.RateRefreshTotal.WithLabelValues(provider, result).Inc()
}
