package metrics

import (
	"testing"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestListingMetrics_Record(t *testing.T) {
	m := NewListingMetrics(prometheus.NewRegistry())

	m.RecordUnit("ebay_us", domain.StatusSuccess, domain.ReasonNone)
	m.RecordUnit("ebay_us", domain.StatusSuccess, domain.ReasonNone)
	m.RecordUnit("etsy", domain.StatusSkipped, domain.ReasonNegativeMargin)
	m.RecordGrossProfit("ebay_us", 9824.96)
	m.RecordSubmission("ebay_us", "timeout", 15)
	m.RecordMasterDataFallback("shipping")
	m.RecordBatch(domain.BatchSummary{Total: 3, Success: 2, Skipped: 1}, 1.5)
	m.RecordRateRefresh("http", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.UnitsTotal.WithLabelValues("ebay_us", "SUCCESS", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UnitsTotal.WithLabelValues("etsy", "SKIPPED", "NegativeMargin")))
	assert.Equal(t, 9824.96, testutil.ToFloat64(m.GrossProfitTotal.WithLabelValues("ebay_us")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubmissionsTotal.WithLabelValues("ebay_us", "timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MasterDataFallbacksTotal.WithLabelValues("shipping")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchUnitsLast.WithLabelValues("SKIPPED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateRefreshTotal.WithLabelValues("http", "error")))
}

func TestListingMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewListingMetrics(prometheus.NewRegistry())
		NewListingMetrics(prometheus.NewRegistry())
	})
}
