package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeResults_KeyedByProduct(t *testing.T) {
	profit := 9824.96
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	results := []domain.ExecutionResult{
		{ProductID: "p1", MarketplaceID: "ebay_us", Status: domain.StatusSuccess, LocalPrice: 391.83, Currency: "USD", GrossProfitHome: &profit, SubmissionReference: "ref-1"},
		{ProductID: "p2", MarketplaceID: "etsy", Status: domain.StatusSkipped, Reason: domain.ReasonMappingIncomplete, Message: "missing brand"},
	}

	msgs := EncodeResults("batch-7", results, at)

	require.Len(t, msgs, 2)
	assert.Equal(t, []byte("p1"), msgs[0].Key)

	var ev ListingResultEvent
	require.NoError(t, json.Unmarshal(msgs[0].Value, &ev))
	assert.Equal(t, "batch-7", ev.BatchID)
	assert.Equal(t, domain.StatusSuccess, ev.Status)
	require.NotNil(t, ev.GrossProfitHome)
	assert.Equal(t, 9824.96, *ev.GrossProfitHome)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(msgs[1].Value, &raw))
	assert.Equal(t, "MappingIncomplete", raw["reason"])
	assert.NotContains(t, raw, "gross_profit_home")
	assert.NotContains(t, raw, "submission_reference")
}
