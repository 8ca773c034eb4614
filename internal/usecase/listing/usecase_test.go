package listing_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
	"github.com/LavaJover/shvark-listing-service/internal/usecase/listing"
	"github.com/LavaJover/shvark-listing-service/internal/usecase/mapper"
	"github.com/LavaJover/shvark-listing-service/internal/usecase/masterdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

type submission struct {
	marketplaceID string
	payload       domain.Payload
}

type fakeClient struct {
	mu       sync.Mutex
	calls    []submission
	handle   func(ctx context.Context, marketplaceID string, payload domain.Payload) (string, error)
	inFlight int32
	maxSeen  int32
}

func (c *fakeClient) SubmitListing(ctx context.Context, marketplaceID string, payload domain.Payload) (string, error) {
	n := atomic.AddInt32(&c.inFlight, 1)
	defer atomic.AddInt32(&c.inFlight, -1)
	for {
		seen := atomic.LoadInt32(&c.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&c.maxSeen, seen, n) {
			break
		}
	}

	c.mu.Lock()
	c.calls = append(c.calls, submission{marketplaceID: marketplaceID, payload: payload})
	idx := len(c.calls)
	c.mu.Unlock()

	if c.handle != nil {
		return c.handle(ctx, marketplaceID, payload)
	}
	return fmt.Sprintf("ref-%d", idx), nil
}

func (c *fakeClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

type panickingMapper struct {
	inner     listing.PayloadMapper
	productID string
}

func (m panickingMapper) Map(marketplaceID string, in mapper.Input) (domain.Payload, []string) {
	if in.Product.ID == m.productID {
		panic("nil category table")
	}
	return m.inner.Map(marketplaceID, in)
}

// --- Fixtures ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLookup() *masterdata.Lookup {
	data := domain.MasterData{
		FeeProfiles: map[string]domain.FeeProfile{
			"ebay_us":    {SalesFeeRate: 0.13, PaymentFeeRate: 0.03, MinSalesFee: 20, Currency: "USD"},
			"amazon_us":  {SalesFeeRate: 0.13, PaymentFeeRate: 0.03, Currency: "USD"},
			"shopee_sg":  {SalesFeeRate: 0.10, PaymentFeeRate: 0.02, Currency: "SGD"},
			"bad_market": {SalesFeeRate: 0.90, PaymentFeeRate: 0.15, Currency: "USD"},
		},
		Shipping: map[string][]domain.ShippingCostEntry{
			"US": {
				{CountryCode: "US", MinWeightG: 0, MaxWeightG: 500, CostHome: 2500},
				{CountryCode: "US", MinWeightG: 500, MaxWeightG: 1000, CostHome: 3800},
			},
			"SG": {
				{CountryCode: "SG", MinWeightG: 0, MaxWeightG: 2000, CostHome: 2000},
			},
		},
		ExchangeRates: map[string]float64{"USD": 0.0067, "SGD": 0.009},
		Countries:     map[string]string{"bad_market": "US"},
	}
	return masterdata.NewLookup(data, masterdata.Fallbacks{
		HomeCurrency:        "JPY",
		SalesFeeRate:        0.15,
		PaymentFeeRate:      0.04,
		ShippingCeilingCost: 12000,
		ExchangeRate:        0.0067,
		Country:             "US",
	}, discardLogger(), nil)
}

func testRegistry() *mapper.Registry {
	return mapper.NewRegistry(mapper.CategoryTable{
		"ebay_us":   {"camera": "31388"},
		"amazon_us": {"camera": "CAMERA_DIGITAL"},
		"shopee_sg": {"camera": "100635"},
	})
}

func testOptions() listing.Options {
	return listing.Options{
		HomeCurrency:        "JPY",
		FulfillmentCost:     500,
		DefaultTargetProfit: 0.25,
		Workers:             1,
		CallTimeout:         time.Second,
	}
}

func camera(id string, cost float64) domain.Product {
	return domain.Product{
		ID:           id,
		Title:        "Vintage rangefinder camera",
		CostPrice:    cost,
		WeightG:      750,
		CurrentStock: 2,
		CategoryID:   "camera",
		Description:  "Fully serviced film camera.",
		Brand:        "Canonet",
		Barcode:      "4901234567894",
		Condition:    "used",
		ImageURLs:    []string{"https://img.example.com/" + id + ".jpg"},
	}
}

func newUsecase(client domain.MarketplaceClient, opts listing.Options) *listing.DefaultListingUsecase {
	return listing.NewDefaultListingUsecase(testLookup(), testRegistry(), client, nil, discardLogger(), opts)
}

func job(p domain.Product, marketplaces ...string) domain.ListingJob {
	return domain.ListingJob{Product: p, TargetMarketplaceIDs: marketplaces}
}

func ptr(f float64) *float64 { return &f }

// --- Tests ---

func TestRunBatch_SuccessReportsPriceAndProfit(t *testing.T) {
	client := &fakeClient{}
	uc := newUsecase(client, testOptions())

	results := uc.RunBatch(context.Background(), []domain.ListingJob{job(camera("p1", 35000), "ebay_us")})

	require.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, domain.StatusSuccess, res.Status)
	assert.Equal(t, domain.ReasonNone, res.Reason)
	assert.Equal(t, "ref-1", res.SubmissionReference)
	assert.Equal(t, 391.83, res.LocalPrice)
	assert.Equal(t, "USD", res.Currency)
	require.NotNil(t, res.GrossProfitHome)
	assert.InDelta(t, 9825, *res.GrossProfitHome, 1)
	assert.Equal(t, "listed at 391.83 USD, gross profit 9824.96 JPY", res.Message)
	assert.Empty(t, res.Warnings)

	require.Equal(t, 1, client.callCount())
	assert.Equal(t, "ebay_us", client.calls[0].marketplaceID)
	assert.Equal(t, "31388", client.calls[0].payload["primary_category_id"])
}

func TestRunBatch_NegativeMarginIsSkipped(t *testing.T) {
	client := &fakeClient{}
	uc := newUsecase(client, testOptions())

	jobs := []domain.ListingJob{{Product: camera("cheap", 500), TargetMarketplaceIDs: []string{"ebay_us"}, TargetProfit: ptr(0.30)}}
	results := uc.RunBatch(context.Background(), jobs)

	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusSkipped, results[0].Status)
	assert.Equal(t, domain.ReasonNegativeMargin, results[0].Reason)
	assert.Contains(t, results[0].Message, "negative margin: gross profit -579.57 JPY")
	require.NotNil(t, results[0].GrossProfitHome)
	assert.Less(t, *results[0].GrossProfitHome, 0.0)
	assert.Zero(t, client.callCount())
}

func TestRunBatch_InfeasibleFeesAreSkipped(t *testing.T) {
	client := &fakeClient{}
	uc := newUsecase(client, testOptions())

	results := uc.RunBatch(context.Background(), []domain.ListingJob{job(camera("p1", 35000), "bad_market")})

	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusSkipped, results[0].Status)
	assert.Equal(t, domain.ReasonPricingInfeasible, results[0].Reason)
	assert.Contains(t, results[0].Message, "pricing infeasible")
	assert.Nil(t, results[0].GrossProfitHome)
	assert.Zero(t, client.callCount())
}

func TestRunBatch_UnregisteredMarketplaceIsSkipped(t *testing.T) {
	client := &fakeClient{}
	uc := newUsecase(client, testOptions())

	results := uc.RunBatch(context.Background(), []domain.ListingJob{job(camera("p1", 35000), "rakuten_jp")})

	require.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, domain.StatusSkipped, res.Status)
	assert.Equal(t, domain.ReasonMappingIncomplete, res.Reason)
	assert.Contains(t, res.Message, `rakuten_jp: missing required field "category_id"`)
	assert.Contains(t, res.Message, `rakuten_jp: missing required field "listing_schema"`)
	assert.Equal(t, "JPY", res.Currency)
	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], "fee profile for rakuten_jp not configured")
	assert.Contains(t, res.Warnings[1], "ship-to country for rakuten_jp not configured; US assumed")
	assert.Zero(t, client.callCount())
}

func TestRunBatch_ApiFailureKeepsUpstreamMessage(t *testing.T) {
	client := &fakeClient{handle: func(context.Context, string, domain.Payload) (string, error) {
		return "", errors.New("429 Too Many Requests: daily listing quota exhausted")
	}}
	uc := newUsecase(client, testOptions())

	results := uc.RunBatch(context.Background(), []domain.ListingJob{job(camera("p1", 35000), "amazon_us")})

	require.Len(t, results, 1)
	res := results[0]
	assert.Equal(t, domain.StatusFailed, res.Status)
	assert.Equal(t, domain.ReasonAPICallFailed, res.Reason)
	assert.Contains(t, res.Message, "429 Too Many Requests: daily listing quota exhausted")
	assert.Empty(t, res.SubmissionReference)
	require.NotNil(t, res.GrossProfitHome)
	assert.Greater(t, *res.GrossProfitHome, 0.0)
}

func TestRunBatch_TimeoutIsDistinct(t *testing.T) {
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })

	cases := map[string]func(ctx context.Context, _ string, _ domain.Payload) (string, error){
		"client honours context": func(ctx context.Context, _ string, _ domain.Payload) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
		"client ignores context": func(context.Context, string, domain.Payload) (string, error) {
			<-block
			return "late", nil
		},
	}
	for name, handle := range cases {
		t.Run(name, func(t *testing.T) {
			opts := testOptions()
			opts.CallTimeout = 20 * time.Millisecond
			uc := newUsecase(&fakeClient{handle: handle}, opts)

			results := uc.RunBatch(context.Background(), []domain.ListingJob{job(camera("p1", 35000), "amazon_us")})

			require.Len(t, results, 1)
			assert.Equal(t, domain.StatusFailed, results[0].Status)
			assert.Equal(t, domain.ReasonAPICallTimeout, results[0].Reason)
			assert.Contains(t, results[0].Message, "timed out after 20ms")
		})
	}
}

func TestRunBatch_DefectIsolatedToOneUnit(t *testing.T) {
	client := &fakeClient{}
	uc := listing.NewDefaultListingUsecase(
		testLookup(),
		panickingMapper{inner: testRegistry(), productID: "broken"},
		client, nil, discardLogger(), testOptions(),
	)

	jobs := []domain.ListingJob{
		job(camera("p1", 35000), "ebay_us", "amazon_us"),
		job(camera("broken", 35000), "ebay_us", "amazon_us"),
		job(camera("p3", 35000), "shopee_sg"),
	}
	results := uc.RunBatch(context.Background(), jobs)

	require.Len(t, results, 5)
	byProduct := map[string][]domain.ExecutionResult{}
	for _, r := range results {
		byProduct[r.ProductID] = append(byProduct[r.ProductID], r)
	}
	for _, r := range byProduct["broken"] {
		assert.Equal(t, domain.StatusFailed, r.Status)
		assert.Equal(t, domain.ReasonUnexpectedDefect, r.Reason)
		assert.Contains(t, r.Message, "nil category table")
	}
	for _, id := range []string{"p1", "p3"} {
		for _, r := range byProduct[id] {
			assert.Equal(t, domain.StatusSuccess, r.Status, r.Message)
		}
	}
	assert.Equal(t, 3, client.callCount())
}

func TestRunBatch_ClientPanicIsContained(t *testing.T) {
	client := &fakeClient{handle: func(context.Context, string, domain.Payload) (string, error) {
		panic("nil pointer in transport")
	}}
	uc := newUsecase(client, testOptions())

	results := uc.RunBatch(context.Background(), []domain.ListingJob{job(camera("p1", 35000), "amazon_us", "shopee_sg")})

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, domain.StatusFailed, r.Status)
		assert.Equal(t, domain.ReasonUnexpectedDefect, r.Reason)
	}
}

func TestRunBatch_CanceledBeforeStart(t *testing.T) {
	client := &fakeClient{}
	uc := newUsecase(client, testOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := uc.RunBatch(ctx, []domain.ListingJob{job(camera("p1", 35000), "ebay_us", "amazon_us", "shopee_sg")})

	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, domain.StatusFailed, r.Status)
		assert.Equal(t, domain.ReasonBatchCanceled, r.Reason)
	}
	assert.Zero(t, client.callCount())
}

func TestRunBatch_CancelLetsInFlightCallFinish(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var callErr error
	client := &fakeClient{handle: func(callCtx context.Context, _ string, _ domain.Payload) (string, error) {
		cancel()
		callErr = callCtx.Err()
		return "ref-inflight", nil
	}}
	uc := newUsecase(client, testOptions())

	results := uc.RunBatch(ctx, []domain.ListingJob{job(camera("p1", 35000), "ebay_us", "amazon_us", "shopee_sg")})

	require.Len(t, results, 3)
	assert.NoError(t, callErr)
	assert.Equal(t, domain.StatusSuccess, results[0].Status)
	assert.Equal(t, "ref-inflight", results[0].SubmissionReference)
	for _, r := range results[1:] {
		assert.Equal(t, domain.ReasonBatchCanceled, r.Reason)
	}
	assert.Equal(t, 1, client.callCount())
}

func TestRunBatch_WorkerPoolIsBounded(t *testing.T) {
	client := &fakeClient{handle: func(context.Context, string, domain.Payload) (string, error) {
		time.Sleep(5 * time.Millisecond)
		return "ok", nil
	}}
	opts := testOptions()
	opts.Workers = 3
	uc := newUsecase(client, opts)

	var jobs []domain.ListingJob
	for i := 0; i < 12; i++ {
		jobs = append(jobs, job(camera(fmt.Sprintf("p%d", i), 35000), "ebay_us", "amazon_us"))
	}
	results := uc.RunBatch(context.Background(), jobs)

	assert.Len(t, results, 24)
	assert.Equal(t, domain.BatchSummary{Total: 24, Success: 24}, domain.Summarize(results))
	assert.LessOrEqual(t, atomic.LoadInt32(&client.maxSeen), int32(3))
}

func TestRunBatch_CallIntervalThrottles(t *testing.T) {
	opts := testOptions()
	opts.CallInterval = 30 * time.Millisecond
	uc := newUsecase(&fakeClient{}, opts)

	started := time.Now()
	results := uc.RunBatch(context.Background(), []domain.ListingJob{job(camera("p1", 35000), "ebay_us", "amazon_us", "shopee_sg")})

	assert.Len(t, results, 3)
	// The first call goes through immediately, the next two wait one interval each.
	assert.GreaterOrEqual(t, time.Since(started), 55*time.Millisecond)
}

func TestRunBatch_DuplicateMarketplaceCollapses(t *testing.T) {
	client := &fakeClient{}
	uc := newUsecase(client, testOptions())

	results := uc.RunBatch(context.Background(), []domain.ListingJob{job(camera("p1", 35000), "ebay_us", "ebay_us")})

	assert.Len(t, results, 1)
	assert.Equal(t, 1, client.callCount())
}

func TestConvert_TargetProfitOverride(t *testing.T) {
	uc := newUsecase(&fakeClient{}, testOptions())
	md := testLookup().Snapshot()

	base := uc.Convert(md, camera("p1", 35000), "amazon_us", 0.25)
	higher := uc.Convert(md, camera("p1", 35000), "amazon_us", 0.5)

	assert.Equal(t, 391.83, base.LocalPrice)
	assert.Greater(t, higher.LocalPrice, base.LocalPrice)
	assert.Greater(t, higher.GrossProfitHome, base.GrossProfitHome)
	assert.Equal(t, 25.46, base.ShippingLocal)
}

func TestConvert_IsDeterministic(t *testing.T) {
	uc := newUsecase(&fakeClient{}, testOptions())
	md := testLookup().Snapshot()

	first := uc.Convert(md, camera("p1", 35000), "shopee_sg", 0.25)
	second := uc.Convert(md, camera("p1", 35000), "shopee_sg", 0.25)

	assert.Equal(t, first, second)
	assert.Equal(t, "SGD", first.Currency)
	assert.Empty(t, first.Errors)
}

func TestConvert_FallbackWarnings(t *testing.T) {
	uc := newUsecase(&fakeClient{}, testOptions())
	md := testLookup().Snapshot()

	p := camera("heavy", 35000)
	p.WeightG = 5000
	conv := uc.Convert(md, p, "amazon_us", 0.25)

	require.Len(t, conv.Warnings, 1)
	assert.Contains(t, conv.Warnings[0], "no shipping bracket for 5000 g to US")
	// 12000 JPY ceiling at 0.0067
	assert.Equal(t, 80.4, conv.ShippingLocal)
}
