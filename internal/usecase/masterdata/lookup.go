// Package masterdata resolves fee schedules, shipping brackets, exchange rates
// and ship-to countries for the listing run. Every lookup is total: a miss
// falls back to a configured value and is logged as a warning.
package masterdata

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
)

// DefaultCountries is the primary ship-to country of each supported marketplace.
// Rows loaded from storage take precedence.
var DefaultCountries = map[string]string{
	"ebay_us":   "US",
	"amazon_us": "US",
	"amazon_de": "DE",
	"etsy":      "US",
	"shopee_sg": "SG",
}

// Fallbacks are the configured values served on a miss.
type Fallbacks struct {
	HomeCurrency        string
	SalesFeeRate        float64
	PaymentFeeRate      float64
	FixedFee            float64
	ShippingCeilingCost float64
	ExchangeRate        float64
	Country             string
}

// FallbackRecorder is notified whenever a lookup falls back. kind is one of
// "fee_profile", "shipping", "exchange_rate", "country".
type FallbackRecorder interface {
	RecordMasterDataFallback(kind string)
}

// Lookup holds the current master data tables. Replace and SetExchangeRates
// swap tables atomically; runs read through a Snapshot and never see a swap.
type Lookup struct {
	mu        sync.RWMutex
	data      domain.MasterData
	fallbacks Fallbacks
	logger    *slog.Logger
	recorder  FallbackRecorder
}

func NewLookup(data domain.MasterData, fallbacks Fallbacks, logger *slog.Logger, recorder FallbackRecorder) *Lookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lookup{
		data:      normalize(data),
		fallbacks: fallbacks,
		logger:    logger,
		recorder:  recorder,
	}
}

// Replace swaps all tables.
func (l *Lookup) Replace(data domain.MasterData) {
	next := normalize(data)
	l.mu.Lock()
	l.data = next
	l.mu.Unlock()
}

// SetExchangeRates swaps only the exchange rate table.
func (l *Lookup) SetExchangeRates(rates map[string]float64) {
	next := make(map[string]float64, len(rates))
	for code, rate := range rates {
		next[strings.ToUpper(code)] = rate
	}
	l.mu.Lock()
	l.data.ExchangeRates = next
	l.mu.Unlock()
}

// Snapshot returns an immutable view of the tables as of now.
func (l *Lookup) Snapshot() domain.MasterDataProvider {
	l.mu.RLock()
	data := l.data.Clone()
	l.mu.RUnlock()
	return &Snapshot{
		data:      data,
		fallbacks: l.fallbacks,
		logger:    l.logger,
		recorder:  l.recorder,
	}
}

// normalize upper-cases currency and country keys and sorts shipping brackets.
func normalize(data domain.MasterData) domain.MasterData {
	out := domain.MasterData{
		FeeProfiles:   make(map[string]domain.FeeProfile, len(data.FeeProfiles)),
		Shipping:      make(map[string][]domain.ShippingCostEntry, len(data.Shipping)),
		ExchangeRates: make(map[string]float64, len(data.ExchangeRates)),
		Countries:     make(map[string]string, len(data.Countries)),
	}
	for id, p := range data.FeeProfiles {
		p.Currency = strings.ToUpper(p.Currency)
		out.FeeProfiles[id] = p
	}
	for country, entries := range data.Shipping {
		sorted := append([]domain.ShippingCostEntry(nil), entries...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinWeightG < sorted[j].MinWeightG })
		out.Shipping[strings.ToUpper(country)] = sorted
	}
	for code, rate := range data.ExchangeRates {
		out.ExchangeRates[strings.ToUpper(code)] = rate
	}
	for id, country := range DefaultCountries {
		out.Countries[id] = country
	}
	for id, country := range data.Countries {
		out.Countries[id] = strings.ToUpper(country)
	}
	return out
}
