package masterdata

import (
	"log/slog"
	"strings"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
)

// Snapshot is a read-only copy of the master data used for one run.
type Snapshot struct {
	data      domain.MasterData
	fallbacks Fallbacks
	logger    *slog.Logger
	recorder  FallbackRecorder
}

func (s *Snapshot) FeeProfile(marketplaceID string) domain.Lookup[domain.FeeProfile] {
	if p, ok := s.data.FeeProfiles[marketplaceID]; ok {
		return domain.Lookup[domain.FeeProfile]{Value: p}
	}

	s.miss("fee_profile", "fee profile not configured, using default",
		"marketplace_id", marketplaceID,
		"sales_fee_rate", s.fallbacks.SalesFeeRate,
		"payment_fee_rate", s.fallbacks.PaymentFeeRate,
	)
	return domain.Lookup[domain.FeeProfile]{
		Value: domain.FeeProfile{
			SalesFeeRate:   s.fallbacks.SalesFeeRate,
			PaymentFeeRate: s.fallbacks.PaymentFeeRate,
			FixedFee:       s.fallbacks.FixedFee,
			Currency:       strings.ToUpper(s.fallbacks.HomeCurrency),
		},
		Fallback: true,
	}
}

func (s *Snapshot) ShippingCost(weightG int, countryCode string) domain.Lookup[float64] {
	country := strings.ToUpper(countryCode)
	for _, entry := range s.data.Shipping[country] {
		if entry.Contains(weightG) {
			return domain.Lookup[float64]{Value: entry.CostHome}
		}
	}

	s.miss("shipping", "no shipping bracket for weight, using ceiling cost",
		"country", country,
		"weight_g", weightG,
		"ceiling_cost", s.fallbacks.ShippingCeilingCost,
	)
	return domain.Lookup[float64]{Value: s.fallbacks.ShippingCeilingCost, Fallback: true}
}

func (s *Snapshot) ExchangeRate(currency string) domain.Lookup[domain.ExchangeRate] {
	code := strings.ToUpper(currency)
	if code == strings.ToUpper(s.fallbacks.HomeCurrency) {
		return domain.Lookup[domain.ExchangeRate]{Value: domain.ExchangeRate{Currency: code, Rate: 1}}
	}
	if rate, ok := s.data.ExchangeRates[code]; ok && rate > 0 {
		return domain.Lookup[domain.ExchangeRate]{Value: domain.ExchangeRate{Currency: code, Rate: rate}}
	}

	s.miss("exchange_rate", "exchange rate unknown, using low-confidence fallback",
		"currency", code,
		"fallback_rate", s.fallbacks.ExchangeRate,
	)
	return domain.Lookup[domain.ExchangeRate]{
		Value:    domain.ExchangeRate{Currency: code, Rate: s.fallbacks.ExchangeRate, LowConfidence: true},
		Fallback: true,
	}
}

func (s *Snapshot) CountryForMarketplace(marketplaceID string) domain.Lookup[string] {
	if country, ok := s.data.Countries[marketplaceID]; ok && country != "" {
		return domain.Lookup[string]{Value: country}
	}

	s.miss("country", "ship-to country not configured, using default",
		"marketplace_id", marketplaceID,
		"country", s.fallbacks.Country,
	)
	return domain.Lookup[string]{Value: strings.ToUpper(s.fallbacks.Country), Fallback: true}
}

func (s *Snapshot) miss(kind, msg string, args ...any) {
	s.logger.Warn(msg, append(args, "error", domain.ErrMasterDataMissing)...)
	if s.recorder != nil {
		s.recorder.RecordMasterDataFallback(kind)
	}
}
