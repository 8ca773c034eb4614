package domain

// FeeProfile describes what a marketplace deducts from one sale.
// Rates are fractions of the sale price; FixedFee and MinSalesFee are in Currency.
type FeeProfile struct {
	SalesFeeRate   float64 `json:"sales_fee_rate"`
	PaymentFeeRate float64 `json:"payment_fee_rate"`
	FixedFee       float64 `json:"fixed_fee"`
	MinSalesFee    float64 `json:"min_sales_fee"`
	Currency       string  `json:"currency"`
}

// FeeRateTotal is the share of the sale price taken as percentage fees.
func (p FeeProfile) FeeRateTotal() float64 {
	return p.SalesFeeRate + p.PaymentFeeRate
}

// ShippingCostEntry is one weight bracket [MinWeightG, MaxWeightG) of a country table.
type ShippingCostEntry struct {
	CountryCode string  `json:"country_code"`
	MinWeightG  int     `json:"min_weight_g"`
	MaxWeightG  int     `json:"max_weight_g"`
	CostHome    float64 `json:"cost_home"`
}

func (e ShippingCostEntry) Contains(weightG int) bool {
	return weightG >= e.MinWeightG && weightG < e.MaxWeightG
}

// ExchangeRate converts one unit of home currency into Currency.
type ExchangeRate struct {
	Currency      string  `json:"currency"`
	Rate          float64 `json:"rate"`
	LowConfidence bool    `json:"low_confidence"`
}

// MasterData is the full set of static tables consumed by a listing run.
type MasterData struct {
	FeeProfiles   map[string]FeeProfile          // marketplace id -> profile
	Shipping      map[string][]ShippingCostEntry // country code -> brackets
	ExchangeRates map[string]float64             // currency code -> rate
	Countries     map[string]string              // marketplace id -> country code
}

// Clone returns a deep copy so readers never observe later replacements.
func (m MasterData) Clone() MasterData {
	out := MasterData{
		FeeProfiles:   make(map[string]FeeProfile, len(m.FeeProfiles)),
		Shipping:      make(map[string][]ShippingCostEntry, len(m.Shipping)),
		ExchangeRates: make(map[string]float64, len(m.ExchangeRates)),
		Countries:     make(map[string]string, len(m.Countries)),
	}
	for k, v := range m.FeeProfiles {
		out.FeeProfiles[k] = v
	}
	for k, v := range m.Shipping {
		out.Shipping[k] = append([]ShippingCostEntry(nil), v...)
	}
	for k, v := range m.ExchangeRates {
		out.ExchangeRates[k] = v
	}
	for k, v := range m.Countries {
		out.Countries[k] = v
	}
	return out
}

// Lookup is the outcome of a master data query. Fallback is set when the
// value came from configuration rather than from the tables.
type Lookup[T any] struct {
	Value    T
	Fallback bool
}

// MasterDataProvider answers the four lookups used to price a unit.
// Every method is total: a miss resolves to a configured fallback.
type MasterDataProvider interface {
	FeeProfile(marketplaceID string) Lookup[FeeProfile]
	ShippingCost(weightG int, countryCode string) Lookup[float64]
	ExchangeRate(currency string) Lookup[ExchangeRate]
	CountryForMarketplace(marketplaceID string) Lookup[string]
}

type MasterDataRepository interface {
	LoadMasterData() (*MasterData, error)
	LoadExchangeRates() (map[string]float64, error)
}
