package domain

import "context"

type ExchangeRateProvider interface {
	GetRates(ctx context.Context, base string) (map[string]float64, error)
	GetName() string
}
