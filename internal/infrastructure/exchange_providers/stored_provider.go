package infrastructure

import (
	"context"
	"fmt"
)

// RatesLoader reads the last persisted rate table.
type RatesLoader interface {
	LoadExchangeRates() (map[string]float64, error)
}

// StoredRatesProvider serves the rates last saved to the database.
type StoredRatesProvider struct {
	loader RatesLoader
}

func NewStoredRatesProvider(loader RatesLoader) *StoredRatesProvider {
	return &StoredRatesProvider{loader: loader}
}

func (p *StoredRatesProvider) GetName() string {
	return "postgres"
}

func (p *StoredRatesProvider) GetRates(ctx context.Context, base string) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rates, err := p.loader.LoadExchangeRates()
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("no stored exchange rates")
	}
	return rates, nil
}
