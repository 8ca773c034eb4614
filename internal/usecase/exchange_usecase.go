package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
)

type ExchangeRateService interface {
	GetRates(ctx context.Context, providerName string) (map[string]float64, error)
	GetRatesWithFallback(ctx context.Context) (map[string]float64, string, error)
	GetAvailableProviders() []string
	HealthCheck(ctx context.Context) map[string]error
}

// DefaultExchangeRateService asks its providers in registration order; the
// first registered one is the primary.
type DefaultExchangeRateService struct {
	base      string
	mu        sync.RWMutex
	providers map[string]domain.ExchangeRateProvider
	order     []string
	cache     *ExchangeRateCache
}

type ExchangeRateCache struct {
	rates map[string]CachedRates
	ttl   time.Duration
	mu    sync.RWMutex
}

type CachedRates struct {
	rates     map[string]float64
	timestamp time.Time
}

func NewDefaultExchangeRateService(base string, ttl time.Duration) *DefaultExchangeRateService {
	return &DefaultExchangeRateService{
		base:      base,
		providers: make(map[string]domain.ExchangeRateProvider),
		cache: &ExchangeRateCache{
			rates: make(map[string]CachedRates),
			ttl:   ttl,
		},
	}
}

func (s *DefaultExchangeRateService) RegisterProvider(provider domain.ExchangeRateProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := provider.GetName()
	if _, exists := s.providers[name]; !exists {
		s.order = append(s.order, name)
	}
	s.providers[name] = provider
}

func (s *DefaultExchangeRateService) GetRates(ctx context.Context, providerName string) (map[string]float64, error) {
	if cached, ok := s.cache.Get(providerName); ok {
		return cached, nil
	}

	s.mu.RLock()
	provider, exists := s.providers[providerName]
	s.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("exchange provider %s not found", providerName)
	}

	rates, err := provider.GetRates(ctx, s.base)
	if err != nil {
		return nil, err
	}

	s.cache.Set(providerName, rates)
	return copyRates(rates), nil
}

func (s *DefaultExchangeRateService) GetRatesWithFallback(ctx context.Context) (map[string]float64, string, error) {
	names := s.GetAvailableProviders()
	if len(names) == 0 {
		return nil, "", errors.New("no exchange providers registered")
	}

	var errs []error
	for i, name := range names {
		rates, err := s.GetRates(ctx, name)
		if err == nil {
			if i > 0 {
				slog.Warn("Using fallback exchange provider",
					"primary", names[0],
					"fallback", name,
					"error", errors.Join(errs...))
			}
			return rates, name, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}

	return nil, "", fmt.Errorf("all exchange providers failed: %w", errors.Join(errs...))
}

func (s *DefaultExchangeRateService) GetAvailableProviders() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

func (s *DefaultExchangeRateService) HealthCheck(ctx context.Context) map[string]error {
	failures := make(map[string]error)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for name, provider := range s.providers {
		if _, err := provider.GetRates(ctx, s.base); err != nil {
			failures[name] = err
		}
	}

	return failures
}

func (c *ExchangeRateCache) Get(key string) (map[string]float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, exists := c.rates[key]
	if !exists || time.Since(cached.timestamp) > c.ttl {
		return nil, false
	}

	return copyRates(cached.rates), true
}

func (c *ExchangeRateCache) Set(key string, rates map[string]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rates[key] = CachedRates{
		rates:     copyRates(rates),
		timestamp: time.Now(),
	}
}

func copyRates(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
