package background

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
)

type RatesSource interface {
	GetRatesWithFallback(ctx context.Context) (map[string]float64, string, error)
}

// MasterDataTarget is the live lookup the tasks keep current.
type MasterDataTarget interface {
	Replace(data domain.MasterData)
	SetExchangeRates(rates map[string]float64)
}

type RateStore interface {
	SaveExchangeRates(rates map[string]float64) error
}

type RefreshMetrics interface {
	RecordRateRefresh(provider string, ok bool)
}

type BackgroundTasks struct {
	Rates          RatesSource
	Repo           domain.MasterDataRepository
	Store          RateStore
	Target         MasterDataTarget
	Metrics        RefreshMetrics
	RateInterval   time.Duration
	ReloadInterval time.Duration
}

func NewBackgroundTasks(rates RatesSource, repo domain.MasterDataRepository, store RateStore, target MasterDataTarget, metrics RefreshMetrics, rateInterval, reloadInterval time.Duration) *BackgroundTasks {
	return &BackgroundTasks{
		Rates:          rates,
		Repo:           repo,
		Store:          store,
		Target:         target,
		Metrics:        metrics,
		RateInterval:   rateInterval,
		ReloadInterval: reloadInterval,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	if bt.RateInterval > 0 {
		go bt.startRatesRefresh(ctx)
	}
	if bt.ReloadInterval > 0 {
		go bt.startMasterDataReload(ctx)
	}
}

func (bt *BackgroundTasks) startRatesRefresh(ctx context.Context) {
	ticker := time.NewTicker(bt.RateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.RefreshRates(ctx); err != nil {
				slog.Error("exchange rates refresh failed", "error", err)
			}
		}
	}
}

func (bt *BackgroundTasks) startMasterDataReload(ctx context.Context) {
	ticker := time.NewTicker(bt.ReloadInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.ReloadMasterData(); err != nil {
				slog.Error("master data reload failed", "error", err)
			}
		}
	}
}

// RefreshRates pulls rates through the provider chain and swaps them into the
// lookup. Rates from a live provider are persisted for the stored fallback.
func (bt *BackgroundTasks) RefreshRates(ctx context.Context) error {
	rates, provider, err := bt.Rates.GetRatesWithFallback(ctx)
	if bt.Metrics != nil {
		bt.Metrics.RecordRateRefresh(provider, err == nil)
	}
	if err != nil {
		return err
	}

	bt.Target.SetExchangeRates(rates)
	slog.Info("exchange rates updated", "provider", provider, "currencies", len(rates))

	if bt.Store != nil && provider != "postgres" {
		if err := bt.Store.SaveExchangeRates(rates); err != nil {
			return fmt.Errorf("persist exchange rates: %w", err)
		}
	}
	return nil
}

// ReloadMasterData replaces every table of the lookup with the stored rows.
func (bt *BackgroundTasks) ReloadMasterData() error {
	data, err := bt.Repo.LoadMasterData()
	if err != nil {
		return err
	}
	bt.Target.Replace(*data)
	slog.Info("master data reloaded",
		"fee_profiles", len(data.FeeProfiles),
		"shipping_countries", len(data.Shipping),
		"exchange_rates", len(data.ExchangeRates),
	)
	return nil
}
