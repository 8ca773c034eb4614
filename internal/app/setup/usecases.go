package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-listing-service/internal/client"
	"github.com/LavaJover/shvark-listing-service/internal/config"
	infrastructure "github.com/LavaJover/shvark-listing-service/internal/infrastructure/exchange_providers"
	"github.com/LavaJover/shvark-listing-service/internal/usecase"
	"github.com/LavaJover/shvark-listing-service/internal/usecase/listing"
	"github.com/LavaJover/shvark-listing-service/internal/usecase/mapper"
	"github.com/LavaJover/shvark-listing-service/internal/usecase/masterdata"
)

type UseCases struct {
	ListingUsecase      *listing.DefaultListingUsecase
	ExchangeRateService *usecase.DefaultExchangeRateService
	MasterDataLookup    *masterdata.Lookup
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	cfg := deps.Config

	data, err := deps.Repositories.MasterDataRepo.LoadMasterData()
	if err != nil {
		return nil, fmt.Errorf("initial master data: %w", err)
	}
	lookup := masterdata.NewLookup(*data, fallbacks(cfg), deps.Logger, deps.Metrics)

	exchangeRateService := usecase.NewDefaultExchangeRateService(cfg.Pricing.HomeCurrency, cfg.ExchangeRates.CacheTTL)
	if cfg.ExchangeRates.ProviderURL != "" {
		exchangeRateService.RegisterProvider(infrastructure.NewHTTPRatesProvider(cfg.ExchangeRates.ProviderURL))
	}
	exchangeRateService.RegisterProvider(infrastructure.NewStoredRatesProvider(deps.Repositories.MasterDataRepo))

	marketplaceClient, err := initMarketplaceClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("marketplace client: %w", err)
	}

	listingUsecase := listing.NewDefaultListingUsecase(
		lookup,
		mapper.NewRegistry(mapper.CategoryTable(cfg.Categories)),
		marketplaceClient,
		deps.Metrics,
		deps.Logger,
		listing.Options{
			HomeCurrency:        cfg.Pricing.HomeCurrency,
			FulfillmentCost:     cfg.Pricing.FulfillmentCost,
			DefaultTargetProfit: cfg.Pricing.DefaultTargetProfit,
			Workers:             cfg.Orchestrator.Workers,
			CallTimeout:         cfg.Orchestrator.CallTimeout,
			CallInterval:        cfg.Orchestrator.CallInterval,
		},
	)

	return &UseCases{
		ListingUsecase:      listingUsecase,
		ExchangeRateService: exchangeRateService,
		MasterDataLookup:    lookup,
	}, nil
}

func fallbacks(cfg *config.ListingConfig) masterdata.Fallbacks {
	f := cfg.MasterData.Fallbacks
	return masterdata.Fallbacks{
		HomeCurrency:        cfg.Pricing.HomeCurrency,
		SalesFeeRate:        f.SalesFeeRate,
		PaymentFeeRate:      f.PaymentFeeRate,
		FixedFee:            f.FixedFee,
		ShippingCeilingCost: f.ShippingCeilingCost,
		ExchangeRate:        f.ExchangeRate,
		Country:             f.Country,
	}
}

func initMarketplaceClient(cfg *config.ListingConfig) (*client.HTTPMarketplaceClient, error) {
	endpoints := make(map[string]client.Endpoint, len(cfg.Marketplaces))
	for id, ep := range cfg.Marketplaces {
		endpoints[id] = client.Endpoint{URL: ep.URL, Token: ep.Token}
	}
	// The orchestrator enforces the per-call timeout; the transport limit is a backstop.
	return client.NewHTTPMarketplaceClient(endpoints, 2*cfg.Orchestrator.CallTimeout)
}
