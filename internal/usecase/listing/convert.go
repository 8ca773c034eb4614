package listing

import (
	"fmt"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
	"github.com/LavaJover/shvark-listing-service/internal/usecase/mapper"
	"github.com/LavaJover/shvark-listing-service/internal/usecase/pricing"
)

// Convert prices product for marketplaceID and shapes its payload. It depends
// only on its arguments and the usecase options, so equal inputs give equal results.
func (uc *DefaultListingUsecase) Convert(md domain.MasterDataProvider, product domain.Product, marketplaceID string, targetProfit float64) domain.ConversionResult {
	fees := md.FeeProfile(marketplaceID)
	country := md.CountryForMarketplace(marketplaceID)
	shipping := md.ShippingCost(product.WeightG, country.Value)
	rate := md.ExchangeRate(fees.Value.Currency)

	conv := domain.ConversionResult{
		MarketplaceID: marketplaceID,
		Currency:      rate.Value.Currency,
		Payload:       domain.Payload{},
		Errors:        []string{},
	}

	if fees.Fallback {
		conv.Warnings = append(conv.Warnings, fmt.Sprintf("fee profile for %s not configured; default fee schedule applied", marketplaceID))
	}
	if country.Fallback {
		conv.Warnings = append(conv.Warnings, fmt.Sprintf("ship-to country for %s not configured; %s assumed", marketplaceID, country.Value))
	}
	if shipping.Fallback {
		conv.Warnings = append(conv.Warnings, fmt.Sprintf("no shipping bracket for %d g to %s; ceiling cost %.2f applied", product.WeightG, country.Value, shipping.Value))
	}
	if rate.Value.LowConfidence {
		conv.Warnings = append(conv.Warnings, fmt.Sprintf("exchange rate for %s unknown; low-confidence fallback %g applied", rate.Value.Currency, rate.Value.Rate))
	}

	landed := pricing.LandedCost(product.CostPrice, uc.opts.FulfillmentCost, shipping.Value)
	quote, err := pricing.Compute(pricing.Input{
		LandedCostHome: landed,
		Fees:           fees.Value,
		ExchangeRate:   rate.Value.Rate,
		TargetProfit:   targetProfit,
	})
	if err != nil {
		conv.Infeasible = true
		conv.Errors = append(conv.Errors, err.Error())
		return conv
	}

	conv.LocalPrice = quote.LocalPrice
	conv.GrossProfitHome = quote.GrossProfitHome
	conv.ShippingLocal = pricing.ConvertHome(shipping.Value, rate.Value.Rate)

	payload, errs := uc.Mappers.Map(marketplaceID, mapper.Input{
		Product:       product,
		LocalPrice:    conv.LocalPrice,
		Currency:      conv.Currency,
		ShippingLocal: conv.ShippingLocal,
	})
	if payload != nil {
		conv.Payload = payload
	}
	conv.Errors = append(conv.Errors, errs...)

	return conv
}
