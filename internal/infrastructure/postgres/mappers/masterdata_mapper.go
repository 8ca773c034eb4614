package mappers

import (
	"strings"
	"time"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
	"github.com/LavaJover/shvark-listing-service/internal/infrastructure/postgres/models"
)

func ToDomainFeeProfile(model *models.FeeProfileModel) domain.FeeProfile {
	return domain.FeeProfile{
		SalesFeeRate:   model.SalesFeeRate,
		PaymentFeeRate: model.PaymentFeeRate,
		FixedFee:       model.FixedFee,
		MinSalesFee:    model.MinSalesFee,
		Currency:       model.Currency,
	}
}

func ToDomainShippingEntry(model *models.ShippingRateModel) domain.ShippingCostEntry {
	return domain.ShippingCostEntry{
		CountryCode: model.CountryCode,
		MinWeightG:  model.MinWeightG,
		MaxWeightG:  model.MaxWeightG,
		CostHome:    model.CostHome,
	}
}

func ToGORMExchangeRates(rates map[string]float64, at time.Time) []models.ExchangeRateModel {
	out := make([]models.ExchangeRateModel, 0, len(rates))
	for code, rate := range rates {
		out = append(out, models.ExchangeRateModel{
			Currency:  strings.ToUpper(code),
			Rate:      rate,
			UpdatedAt: at,
		})
	}
	return out
}
