// Package pricing derives the local sale price that yields a cost-plus profit
// target after marketplace fees and currency conversion.
//
// The price is computed once from the closed-form formula, rounded to the
// target currency's minor unit, and the profit is then re-derived from the
// rounded price. Only the re-derived profit is reported.
package pricing

import (
	"fmt"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places of a local price.
const PriceScale = 2

var (
	one  = decimal.NewFromInt(1)
	half = decimal.New(5, -1)
)

type Input struct {
	LandedCostHome float64
	Fees           domain.FeeProfile
	ExchangeRate   float64
	// TargetProfit is a fraction of landed cost. Negative values price at a loss.
	TargetProfit float64
}

type Quote struct {
	TheoreticalPrice float64
	LocalPrice       float64
	FeesLocal        float64
	NetRevenueLocal  float64
	GrossProfitHome  float64
}

// LandedCost sums procurement, fulfillment and shipping cost in home currency.
func LandedCost(costPrice, fulfillmentCost, shippingCost float64) float64 {
	return decimal.NewFromFloat(costPrice).
		Add(decimal.NewFromFloat(fulfillmentCost)).
		Add(decimal.NewFromFloat(shippingCost)).
		InexactFloat64()
}

// Compute returns the rounded local price and the profit realized at that price.
// It fails with domain.ErrPricingInfeasible when the percentage fees consume
// the whole sale price or the exchange rate is not positive.
func Compute(in Input) (Quote, error) {
	rate := decimal.NewFromFloat(in.ExchangeRate)
	if !rate.IsPositive() {
		return Quote{}, fmt.Errorf("%w: exchange rate %v is not positive", domain.ErrPricingInfeasible, in.ExchangeRate)
	}

	feeRate := decimal.NewFromFloat(in.Fees.SalesFeeRate).Add(decimal.NewFromFloat(in.Fees.PaymentFeeRate))
	keep := one.Sub(feeRate)
	if !keep.IsPositive() {
		return Quote{}, fmt.Errorf("%w: fee rate total %s leaves no revenue", domain.ErrPricingInfeasible, feeRate.String())
	}

	landed := decimal.NewFromFloat(in.LandedCostHome)
	target := landed.Mul(rate).Mul(one.Add(decimal.NewFromFloat(in.TargetProfit)))
	theoretical := target.Add(decimal.NewFromFloat(in.Fees.FixedFee)).Div(keep)

	price := roundHalfUp(theoretical, PriceScale)
	fees := realizedFees(price, in.Fees)
	net := price.Sub(fees)
	profit := net.Div(rate).Sub(landed)

	return Quote{
		TheoreticalPrice: theoretical.InexactFloat64(),
		LocalPrice:       price.InexactFloat64(),
		FeesLocal:        fees.InexactFloat64(),
		NetRevenueLocal:  net.InexactFloat64(),
		GrossProfitHome:  roundHalfUp(profit, PriceScale).InexactFloat64(),
	}, nil
}

// RealizedProfitHome is the home-currency profit of selling at localPrice.
func RealizedProfitHome(localPrice, landedCostHome, exchangeRate float64, fees domain.FeeProfile) float64 {
	price := decimal.NewFromFloat(localPrice)
	net := price.Sub(realizedFees(price, fees))
	return net.Div(decimal.NewFromFloat(exchangeRate)).
		Sub(decimal.NewFromFloat(landedCostHome)).
		InexactFloat64()
}

// ConvertHome converts a home-currency amount into the target currency, rounded to PriceScale.
func ConvertHome(amountHome, exchangeRate float64) float64 {
	converted := decimal.NewFromFloat(amountHome).Mul(decimal.NewFromFloat(exchangeRate))
	return roundHalfUp(converted, PriceScale).InexactFloat64()
}

// realizedFees is what the marketplace deducts at price. A positive MinSalesFee
// floors the sales commission.
func realizedFees(price decimal.Decimal, p domain.FeeProfile) decimal.Decimal {
	sales := price.Mul(decimal.NewFromFloat(p.SalesFeeRate))
	if p.MinSalesFee > 0 {
		sales = decimal.Max(sales, decimal.NewFromFloat(p.MinSalesFee))
	}
	payment := price.Mul(decimal.NewFromFloat(p.PaymentFeeRate))
	return sales.Add(payment).Add(decimal.NewFromFloat(p.FixedFee))
}

func roundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Shift(places).Add(half).Floor().Shift(-places)
}
