package models

import "time"

type FeeProfileModel struct {
	MarketplaceID  string `gorm:"primaryKey"`
	SalesFeeRate   float64
	PaymentFeeRate float64
	FixedFee       float64
	MinSalesFee    float64
	Currency       string
	UpdatedAt      time.Time
}

func (FeeProfileModel) TableName() string { return "fee_profiles" }

type ShippingRateModel struct {
	ID          uint   `gorm:"primaryKey"`
	CountryCode string `gorm:"index"`
	MinWeightG  int
	MaxWeightG  int
	CostHome    float64
}

func (ShippingRateModel) TableName() string { return "shipping_rates" }

type ExchangeRateModel struct {
	Currency  string `gorm:"primaryKey"`
	Rate      float64
	UpdatedAt time.Time
}

func (ExchangeRateModel) TableName() string { return "exchange_rates" }

type MarketplaceCountryModel struct {
	MarketplaceID string `gorm:"primaryKey"`
	CountryCode   string
}

func (MarketplaceCountryModel) TableName() string { return "marketplace_countries" }
