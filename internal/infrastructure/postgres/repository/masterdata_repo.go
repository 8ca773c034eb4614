package repository

import (
	"fmt"
	"time"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
	"github.com/LavaJover/shvark-listing-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-listing-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultMasterDataRepository struct {
	DB *gorm.DB
}

func NewDefaultMasterDataRepository(db *gorm.DB) *DefaultMasterDataRepository {
	return &DefaultMasterDataRepository{
		DB: db,
	}
}

func (r *DefaultMasterDataRepository) LoadMasterData() (*domain.MasterData, error) {
	var feeModels []*models.FeeProfileModel
	if err := r.DB.Find(&feeModels).Error; err != nil {
		return nil, fmt.Errorf("load fee profiles: %w", err)
	}

	var shippingModels []*models.ShippingRateModel
	if err := r.DB.Order("country_code").Order("min_weight_g").Find(&shippingModels).Error; err != nil {
		return nil, fmt.Errorf("load shipping rates: %w", err)
	}

	rates, err := r.LoadExchangeRates()
	if err != nil {
		return nil, err
	}

	var countryModels []*models.MarketplaceCountryModel
	if err := r.DB.Find(&countryModels).Error; err != nil {
		return nil, fmt.Errorf("load marketplace countries: %w", err)
	}

	data := &domain.MasterData{
		FeeProfiles:   make(map[string]domain.FeeProfile, len(feeModels)),
		Shipping:      make(map[string][]domain.ShippingCostEntry),
		ExchangeRates: rates,
		Countries:     make(map[string]string, len(countryModels)),
	}
	for _, m := range feeModels {
		data.FeeProfiles[m.MarketplaceID] = mappers.ToDomainFeeProfile(m)
	}
	for _, m := range shippingModels {
		data.Shipping[m.CountryCode] = append(data.Shipping[m.CountryCode], mappers.ToDomainShippingEntry(m))
	}
	for _, m := range countryModels {
		data.Countries[m.MarketplaceID] = m.CountryCode
	}

	return data, nil
}

func (r *DefaultMasterDataRepository) LoadExchangeRates() (map[string]float64, error) {
	var rateModels []*models.ExchangeRateModel
	if err := r.DB.Find(&rateModels).Error; err != nil {
		return nil, fmt.Errorf("load exchange rates: %w", err)
	}

	rates := make(map[string]float64, len(rateModels))
	for _, m := range rateModels {
		rates[m.Currency] = m.Rate
	}
	return rates, nil
}

// SaveExchangeRates upserts rates keyed by currency code.
func (r *DefaultMasterDataRepository) SaveExchangeRates(rates map[string]float64) error {
	if len(rates) == 0 {
		return nil
	}
	rows := mappers.ToGORMExchangeRates(rates, time.Now())
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "currency"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate", "updated_at"}),
	}).Create(&rows).Error
}
