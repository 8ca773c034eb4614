package models

import "time"

type ListingResultModel struct {
	ID                  string `gorm:"primaryKey"`
	BatchID             string `gorm:"index"`
	ProductID           string `gorm:"index"`
	MarketplaceID       string
	Status              string
	Reason              string
	Message             string
	LocalPrice          float64
	Currency            string
	GrossProfitHome     *float64
	SubmissionReference string
	Warnings            string
	CreatedAt           time.Time
}

func (ListingResultModel) TableName() string { return "listing_results" }
