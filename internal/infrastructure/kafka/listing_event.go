package publisher

import (
	"time"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
)

// ListingResultEvent is published once per execution result.
type ListingResultEvent struct {
	BatchID             string                 `json:"batch_id"`
	ProductID           string                 `json:"product_id"`
	MarketplaceID       string                 `json:"marketplace_id"`
	Status              domain.ExecutionStatus `json:"status"`
	Reason              domain.Reason          `json:"reason,omitempty"`
	Message             string                 `json:"message"`
	LocalPrice          float64                `json:"local_price,omitempty"`
	Currency            string                 `json:"currency,omitempty"`
	GrossProfitHome     *float64               `json:"gross_profit_home,omitempty"`
	SubmissionReference string                 `json:"submission_reference,omitempty"`
	Warnings            []string               `json:"warnings,omitempty"`
	Timestamp           time.Time              `json:"timestamp"`
}

func NewListingResultEvent(batchID string, r domain.ExecutionResult, at time.Time) ListingResultEvent {
	return ListingResultEvent{
		BatchID:             batchID,
		ProductID:           r.ProductID,
		MarketplaceID:       r.MarketplaceID,
		Status:              r.Status,
		Reason:              r.Reason,
		Message:             r.Message,
		LocalPrice:          r.LocalPrice,
		Currency:            r.Currency,
		GrossProfitHome:     r.GrossProfitHome,
		SubmissionReference: r.SubmissionReference,
		Warnings:            r.Warnings,
		Timestamp:           at,
	}
}
