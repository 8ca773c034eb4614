package mappers

import (
	"strings"
	"time"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
	"github.com/LavaJover/shvark-listing-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
)

func ToGORMListingResult(batchID string, result domain.ExecutionResult, at time.Time) *models.ListingResultModel {
	return &models.ListingResultModel{
		ID:                  uuid.New().String(),
		BatchID:             batchID,
		ProductID:           result.ProductID,
		MarketplaceID:       result.MarketplaceID,
		Status:              string(result.Status),
		Reason:              string(result.Reason),
		Message:             result.Message,
		LocalPrice:          result.LocalPrice,
		Currency:            result.Currency,
		GrossProfitHome:     result.GrossProfitHome,
		SubmissionReference: result.SubmissionReference,
		Warnings:            strings.Join(result.Warnings, "\n"),
		CreatedAt:           at,
	}
}
