package logger

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-listing-service/internal/domain"
	"github.com/LavaJover/shvark-listing-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-listing-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

// ResultLogger keeps an audit row per execution result.
type ResultLogger interface {
	LogResults(ctx context.Context, batchID string, results []domain.ExecutionResult) error
}

type PGResultLogger struct {
	db *gorm.DB
}

func NewPGResultLogger(db *gorm.DB) *PGResultLogger {
	return &PGResultLogger{db: db}
}

func (l *PGResultLogger) LogResults(ctx context.Context, batchID string, results []domain.ExecutionResult) error {
	if len(results) == 0 {
		return nil
	}
	now := time.Now()
	rows := make([]*models.ListingResultModel, len(results))
	for i, r := range results {
		rows[i] = mappers.ToGORMListingResult(batchID, r, now)
	}
	return l.db.WithContext(ctx).CreateInBatches(rows, 100).Error
}
