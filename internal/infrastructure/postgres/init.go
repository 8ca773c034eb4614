package postgres

import (
	"log"

	"github.com/LavaJover/shvark-listing-service/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MustInitDB opens the listing database. Schema comes from the migrations.
func MustInitDB(cfg *config.ListingConfig) *gorm.DB {
	dsn := cfg.ListingDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	return db
}
