package setup

import (
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-listing-service/internal/config"
	publisher "github.com/LavaJover/shvark-listing-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-listing-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-listing-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-listing-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-listing-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-listing-service/internal/infrastructure/postgres/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config       *config.ListingConfig
	DB           *gorm.DB
	Logger       *slog.Logger
	Registry     *prometheus.Registry
	Metrics      *metrics.ListingMetrics
	Publisher    *publisher.DefaultKafkaPublisher
	Subscriber   *publisher.DefaultKafkaSubscriber
	ResultLogger *logger.PGResultLogger
	Repositories *Repositories
}

type Repositories struct {
	MasterDataRepo *repository.DefaultMasterDataRepository
}

func InitializeDependencies(cfg *config.ListingConfig, log *slog.Logger) (*Dependencies, error) {
	db := postgres.MustInitDB(cfg)

	if err := migrate.RunMigrations(db, cfg.ListingDB.MigrationsPath); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}

	return &Dependencies{
		Config:       cfg,
		DB:           db,
		Logger:       log,
		Registry:     registry,
		Metrics:      metrics.NewListingMetrics(registry),
		Publisher:    publisher.NewDefaultKafkaPublisher(brokers),
		Subscriber:   publisher.NewDefaultKafkaSubscriber(brokers),
		ResultLogger: logger.NewPGResultLogger(db),
		Repositories: &Repositories{
			MasterDataRepo: repository.NewDefaultMasterDataRepository(db),
		},
	}, nil
}
