package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-listing-service/internal/app/background"
	"github.com/LavaJover/shvark-listing-service/internal/app/setup"
	"github.com/LavaJover/shvark-listing-service/internal/config"
	"github.com/LavaJover/shvark-listing-service/internal/delivery/mq"
	"github.com/LavaJover/shvark-listing-service/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	// Logger
	slogger, logCloser, err := logger.SetupLogger(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database, kafka, metrics
	deps, err := setup.InitializeDependencies(cfg, slogger)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}
	defer deps.Publisher.Close()

	// Use cases
	ucs, err := setup.InitializeUseCases(deps)
	if err != nil {
		log.Fatalf("failed to init usecases: %v", err)
	}

	// Background tasks
	tasks := background.NewBackgroundTasks(
		ucs.ExchangeRateService,
		deps.Repositories.MasterDataRepo,
		deps.Repositories.MasterDataRepo,
		ucs.MasterDataLookup,
		deps.Metrics,
		cfg.ExchangeRates.RefreshInterval,
		cfg.MasterData.ReloadInterval,
	)
	if err := tasks.RefreshRates(ctx); err != nil {
		slog.Warn("initial exchange rates refresh failed, using stored rates", "error", err)
	}
	tasks.StartAll(ctx)

	// Metrics and health
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{Registry: deps.Registry}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := deps.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("http server started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to serve http: %v", err)
		}
	}()

	// Batch consumer
	handler := mq.NewBatchHandler(
		ucs.ListingUsecase,
		deps.Subscriber,
		deps.Publisher,
		deps.ResultLogger,
		deps.Metrics,
		mq.Topics{
			Jobs:          cfg.KafkaService.JobsTopic,
			Results:       cfg.KafkaService.ResultsTopic,
			ConsumerGroup: cfg.KafkaService.ConsumerGroup,
		},
		slogger,
	)
	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("batch consumer stopped", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown", "error", err)
	}
	slog.Info("listing service stopped")
}
