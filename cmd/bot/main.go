package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/vitals-bot/internal/adapters/config"
	"github.com/selivandex/vitals-bot/internal/adapters/database"
	"github.com/selivandex/vitals-bot/internal/adapters/provider"
	"github.com/selivandex/vitals-bot/internal/adapters/telegram"
	"github.com/selivandex/vitals-bot/internal/baseline"
	botpkg "github.com/selivandex/vitals-bot/internal/bot"
	"github.com/selivandex/vitals-bot/internal/health"
	"github.com/selivandex/vitals-bot/internal/medication"
	"github.com/selivandex/vitals-bot/internal/metrics"
	"github.com/selivandex/vitals-bot/internal/nutrition"
	"github.com/selivandex/vitals-bot/internal/observations"
	"github.com/selivandex/vitals-bot/internal/reports"
	"github.com/selivandex/vitals-bot/internal/status"
	"github.com/selivandex/vitals-bot/internal/threshold"
	"github.com/selivandex/vitals-bot/internal/trends"
	"github.com/selivandex/vitals-bot/internal/users"
	"github.com/selivandex/vitals-bot/internal/workers"
	"github.com/selivandex/vitals-bot/pkg/logger"
	"github.com/selivandex/vitals-bot/pkg/worker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("vitals-bot starting...")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db.Conn(), "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	usersRepo := users.NewRepository(db.DB())
	obsRepo := observations.NewRepository(db.DB())
	nutritionRepo := nutrition.NewRepository(db.DB())
	medicationRepo := medication.NewRepository(db.DB())

	// Evaluation engine
	registry := metrics.DefaultRegistry()
	seriesProvider := metrics.NewSeriesProvider(obsRepo, registry)
	aggregator := status.NewAggregator(seriesProvider, baseline.NewCalculator(), threshold.NewEngine())

	// Provider sync
	var syncWorker *workers.SyncWorker
	if cfg.Provider.Enabled {
		client := provider.NewClient(&cfg.Provider)
		syncWorker = workers.NewSyncWorker(usersRepo, obsRepo, client, cfg.Provider.SyncDepth)

		periodic := worker.NewPeriodicWorker(syncWorker, cfg.Provider.SyncInterval)
		periodic.Start(ctx)
		defer periodic.Stop(10 * time.Second)
	} else {
		logger.Warn("provider sync disabled, relying on existing observations")
	}

	// Health endpoints
	healthServer := health.NewServer(cfg.Health.Port, db)
	healthServer.Start(ctx)

	// Telegram front-end
	handler := botpkg.NewHandler(
		usersRepo,
		aggregator,
		seriesProvider,
		trends.NewCalculator(),
		nutritionRepo,
		medicationRepo,
		reports.NewGenerator(),
		syncWorker,
		cfg.Baseline,
	)

	tgBot, err := telegram.NewBot(&cfg.Telegram, handler)
	if err != nil {
		return fmt.Errorf("failed to create telegram bot: %w", err)
	}

	go func() {
		if err := tgBot.Start(ctx); err != nil && err != context.Canceled {
			logger.Error("telegram bot error", zap.Error(err))
		}
	}()

	logger.Info("vitals-bot ready",
		zap.Int("metrics", len(registry)),
		zap.Bool("provider_sync", cfg.Provider.Enabled),
	)

	<-ctx.Done()
	logger.Info("shutting down gracefully...")

	return nil
}
