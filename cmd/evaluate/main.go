package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/selivandex/vitals-bot/internal/adapters/config"
	"github.com/selivandex/vitals-bot/internal/adapters/database"
	"github.com/selivandex/vitals-bot/internal/baseline"
	"github.com/selivandex/vitals-bot/internal/metrics"
	"github.com/selivandex/vitals-bot/internal/observations"
	"github.com/selivandex/vitals-bot/internal/status"
	"github.com/selivandex/vitals-bot/internal/threshold"
	"github.com/selivandex/vitals-bot/pkg/logger"
	"github.com/selivandex/vitals-bot/pkg/models"
)

// One-off daily evaluation against stored observations, without the bot.
func main() {
	userID := flag.Int64("user", 0, "user ID to evaluate")
	dateStr := flag.String("date", "", "day to evaluate (YYYY-MM-DD, default today)")
	windowOverride := flag.Int("window", 0, "override every metric's window days (0 keeps per-metric defaults)")
	flag.Parse()

	if err := run(*userID, *dateStr, *windowOverride); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(userID int64, dateStr string, windowOverride int) error {
	if userID == 0 {
		return fmt.Errorf("-user is required")
	}

	day := models.Day(time.Now())
	if dateStr != "" {
		parsed, err := models.ParseDay(dateStr)
		if err != nil {
			return fmt.Errorf("could not parse -date %q: %w", dateStr, err)
		}
		day = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init("warn", ""); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	registry := metrics.DefaultRegistry()
	seriesProvider := metrics.NewSeriesProvider(observations.NewRepository(db.DB()), registry)
	aggregator := status.NewAggregator(seriesProvider, baseline.NewCalculator(), threshold.NewEngine())

	requests := metrics.RequestsFromRegistry(registry, cfg.Baseline.OptimalBoundary, cfg.Baseline.WarningBoundary)
	if windowOverride > 0 {
		for i := range requests {
			requests[i].WindowDays = windowOverride
		}
	}

	records, err := aggregator.EvaluateDailyStatus(context.Background(), userID, day, requests)
	if err != nil {
		return err
	}

	fmt.Printf("Daily status for user %d on %s\n\n", userID, models.FormatDay(day))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE\tBASELINE\tSAMPLES\tZ\tSTATUS")

	seriesProviderMetrics := seriesProvider.Metrics()
	for _, metric := range seriesProviderMetrics {
		record, ok := records[metric]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			metric,
			formatPtr(record.Value),
			formatBaseline(record.Baseline),
			formatCount(record.Baseline),
			formatPtr(record.ZScore),
			formatStatus(record),
		)
	}

	return w.Flush()
}

func formatPtr(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatBaseline(b *models.Baseline) string {
	if b == nil || b.Mean == nil {
		return "-"
	}
	if b.StdDev == nil {
		return fmt.Sprintf("%.2f", *b.Mean)
	}
	return fmt.Sprintf("%.2f ±%.2f", *b.Mean, *b.StdDev)
}

func formatCount(b *models.Baseline) string {
	if b == nil {
		return "-"
	}
	return fmt.Sprintf("%d/%d", b.SampleCount, b.WindowDays)
}

func formatStatus(record models.MetricStatusRecord) string {
	if record.Unavailable {
		return fmt.Sprintf("unavailable (%s)", record.Error)
	}
	return string(record.Status)
}
