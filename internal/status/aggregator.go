package status

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/vitals-bot/internal/baseline"
	"github.com/selivandex/vitals-bot/internal/threshold"
	"github.com/selivandex/vitals-bot/pkg/logger"
	"github.com/selivandex/vitals-bot/pkg/models"
)

// SeriesSource provides per-metric daily series for a user. Implemented by
// metrics.SeriesProvider in production and by fakes in tests.
type SeriesSource interface {
	GetMetricSeries(ctx context.Context, userID int64, metric string, from, to time.Time) (models.MetricSeries, error)
}

// Aggregator is the engine's public surface: it evaluates a set of metrics
// for one (user, day) and assembles the per-metric records the
// interpretation layer consumes.
type Aggregator struct {
	series SeriesSource
	calc   *baseline.Calculator
	engine *threshold.Engine
}

// NewAggregator creates new status aggregator
func NewAggregator(series SeriesSource, calc *baseline.Calculator, engine *threshold.Engine) *Aggregator {
	return &Aggregator{
		series: series,
		calc:   calc,
		engine: engine,
	}
}

// EvaluateDailyStatus evaluates every requested metric for the given day and
// returns a record per metric, keyed by metric name. Metrics are evaluated
// independently: a store failure or rejected request for one metric yields
// an unavailable record for that metric and never aborts its siblings.
func (a *Aggregator) EvaluateDailyStatus(ctx context.Context, userID int64, day time.Time, requests []models.MetricRequest) (map[string]models.MetricStatusRecord, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("no metric requests given")
	}

	target := models.Day(day)
	records := make(map[string]models.MetricStatusRecord, len(requests))

	for _, req := range requests {
		records[req.Metric] = a.evaluateMetric(ctx, userID, target, req)
	}

	return records, nil
}

func (a *Aggregator) evaluateMetric(ctx context.Context, userID int64, day time.Time, req models.MetricRequest) models.MetricStatusRecord {
	record := models.MetricStatusRecord{Metric: req.Metric}

	if req.WindowDays <= 0 {
		record.Unavailable = true
		record.Error = fmt.Sprintf("invalid window_days %d", req.WindowDays)
		return record
	}

	from := day.AddDate(0, 0, -(req.WindowDays - 1))

	series, err := a.series.GetMetricSeries(ctx, userID, req.Metric, from, day)
	if err != nil {
		logger.Warn("metric series unavailable",
			zap.String("metric", req.Metric),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		record.Unavailable = true
		record.Error = err.Error()
		return record
	}

	base, err := a.calc.Compute(series, day, req.WindowDays)
	if err != nil {
		record.Unavailable = true
		record.Error = err.Error()
		return record
	}
	record.Baseline = &base

	current := series.ValueOn(day)
	if current == nil {
		// Nothing was observed on the target day; baseline quality is
		// irrelevant because there is no value to classify.
		record.Status = models.StatusNoBaseline
		return record
	}
	record.Value = current

	cls, err := a.engine.Classify(*current, base, req.Policy)
	if err != nil {
		record.Unavailable = true
		record.Error = err.Error()
		return record
	}

	record.Status = cls.Status
	record.ZScore = cls.ZScore
	return record
}
