package metrics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/selivandex/vitals-bot/pkg/models"
)

// Store is the read-only slice of the observation store the extractor needs.
type Store interface {
	ListByCategory(ctx context.Context, userID int64, category models.DataCategory, from, to time.Time) ([]models.Observation, error)
}

// SeriesProvider turns raw stored observations into per-metric daily series.
type SeriesProvider struct {
	store    Store
	registry map[string]Definition
}

// NewSeriesProvider creates new series provider
func NewSeriesProvider(store Store, registry map[string]Definition) *SeriesProvider {
	return &SeriesProvider{
		store:    store,
		registry: registry,
	}
}

// Definition returns the declared definition for a metric name.
func (p *SeriesProvider) Definition(metric string) (Definition, bool) {
	def, ok := p.registry[metric]
	return def, ok
}

// Metrics returns all registered metric names, sorted.
func (p *SeriesProvider) Metrics() []string {
	names := make([]string, 0, len(p.registry))
	for name := range p.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetMetricSeries builds the ordered daily series for one metric over an
// inclusive day range. A day appears in the series when any source category
// has an observation for it; the sample value is the first successful
// extraction in source priority order, or absent when no source yields one.
func (p *SeriesProvider) GetMetricSeries(ctx context.Context, userID int64, metric string, from, to time.Time) (models.MetricSeries, error) {
	def, ok := p.registry[metric]
	if !ok {
		return models.MetricSeries{}, fmt.Errorf("unknown metric %q", metric)
	}

	samples := make(map[time.Time]*float64)

	for _, source := range def.Sources {
		observations, err := p.store.ListByCategory(ctx, userID, source.Category, from, to)
		if err != nil {
			return models.MetricSeries{}, fmt.Errorf("failed to load %s observations: %w", source.Category, err)
		}

		for _, obs := range observations {
			day := models.Day(obs.Day)
			value := Extract(obs.Payload, source.Path)

			existing, seen := samples[day]
			if !seen {
				samples[day] = value
				continue
			}
			// A higher-priority source already produced a value for this
			// day; lower-priority sources never override it.
			if existing == nil && value != nil {
				samples[day] = value
			}
		}
	}

	days := make([]time.Time, 0, len(samples))
	for day := range samples {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	series := models.MetricSeries{
		UserID:  userID,
		Metric:  metric,
		Samples: make([]models.MetricSample, 0, len(days)),
	}
	for _, day := range days {
		series.Samples = append(series.Samples, models.MetricSample{
			Day:   day,
			Value: samples[day],
		})
	}

	return series, nil
}
