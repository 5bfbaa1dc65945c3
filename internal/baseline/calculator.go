package baseline

import (
	"fmt"
	"math"
	"time"

	"github.com/selivandex/vitals-bot/pkg/models"
)

// Calculator computes rolling per-metric baselines from daily series.
// Stateless; every call recomputes from the series it is handed.
type Calculator struct{}

// NewCalculator creates new baseline calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Compute calculates mean, sample standard deviation and sample count over
// the trailing window [asOf-windowDays+1, asOf], both ends inclusive. The
// window is anchored to calendar days: missing days shrink the sample count
// but never shift the window.
//
// Mean is nil with zero in-window values; stddev is nil below two values
// because the N-1 estimator is undefined there. Neither case is an error.
func (c *Calculator) Compute(series models.MetricSeries, asOf time.Time, windowDays int) (models.Baseline, error) {
	if windowDays <= 0 {
		return models.Baseline{}, fmt.Errorf("window_days must be positive, got %d", windowDays)
	}

	end := models.Day(asOf)
	start := end.AddDate(0, 0, -(windowDays - 1))

	values := make([]float64, 0, windowDays)
	for _, sample := range series.Samples {
		if sample.Value == nil {
			continue
		}
		day := models.Day(sample.Day)
		if day.Before(start) || day.After(end) {
			continue
		}
		values = append(values, *sample.Value)
	}

	b := models.Baseline{
		Metric:      series.Metric,
		AsOf:        end,
		WindowDays:  windowDays,
		SampleCount: len(values),
	}

	if len(values) == 0 {
		return b, nil
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	b.Mean = &mean

	if len(values) < 2 {
		return b, nil
	}

	sumSquares := 0.0
	for _, v := range values {
		d := v - mean
		sumSquares += d * d
	}
	stddev := math.Sqrt(sumSquares / float64(len(values)-1))
	b.StdDev = &stddev

	return b, nil
}
