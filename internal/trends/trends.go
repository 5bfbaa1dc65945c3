package trends

import (
	"fmt"
	"math"
	"time"

	"github.com/cinar/indicator"

	"github.com/selivandex/vitals-bot/pkg/models"
)

// Default smoothing window for the /trends report.
const DefaultPeriod = 7

// Point is one day of a rolling statistic.
type Point struct {
	Day   time.Time
	Value float64
}

// Direction labels where a smoothed metric is heading. Neutral on purpose:
// whether rising is good depends on the metric's directionality, which the
// report layer resolves.
type Direction string

const (
	Rising  Direction = "rising"
	Falling Direction = "falling"
	Flat    Direction = "flat"
)

// Summary describes the recent movement of one metric.
type Summary struct {
	Metric    string
	Period    int
	Average   float64 // rolling average on the latest day
	Direction Direction
}

// Calculator derives rolling trend statistics from metric series.
type Calculator struct{}

// NewCalculator creates new trends calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Rolling computes a period-day simple moving average over the series'
// non-absent values. Absent days are skipped, matching how the provider
// reports gaps. Points before the warmup period are dropped.
func (c *Calculator) Rolling(series models.MetricSeries, period int) ([]Point, error) {
	if period < 1 {
		return nil, fmt.Errorf("period must be at least 1, got %d", period)
	}

	days, values := compact(series)
	if len(values) < period {
		return nil, fmt.Errorf("insufficient data for %d-day rolling average (have %d)", period, len(values))
	}

	sma := indicator.Sma(period, values)

	points := make([]Point, 0, len(sma)-period+1)
	for i := period - 1; i < len(sma); i++ {
		points = append(points, Point{Day: days[i], Value: sma[i]})
	}
	return points, nil
}

// Summarize computes the latest rolling average and its direction, comparing
// the smoothed value against one period earlier.
func (c *Calculator) Summarize(series models.MetricSeries, period int) (Summary, error) {
	_, values := compact(series)
	if len(values) < period+1 {
		return Summary{}, fmt.Errorf("insufficient data to summarize %s (have %d, need %d)", series.Metric, len(values), period+1)
	}

	ema := indicator.Ema(period, values)
	latest := ema[len(ema)-1]
	earlier := ema[len(ema)-1-period]

	summary := Summary{
		Metric: series.Metric,
		Period: period,
	}

	// A 2% relative band counts as flat so sensor noise does not flap the
	// arrow between reports.
	band := 0.02 * math.Abs(earlier)
	switch {
	case latest > earlier+band:
		summary.Direction = Rising
	case latest < earlier-band:
		summary.Direction = Falling
	default:
		summary.Direction = Flat
	}

	// The plain SMA of the trailing period reads better in reports than the
	// EMA used for direction detection.
	sma := indicator.Sma(period, values)
	summary.Average = sma[len(sma)-1]

	return summary, nil
}

func compact(series models.MetricSeries) ([]time.Time, []float64) {
	days := make([]time.Time, 0, len(series.Samples))
	values := make([]float64, 0, len(series.Samples))
	for _, sample := range series.Samples {
		if sample.Value == nil {
			continue
		}
		days = append(days, sample.Day)
		values = append(values, *sample.Value)
	}
	return days, values
}
