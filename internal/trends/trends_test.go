package trends

import (
	"math"
	"testing"
	"time"

	"github.com/selivandex/vitals-bot/pkg/models"
)

func dailySeries(values []*float64) models.MetricSeries {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	series := models.MetricSeries{UserID: 1, Metric: "test_metric"}
	for i, v := range values {
		series.Samples = append(series.Samples, models.MetricSample{
			Day:   start.AddDate(0, 0, i),
			Value: v,
		})
	}
	return series
}

func ascending(n int) []*float64 {
	values := make([]*float64, n)
	for i := 0; i < n; i++ {
		values[i] = models.Float64(float64(i + 1))
	}
	return values
}

func TestCalculator_Rolling(t *testing.T) {
	calc := NewCalculator()

	points, err := calc.Rolling(dailySeries(ascending(10)), 3)
	if err != nil {
		t.Fatalf("Rolling failed: %v", err)
	}

	if len(points) != 8 {
		t.Fatalf("Expected 8 points after warmup, got %d", len(points))
	}

	// First full window averages 1,2,3; last averages 8,9,10.
	if math.Abs(points[0].Value-2.0) > 1e-9 {
		t.Errorf("Expected first rolling value 2.0, got %.4f", points[0].Value)
	}
	if math.Abs(points[len(points)-1].Value-9.0) > 1e-9 {
		t.Errorf("Expected last rolling value 9.0, got %.4f", points[len(points)-1].Value)
	}
}

func TestCalculator_RollingSkipsAbsentDays(t *testing.T) {
	calc := NewCalculator()

	values := []*float64{
		models.Float64(10), nil, models.Float64(20), nil, models.Float64(30),
	}
	points, err := calc.Rolling(dailySeries(values), 3)
	if err != nil {
		t.Fatalf("Rolling failed: %v", err)
	}

	if len(points) != 1 {
		t.Fatalf("Expected 1 point over 3 present values, got %d", len(points))
	}
	if math.Abs(points[0].Value-20.0) > 1e-9 {
		t.Errorf("Expected rolling value 20.0, got %.4f", points[0].Value)
	}
}

func TestCalculator_RollingInsufficientData(t *testing.T) {
	calc := NewCalculator()

	if _, err := calc.Rolling(dailySeries(ascending(2)), 7); err == nil {
		t.Error("Expected error with fewer values than the period")
	}
	if _, err := calc.Rolling(dailySeries(ascending(5)), 0); err == nil {
		t.Error("Expected error for non-positive period")
	}
}

func TestCalculator_Summarize(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name     string
		values   []*float64
		expected Direction
	}{
		{"steadily rising", ascending(10), Rising},
		{"steadily falling", reverse(ascending(10)), Falling},
		{"constant", repeat(50, 10), Flat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := calc.Summarize(dailySeries(tt.values), 3)
			if err != nil {
				t.Fatalf("Summarize failed: %v", err)
			}
			if summary.Direction != tt.expected {
				t.Errorf("Expected direction %s, got %s", tt.expected, summary.Direction)
			}
			if summary.Period != 3 {
				t.Errorf("Expected period 3, got %d", summary.Period)
			}
		})
	}
}

func reverse(values []*float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		out[i] = values[len(values)-1-i]
	}
	return out
}

func repeat(v float64, n int) []*float64 {
	out := make([]*float64, n)
	for i := range out {
		out[i] = models.Float64(v)
	}
	return out
}
