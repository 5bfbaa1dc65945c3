package status

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/selivandex/vitals-bot/internal/baseline"
	"github.com/selivandex/vitals-bot/internal/threshold"
	"github.com/selivandex/vitals-bot/pkg/models"
)

// fakeSeriesSource serves canned series per metric and fails on demand.
type fakeSeriesSource struct {
	series  map[string]models.MetricSeries
	failing map[string]error
}

func (f *fakeSeriesSource) GetMetricSeries(ctx context.Context, userID int64, metric string, from, to time.Time) (models.MetricSeries, error) {
	if err, ok := f.failing[metric]; ok {
		return models.MetricSeries{}, err
	}
	return f.series[metric], nil
}

func day(s string) time.Time {
	d, err := models.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func dailySeries(metric, start string, values []*float64) models.MetricSeries {
	first := day(start)
	series := models.MetricSeries{UserID: 1, Metric: metric}
	for i, v := range values {
		series.Samples = append(series.Samples, models.MetricSample{
			Day:   first.AddDate(0, 0, i),
			Value: v,
		})
	}
	return series
}

func newAggregator(source SeriesSource) *Aggregator {
	return NewAggregator(source, baseline.NewCalculator(), threshold.NewEngine())
}

func request(metric string, direction models.Directionality, windowDays int) models.MetricRequest {
	return models.MetricRequest{
		Metric: metric,
		Policy: models.Policy{
			Direction:       direction,
			OptimalBoundary: 0.75,
			WarningBoundary: 1.5,
		},
		WindowDays: windowDays,
	}
}

func TestAggregator_EvaluatesMetric(t *testing.T) {
	// Ten days of RHR at 50 then a spiked final day.
	values := make([]*float64, 11)
	for i := 0; i < 10; i++ {
		values[i] = models.Float64(50 + float64(i%3)) // 50,51,52 pattern gives nonzero variance
	}
	values[10] = models.Float64(70)

	source := &fakeSeriesSource{series: map[string]models.MetricSeries{
		"resting_heart_rate": dailySeries("resting_heart_rate", "2025-05-04", values),
	}}
	agg := newAggregator(source)

	records, err := agg.EvaluateDailyStatus(context.Background(), 1, day("2025-05-14"),
		[]models.MetricRequest{request("resting_heart_rate", models.LowerIsBetter, 30)})
	if err != nil {
		t.Fatalf("EvaluateDailyStatus failed: %v", err)
	}

	record, ok := records["resting_heart_rate"]
	if !ok {
		t.Fatal("Missing record for resting_heart_rate")
	}
	if record.Unavailable {
		t.Fatalf("Record should not be unavailable: %s", record.Error)
	}
	if record.Value == nil || *record.Value != 70 {
		t.Errorf("Expected current value 70, got %v", record.Value)
	}
	if record.Baseline == nil || record.Baseline.SampleCount != 11 {
		t.Errorf("Expected baseline over 11 samples, got %+v", record.Baseline)
	}
	if record.Status != models.StatusConcerning {
		t.Errorf("A 20bpm RHR spike should be concerning, got %s", record.Status)
	}
}

func TestAggregator_AbsentCurrentValue(t *testing.T) {
	// History exists but the target day itself was not observed.
	values := []*float64{models.Float64(48), models.Float64(50), models.Float64(52)}
	source := &fakeSeriesSource{series: map[string]models.MetricSeries{
		"resting_heart_rate": dailySeries("resting_heart_rate", "2025-05-10", values),
	}}
	agg := newAggregator(source)

	records, err := agg.EvaluateDailyStatus(context.Background(), 1, day("2025-05-14"),
		[]models.MetricRequest{request("resting_heart_rate", models.LowerIsBetter, 30)})
	if err != nil {
		t.Fatalf("EvaluateDailyStatus failed: %v", err)
	}

	record := records["resting_heart_rate"]
	if record.Unavailable {
		t.Fatalf("Absent current value is not unavailability: %s", record.Error)
	}
	if record.Status != models.StatusNoBaseline {
		t.Errorf("Expected no_baseline for unobserved day, got %s", record.Status)
	}
	if record.Value != nil {
		t.Errorf("Value should be absent, got %v", *record.Value)
	}
	if record.Baseline == nil || record.Baseline.SampleCount != 3 {
		t.Errorf("Baseline should still be computed, got %+v", record.Baseline)
	}
}

func TestAggregator_PartialFailure(t *testing.T) {
	healthy := []*float64{
		models.Float64(48), models.Float64(50), models.Float64(52),
		models.Float64(49), models.Float64(51),
	}
	source := &fakeSeriesSource{
		series: map[string]models.MetricSeries{
			"resting_heart_rate": dailySeries("resting_heart_rate", "2025-05-10", healthy),
			"hrv_nightly_avg":    dailySeries("hrv_nightly_avg", "2025-05-10", healthy),
		},
		failing: map[string]error{
			"avg_stress_level": fmt.Errorf("observation store unreachable"),
		},
	}
	agg := newAggregator(source)

	records, err := agg.EvaluateDailyStatus(context.Background(), 1, day("2025-05-14"), []models.MetricRequest{
		request("resting_heart_rate", models.LowerIsBetter, 30),
		request("hrv_nightly_avg", models.HigherIsBetter, 30),
		request("avg_stress_level", models.LowerIsBetter, 30),
	})
	if err != nil {
		t.Fatalf("EvaluateDailyStatus failed: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected all 3 metrics in result, got %d", len(records))
	}

	failed := records["avg_stress_level"]
	if !failed.Unavailable {
		t.Error("Failing metric should be tagged unavailable")
	}
	if failed.Error == "" {
		t.Error("Failing metric should carry the failure reason")
	}

	for _, metric := range []string{"resting_heart_rate", "hrv_nightly_avg"} {
		record := records[metric]
		if record.Unavailable {
			t.Errorf("%s should not be affected by sibling failure: %s", metric, record.Error)
		}
		if record.Status == "" {
			t.Errorf("%s should be fully classified", metric)
		}
	}
}

func TestAggregator_InvalidWindowIsolated(t *testing.T) {
	values := []*float64{models.Float64(48), models.Float64(50), models.Float64(52)}
	source := &fakeSeriesSource{series: map[string]models.MetricSeries{
		"resting_heart_rate": dailySeries("resting_heart_rate", "2025-05-12", values),
	}}
	agg := newAggregator(source)

	records, err := agg.EvaluateDailyStatus(context.Background(), 1, day("2025-05-14"), []models.MetricRequest{
		request("resting_heart_rate", models.LowerIsBetter, 30),
		request("bad_window_metric", models.LowerIsBetter, 0),
	})
	if err != nil {
		t.Fatalf("EvaluateDailyStatus failed: %v", err)
	}

	bad := records["bad_window_metric"]
	if !bad.Unavailable || bad.Error == "" {
		t.Error("Invalid window request should be rejected per-metric")
	}

	good := records["resting_heart_rate"]
	if good.Unavailable {
		t.Errorf("Valid metric should still evaluate: %s", good.Error)
	}
}

func TestAggregator_NoRequests(t *testing.T) {
	agg := newAggregator(&fakeSeriesSource{})

	if _, err := agg.EvaluateDailyStatus(context.Background(), 1, day("2025-05-14"), nil); err == nil {
		t.Error("Expected error for empty request list")
	}
}
