package threshold

import (
	"math"
	"testing"
	"time"

	"github.com/selivandex/vitals-bot/pkg/models"
)

func testBaseline(mean, stddev float64, count int) models.Baseline {
	return models.Baseline{
		Metric:      "test_metric",
		AsOf:        time.Date(2025, 5, 14, 0, 0, 0, 0, time.UTC),
		WindowDays:  30,
		Mean:        &mean,
		StdDev:      &stddev,
		SampleCount: count,
	}
}

func defaultPolicy(direction models.Directionality) models.Policy {
	return models.Policy{
		Direction:       direction,
		OptimalBoundary: 0.75,
		WarningBoundary: 1.5,
	}
}

func TestEngine_NoBaseline(t *testing.T) {
	engine := NewEngine()

	empty := models.Baseline{Metric: "test_metric", WindowDays: 30}
	single := models.Baseline{Metric: "test_metric", WindowDays: 30, Mean: models.Float64(52), SampleCount: 1}

	for _, direction := range []models.Directionality{models.LowerIsBetter, models.HigherIsBetter, models.Symmetric} {
		for name, b := range map[string]models.Baseline{"no samples": empty, "one sample": single} {
			cls, err := engine.Classify(52, b, defaultPolicy(direction))
			if err != nil {
				t.Fatalf("%s/%s: Classify failed: %v", direction, name, err)
			}
			if cls.Status != models.StatusNoBaseline {
				t.Errorf("%s/%s: expected no_baseline, got %s", direction, name, cls.Status)
			}
			if cls.ZScore != nil {
				t.Errorf("%s/%s: z-score should be nil, got %v", direction, name, *cls.ZScore)
			}
		}
	}
}

func TestEngine_ZeroVariance(t *testing.T) {
	engine := NewEngine()
	b := testBaseline(60, 0, 10)

	cls, err := engine.Classify(60, b, defaultPolicy(models.LowerIsBetter))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if cls.Status != models.StatusNormal {
		t.Errorf("Exact match on zero variance should be normal, got %s", cls.Status)
	}

	for _, current := range []float64{60.0001, 59.9999, 75, 0} {
		cls, err := engine.Classify(current, b, defaultPolicy(models.LowerIsBetter))
		if err != nil {
			t.Fatalf("Classify failed: %v", err)
		}
		if cls.Status != models.StatusConcerning {
			t.Errorf("Any change on zero variance should be concerning, got %s for %v", cls.Status, current)
		}
	}
}

func TestEngine_LowerIsBetter(t *testing.T) {
	engine := NewEngine()
	// mean 50, stddev 4: value = 50 + 4z
	b := testBaseline(50, 4, 30)

	tests := []struct {
		name     string
		current  float64
		expected models.DeviationStatus
	}{
		{"far below baseline", 43, models.StatusOptimal},          // z = -1.75
		{"exactly minus warning boundary", 44, models.StatusNormal}, // z = -1.5, inclusive goes to normal
		{"at baseline", 50, models.StatusNormal},                  // z = 0
		{"exactly optimal boundary", 53, models.StatusNormal},     // z = 0.75
		{"slightly above", 55, models.StatusWarning},              // z = 1.25
		{"exactly warning boundary", 56, models.StatusWarning},    // z = 1.5
		{"far above baseline", 57, models.StatusConcerning},       // z = 1.75
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, err := engine.Classify(tt.current, b, defaultPolicy(models.LowerIsBetter))
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if cls.Status != tt.expected {
				t.Errorf("Expected %s, got %s (z=%.3f)", tt.expected, cls.Status, *cls.ZScore)
			}
		})
	}
}

func TestEngine_HigherIsBetter(t *testing.T) {
	engine := NewEngine()
	// mean 60, stddev 5: value = 60 + 5z
	b := testBaseline(60, 5, 30)

	tests := []struct {
		name     string
		current  float64
		expected models.DeviationStatus
	}{
		{"far above baseline", 68, models.StatusOptimal},           // z = 1.6
		{"exactly warning boundary", 67.5, models.StatusNormal},    // z = 1.5, inclusive goes to normal
		{"at baseline", 60, models.StatusNormal},                   // z = 0
		{"exactly minus optimal boundary", 56.25, models.StatusNormal}, // z = -0.75
		{"slightly below", 55, models.StatusWarning},               // z = -1
		{"exactly minus warning boundary", 52.5, models.StatusWarning}, // z = -1.5
		{"far below baseline", 52, models.StatusConcerning},        // z = -1.6
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, err := engine.Classify(tt.current, b, defaultPolicy(models.HigherIsBetter))
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if cls.Status != tt.expected {
				t.Errorf("Expected %s, got %s (z=%.3f)", tt.expected, cls.Status, *cls.ZScore)
			}
		})
	}
}

func TestEngine_Symmetric(t *testing.T) {
	engine := NewEngine()
	// mean 30, stddev 2: value = 30 + 2z
	b := testBaseline(30, 2, 30)

	tests := []struct {
		name     string
		current  float64
		expected models.DeviationStatus
	}{
		{"at baseline", 30, models.StatusNormal},
		{"within optimal boundary above", 31, models.StatusNormal},     // z = 0.5
		{"within optimal boundary below", 29, models.StatusNormal},     // z = -0.5
		{"beyond optimal above", 32, models.StatusWarning},             // z = 1
		{"beyond optimal below", 28, models.StatusWarning},             // z = -1
		{"far above baseline", 35, models.StatusConcerning},            // z = 2.5
		{"far below baseline", 25, models.StatusConcerning},            // z = -2.5
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, err := engine.Classify(tt.current, b, defaultPolicy(models.Symmetric))
			if err != nil {
				t.Fatalf("Classify failed: %v", err)
			}
			if cls.Status != tt.expected {
				t.Errorf("Expected %s, got %s (z=%.3f)", tt.expected, cls.Status, *cls.ZScore)
			}
			if cls.Status == models.StatusOptimal {
				t.Error("Optimal must be unreachable under symmetric policy")
			}
		})
	}
}

// Mirrored deviations must classify identically under the two directional
// policies with equal boundary magnitudes.
func TestEngine_DirectionalitySymmetry(t *testing.T) {
	engine := NewEngine()
	lower := testBaseline(50, 4, 30)
	higher := testBaseline(50, 4, 30)

	for _, k := range []float64{-2.5, -1.5, -1, -0.75, -0.2, 0, 0.2, 0.75, 1, 1.5, 2.5} {
		below, err := engine.Classify(50-4*k, lower, defaultPolicy(models.LowerIsBetter))
		if err != nil {
			t.Fatalf("Classify failed: %v", err)
		}
		above, err := engine.Classify(50+4*k, higher, defaultPolicy(models.HigherIsBetter))
		if err != nil {
			t.Fatalf("Classify failed: %v", err)
		}
		if below.Status != above.Status {
			t.Errorf("k=%.2f: lower_is_better gave %s but higher_is_better gave %s", k, below.Status, above.Status)
		}
	}
}

func TestEngine_InvalidInput(t *testing.T) {
	engine := NewEngine()
	b := testBaseline(50, 4, 30)

	for _, current := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := engine.Classify(current, b, defaultPolicy(models.LowerIsBetter)); err == nil {
			t.Errorf("Expected error for non-finite current value %v", current)
		}
	}

	if _, err := engine.Classify(50, b, models.Policy{Direction: "sideways", OptimalBoundary: 0.75, WarningBoundary: 1.5}); err == nil {
		t.Error("Expected error for unknown directionality")
	}

	if _, err := engine.Classify(50, b, models.Policy{Direction: models.Symmetric, OptimalBoundary: 0, WarningBoundary: 1.5}); err == nil {
		t.Error("Expected error for non-positive boundary")
	}

	if _, err := engine.Classify(50, b, models.Policy{Direction: models.Symmetric, OptimalBoundary: 1.5, WarningBoundary: 0.75}); err == nil {
		t.Error("Expected error for warning boundary below optimal boundary")
	}
}
