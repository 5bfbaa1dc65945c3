package threshold

import (
	"fmt"
	"math"

	"github.com/selivandex/vitals-bot/pkg/models"
)

// Classification is the engine's output: a status plus the z-score behind
// it. ZScore is nil whenever no score could be computed (no baseline, zero
// variance).
type Classification struct {
	Status models.DeviationStatus
	ZScore *float64
}

// Engine converts a current value and its baseline into a deviation status
// under a directionality policy. Pure classification: numeric edge cases map
// to statuses, never to errors.
type Engine struct{}

// NewEngine creates new threshold engine
func NewEngine() *Engine {
	return &Engine{}
}

// Classify applies the policy's boundary table to the standardized deviation
// of current from the baseline mean.
//
// Edge cases, in evaluation order: a baseline without a mean (no in-window
// samples) or without a stddev (a single sample) classifies as no_baseline.
// Zero historical variance makes any change maximally significant, so an
// exact match is normal and everything else is concerning.
func (e *Engine) Classify(current float64, b models.Baseline, p models.Policy) (Classification, error) {
	if math.IsNaN(current) || math.IsInf(current, 0) {
		return Classification{}, fmt.Errorf("current value must be finite, got %v", current)
	}
	if err := validatePolicy(p); err != nil {
		return Classification{}, err
	}

	if b.Mean == nil || b.StdDev == nil {
		return Classification{Status: models.StatusNoBaseline}, nil
	}

	if *b.StdDev == 0 {
		if current == *b.Mean {
			return Classification{Status: models.StatusNormal}, nil
		}
		return Classification{Status: models.StatusConcerning}, nil
	}

	z := (current - *b.Mean) / *b.StdDev

	var status models.DeviationStatus
	switch p.Direction {
	case models.LowerIsBetter:
		// Far below baseline is good, far above is bad.
		switch {
		case z < -p.WarningBoundary:
			status = models.StatusOptimal
		case z <= p.OptimalBoundary:
			status = models.StatusNormal
		case z <= p.WarningBoundary:
			status = models.StatusWarning
		default:
			status = models.StatusConcerning
		}
	case models.HigherIsBetter:
		switch {
		case z > p.WarningBoundary:
			status = models.StatusOptimal
		case z >= -p.OptimalBoundary:
			status = models.StatusNormal
		case z >= -p.WarningBoundary:
			status = models.StatusWarning
		default:
			status = models.StatusConcerning
		}
	case models.Symmetric:
		// No preferred direction, so optimal is unreachable here.
		abs := math.Abs(z)
		switch {
		case abs <= p.OptimalBoundary:
			status = models.StatusNormal
		case abs <= p.WarningBoundary:
			status = models.StatusWarning
		default:
			status = models.StatusConcerning
		}
	}

	return Classification{Status: status, ZScore: &z}, nil
}

func validatePolicy(p models.Policy) error {
	switch p.Direction {
	case models.LowerIsBetter, models.HigherIsBetter, models.Symmetric:
	default:
		return fmt.Errorf("unknown directionality %q", p.Direction)
	}

	if p.OptimalBoundary <= 0 || p.WarningBoundary <= 0 {
		return fmt.Errorf("policy boundaries must be positive")
	}
	if p.WarningBoundary < p.OptimalBoundary {
		return fmt.Errorf("warning boundary %.2f below optimal boundary %.2f", p.WarningBoundary, p.OptimalBoundary)
	}

	return nil
}
