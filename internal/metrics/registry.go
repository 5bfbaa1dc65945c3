package metrics

import "github.com/selivandex/vitals-bot/pkg/models"

// Well-known metric names. Commands and reports refer to these; the engine
// itself treats names as opaque keys.
const (
	MetricRestingHeartRate   = "resting_heart_rate"
	MetricHRVNightlyAvg      = "hrv_nightly_avg"
	MetricAvgStressLevel     = "avg_stress_level"
	MetricAvgSleepStress     = "avg_sleep_stress"
	MetricTotalSleepSeconds  = "total_sleep_seconds"
	MetricDeepSleepSeconds   = "deep_sleep_seconds"
	MetricREMSleepSeconds    = "rem_sleep_seconds"
	MetricBodyBatteryCharged = "body_battery_charged"
	MetricBodyBatteryDrained = "body_battery_drained"
)

// DefaultRegistry returns the metric definition table. Source order within a
// definition is the deterministic extraction priority: resting heart rate
// prefers the sleep summary over the dedicated RHR record because the sleep
// value is measured over the full overnight window.
//
// Window lengths differ per metric: HRV needs a longer history to settle,
// body battery drifts quickly and uses a short one.
func DefaultRegistry() map[string]Definition {
	defs := []Definition{
		{
			Name: MetricRestingHeartRate,
			Sources: []Source{
				{Category: models.CategorySleep, Path: "dailySleepDTO.restingHeartRateInBeatsPerMinute"},
				{Category: models.CategoryRestingHeartRate, Path: "restingHeartRate"},
			},
			Direction:  models.LowerIsBetter,
			WindowDays: 60,
		},
		{
			Name: MetricHRVNightlyAvg,
			Sources: []Source{
				{Category: models.CategoryHRV, Path: "hrvSummary.lastNightAvg"},
			},
			Direction:  models.HigherIsBetter,
			WindowDays: 90,
		},
		{
			Name: MetricAvgStressLevel,
			Sources: []Source{
				{Category: models.CategoryStress, Path: "avgStressLevel"},
			},
			Direction:  models.LowerIsBetter,
			WindowDays: 30,
		},
		{
			Name: MetricAvgSleepStress,
			Sources: []Source{
				{Category: models.CategorySleep, Path: "avgSleepStress"},
			},
			Direction:  models.LowerIsBetter,
			WindowDays: 30,
		},
		{
			Name: MetricTotalSleepSeconds,
			Sources: []Source{
				{Category: models.CategorySleep, Path: "dailySleepDTO.sleepTimeSeconds"},
			},
			// Both chronic undersleep and heavy oversleep deviate from the
			// personal norm, so neither direction is treated as better.
			Direction:  models.Symmetric,
			WindowDays: 30,
		},
		{
			Name: MetricDeepSleepSeconds,
			Sources: []Source{
				{Category: models.CategorySleep, Path: "dailySleepDTO.deepSleepSeconds"},
			},
			Direction:  models.HigherIsBetter,
			WindowDays: 30,
		},
		{
			Name: MetricREMSleepSeconds,
			Sources: []Source{
				{Category: models.CategorySleep, Path: "dailySleepDTO.remSleepSeconds"},
			},
			Direction:  models.HigherIsBetter,
			WindowDays: 30,
		},
		{
			Name: MetricBodyBatteryCharged,
			Sources: []Source{
				{Category: models.CategoryBodyBattery, Path: "bodyBatteryValueDescriptors.charged"},
			},
			Direction:  models.HigherIsBetter,
			WindowDays: 14,
		},
		{
			Name: MetricBodyBatteryDrained,
			Sources: []Source{
				{Category: models.CategoryBodyBattery, Path: "bodyBatteryValueDescriptors.drained"},
			},
			Direction:  models.LowerIsBetter,
			WindowDays: 14,
		},
	}

	registry := make(map[string]Definition, len(defs))
	for _, def := range defs {
		registry[def.Name] = def
	}
	return registry
}

// RequestsFromRegistry builds the aggregator request list for every metric in
// the registry, attaching the configured shared boundaries to each metric's
// declared directionality and window.
func RequestsFromRegistry(registry map[string]Definition, optimalBoundary, warningBoundary float64) []models.MetricRequest {
	requests := make([]models.MetricRequest, 0, len(registry))
	for _, def := range registry {
		requests = append(requests, models.MetricRequest{
			Metric: def.Name,
			Policy: models.Policy{
				Direction:       def.Direction,
				OptimalBoundary: optimalBoundary,
				WarningBoundary: warningBoundary,
			},
			WindowDays: def.WindowDays,
		})
	}
	return requests
}
