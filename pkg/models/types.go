package models

import "time"

// DataCategory identifies one provider payload category stored per day.
type DataCategory string

const (
	CategorySleep            DataCategory = "sleep"
	CategoryStress           DataCategory = "stress"
	CategoryHRV              DataCategory = "hrv"
	CategoryBodyBattery      DataCategory = "body_battery"
	CategoryHeartRate        DataCategory = "heart_rate"
	CategoryRestingHeartRate DataCategory = "resting_heart_rate"
	CategoryActivities       DataCategory = "activities"
	CategorySteps            DataCategory = "steps"
)

// AllCategories lists every category the sync worker pulls from the provider
var AllCategories = []DataCategory{
	CategorySleep,
	CategoryStress,
	CategoryHRV,
	CategoryBodyBattery,
	CategoryHeartRate,
	CategoryRestingHeartRate,
	CategoryActivities,
	CategorySteps,
}

// DeviationStatus classifies how far a value sits from its personal baseline.
// Closed set; downstream consumers treat it as an opaque tag.
type DeviationStatus string

const (
	StatusNoBaseline DeviationStatus = "no_baseline"
	StatusOptimal    DeviationStatus = "optimal"
	StatusNormal     DeviationStatus = "normal"
	StatusWarning    DeviationStatus = "warning"
	StatusConcerning DeviationStatus = "concerning"
)

// Directionality says which direction of deviation counts as better for a metric
type Directionality string

const (
	LowerIsBetter  Directionality = "lower_is_better"
	HigherIsBetter Directionality = "higher_is_better"
	Symmetric      Directionality = "symmetric"
)

// Policy pairs a directionality with the z-score boundaries used for
// classification. Boundaries are sigma multiples and come from configuration,
// never from per-metric code.
type Policy struct {
	Direction       Directionality `json:"direction"`
	OptimalBoundary float64        `json:"optimal_boundary"`
	WarningBoundary float64        `json:"warning_boundary"`
}

// Observation is one immutable daily fact from the provider: the raw JSON
// payload for one (user, day, category) key. Replaced wholesale on re-sync,
// never mutated in place.
type Observation struct {
	ID        int64        `db:"id"`
	UserID    int64        `db:"user_id"`
	Day       time.Time    `db:"day"`
	Category  DataCategory `db:"category"`
	Payload   []byte       `db:"payload"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}

// MetricSample is one day of a derived metric. Value is nil when the day has
// an observation but the metric could not be extracted from it.
type MetricSample struct {
	Day   time.Time
	Value *float64
}

// MetricSeries is an ordered run of daily samples for one (user, metric).
// Days are strictly increasing with no duplicates. Derived on demand, never
// persisted.
type MetricSeries struct {
	UserID  int64
	Metric  string
	Samples []MetricSample
}

// ValueOn returns the sample value for the given day, or nil when the day has
// no sample or an absent value.
func (s MetricSeries) ValueOn(day time.Time) *float64 {
	target := Day(day)
	for i := range s.Samples {
		if s.Samples[i].Day.Equal(target) {
			return s.Samples[i].Value
		}
	}
	return nil
}

// Baseline holds the rolling statistics for a metric over a trailing window
// ending at AsOf. Mean and StdDev are nil when the window holds too few
// values to support them (0 and <2 samples respectively).
type Baseline struct {
	Metric      string
	AsOf        time.Time
	WindowDays  int
	Mean        *float64
	StdDev      *float64
	SampleCount int
}

// MetricRequest asks the aggregator to evaluate one metric for a day.
type MetricRequest struct {
	Metric     string
	Policy     Policy
	WindowDays int
}

// MetricStatusRecord is the aggregator's per-metric output. Unavailable marks
// a metric whose evaluation could not run at all (store failure or rejected
// request); that is a different condition from StatusNoBaseline, which means
// the metric was observed but has no usable history.
type MetricStatusRecord struct {
	Metric      string
	Value       *float64
	Baseline    *Baseline
	ZScore      *float64
	Status      DeviationStatus
	Unavailable bool
	Error       string
}

// Float64 returns a pointer to v. Convenience for building samples.
func Float64(v float64) *float64 {
	return &v
}
