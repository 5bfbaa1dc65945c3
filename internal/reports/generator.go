package reports

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/selivandex/vitals-bot/internal/trends"
	"github.com/selivandex/vitals-bot/pkg/models"
)

// Generator renders engine output into plain-language Telegram messages. It
// treats the deviation status as an opaque tag; no classification logic
// lives here.
type Generator struct{}

// NewGenerator creates report generator
func NewGenerator() *Generator {
	return &Generator{}
}

// DailyStatus renders the day's per-metric records, sorted by metric name so
// consecutive reports line up.
func (g *Generator) DailyStatus(day time.Time, records map[string]models.MetricStatusRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Daily status for %s\n\n", models.FormatDay(day))

	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		record := records[name]
		b.WriteString(g.metricLine(record))
		b.WriteByte('\n')
	}

	return strings.TrimRight(b.String(), "\n")
}

func (g *Generator) metricLine(record models.MetricStatusRecord) string {
	label := displayName(record.Metric)

	if record.Unavailable {
		return fmt.Sprintf("⚪ %s: unavailable (%s)", label, record.Error)
	}

	if record.Value == nil {
		return fmt.Sprintf("⚪ %s: no data today", label)
	}

	line := fmt.Sprintf("%s %s: %s", statusMarker(record.Status), label, formatValue(record.Metric, *record.Value))

	if record.Status == models.StatusNoBaseline {
		return line + " (building baseline)"
	}

	if record.Baseline != nil && record.Baseline.Mean != nil {
		if record.Baseline.StdDev != nil {
			line += fmt.Sprintf(" (baseline %s ±%s over %d days)",
				formatValue(record.Metric, *record.Baseline.Mean),
				formatValue(record.Metric, *record.Baseline.StdDev),
				record.Baseline.WindowDays,
			)
		} else {
			line += fmt.Sprintf(" (baseline %s)", formatValue(record.Metric, *record.Baseline.Mean))
		}
	}

	return line
}

// Trends renders rolling-average summaries for the /trends command.
func (g *Generator) Trends(day time.Time, summaries []trends.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 Trends as of %s\n\n", models.FormatDay(day))

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Metric < summaries[j].Metric })

	for _, s := range summaries {
		fmt.Fprintf(&b, "%s %s: %s over last %d days\n",
			directionMarker(s.Direction),
			displayName(s.Metric),
			formatValue(s.Metric, s.Average),
			s.Period,
		)
	}

	return strings.TrimRight(b.String(), "\n")
}

func statusMarker(status models.DeviationStatus) string {
	switch status {
	case models.StatusOptimal:
		return "🌟"
	case models.StatusNormal:
		return "✅"
	case models.StatusWarning:
		return "⚠️"
	case models.StatusConcerning:
		return "❌"
	default:
		return "⚪"
	}
}

func directionMarker(d trends.Direction) string {
	switch d {
	case trends.Rising:
		return "↗️"
	case trends.Falling:
		return "↘️"
	default:
		return "➡️"
	}
}

var displayNames = map[string]string{
	"resting_heart_rate":   "Resting heart rate",
	"hrv_nightly_avg":      "HRV (nightly avg)",
	"avg_stress_level":     "Stress (daily avg)",
	"avg_sleep_stress":     "Sleep stress",
	"total_sleep_seconds":  "Sleep duration",
	"deep_sleep_seconds":   "Deep sleep",
	"rem_sleep_seconds":    "REM sleep",
	"body_battery_charged": "Body battery charged",
	"body_battery_drained": "Body battery drained",
}

func displayName(metric string) string {
	if name, ok := displayNames[metric]; ok {
		return name
	}
	return metric
}

// formatValue renders durations as h:mm and everything else with one
// decimal, dropping a trailing .0.
func formatValue(metric string, value float64) string {
	if strings.HasSuffix(metric, "_seconds") {
		total := int(value)
		return fmt.Sprintf("%dh %02dm", total/3600, (total%3600)/60)
	}

	formatted := fmt.Sprintf("%.1f", value)
	return strings.TrimSuffix(formatted, ".0")
}
