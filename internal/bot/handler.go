package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/selivandex/vitals-bot/internal/adapters/config"
	"github.com/selivandex/vitals-bot/internal/medication"
	"github.com/selivandex/vitals-bot/internal/metrics"
	"github.com/selivandex/vitals-bot/internal/nutrition"
	"github.com/selivandex/vitals-bot/internal/reports"
	"github.com/selivandex/vitals-bot/internal/status"
	"github.com/selivandex/vitals-bot/internal/trends"
	"github.com/selivandex/vitals-bot/internal/users"
	"github.com/selivandex/vitals-bot/internal/workers"
	"github.com/selivandex/vitals-bot/pkg/models"
)

// Handler implements the bot commands on top of the evaluation engine and
// the repositories. One instance serves all chats.
type Handler struct {
	users      *users.Repository
	aggregator *status.Aggregator
	series     *metrics.SeriesProvider
	trends     *trends.Calculator
	nutrition  *nutrition.Repository
	medication *medication.Repository
	reports    *reports.Generator
	sync       *workers.SyncWorker
	baseline   config.BaselineConfig
}

// NewHandler creates new command handler
func NewHandler(
	usersRepo *users.Repository,
	aggregator *status.Aggregator,
	series *metrics.SeriesProvider,
	trendsCalc *trends.Calculator,
	nutritionRepo *nutrition.Repository,
	medicationRepo *medication.Repository,
	generator *reports.Generator,
	syncWorker *workers.SyncWorker,
	baselineCfg config.BaselineConfig,
) *Handler {
	return &Handler{
		users:      usersRepo,
		aggregator: aggregator,
		series:     series,
		trends:     trendsCalc,
		nutrition:  nutritionRepo,
		medication: medicationRepo,
		reports:    generator,
		sync:       syncWorker,
		baseline:   baselineCfg,
	}
}

// HandleStatus evaluates every registered metric for the requested day
// (default today) and renders the daily report.
func (h *Handler) HandleStatus(ctx context.Context, chatID int64, args string) (string, error) {
	user, err := h.users.EnsureByChatID(ctx, chatID)
	if err != nil {
		return "", err
	}

	day := models.Day(time.Now())
	if args != "" {
		day, err = models.ParseDay(strings.TrimSpace(args))
		if err != nil {
			return "", fmt.Errorf("could not parse date %q, expected YYYY-MM-DD", args)
		}
	}

	requests := h.requests()
	records, err := h.aggregator.EvaluateDailyStatus(ctx, user.ID, day, requests)
	if err != nil {
		return "", err
	}

	return h.reports.DailyStatus(day, records), nil
}

// HandleTrends renders rolling averages for every metric with enough
// history.
func (h *Handler) HandleTrends(ctx context.Context, chatID int64) (string, error) {
	user, err := h.users.EnsureByChatID(ctx, chatID)
	if err != nil {
		return "", err
	}

	today := models.Day(time.Now())
	from := today.AddDate(0, 0, -90)

	var summaries []trends.Summary
	for _, metric := range h.series.Metrics() {
		series, err := h.series.GetMetricSeries(ctx, user.ID, metric, from, today)
		if err != nil {
			continue
		}
		summary, err := h.trends.Summarize(series, trends.DefaultPeriod)
		if err != nil {
			// Not enough history yet; skip quietly.
			continue
		}
		summaries = append(summaries, summary)
	}

	if len(summaries) == 0 {
		return "Not enough history for trends yet. Link your tracker with /link and let a week of data accumulate.", nil
	}

	return h.reports.Trends(today, summaries), nil
}

// HandleFood logs one food entry: /food <name> <protein> <carbs> <fats>
func (h *Handler) HandleFood(ctx context.Context, chatID int64, args string) (string, error) {
	user, err := h.users.EnsureByChatID(ctx, chatID)
	if err != nil {
		return "", err
	}

	fields := strings.Fields(args)
	if len(fields) < 4 {
		return "Usage: /food <name> <protein> <carbs> <fats> [comment]", nil
	}

	name := fields[0]
	macros, err := parseAmounts(fields[1:4], "grams")
	if err != nil {
		return "", err
	}
	comment := strings.Join(fields[4:], " ")

	if err := h.nutrition.LogFood(ctx, user.ID, name, macros[0], macros[1], macros[2], comment); err != nil {
		return "", err
	}

	return fmt.Sprintf("Logged %s: %sg protein, %sg carbs, %sg fats",
		name, macros[0], macros[1], macros[2]), nil
}

// HandleFoods lists today's food log with totals.
func (h *Handler) HandleFoods(ctx context.Context, chatID int64) (string, error) {
	user, err := h.users.EnsureByChatID(ctx, chatID)
	if err != nil {
		return "", err
	}

	today := models.Day(time.Now())
	entries, err := h.nutrition.ListForDay(ctx, user.ID, today)
	if err != nil {
		return "", err
	}

	if len(entries) == 0 {
		return "No food logged today.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🍽 Food log for %s\n\n", models.FormatDay(today))

	totals := nutrition.Totals{Protein: decimal.Zero, Carbs: decimal.Zero, Fats: decimal.Zero}
	for _, entry := range entries {
		fmt.Fprintf(&b, "• %s - %sp / %sc / %sf\n", entry.Name, entry.Protein, entry.Carbs, entry.Fats)
		totals = totals.Add(entry)
	}

	fmt.Fprintf(&b, "\nTotal: %sg protein, %sg carbs, %sg fats", totals.Protein, totals.Carbs, totals.Fats)
	return b.String(), nil
}

// HandleDrug logs one medication intake: /drug <name> <dosage_mg> [comment]
func (h *Handler) HandleDrug(ctx context.Context, chatID int64, args string) (string, error) {
	user, err := h.users.EnsureByChatID(ctx, chatID)
	if err != nil {
		return "", err
	}

	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "Usage: /drug <name> <dosage_mg> [comment]", nil
	}

	name := fields[0]
	dosage, err := parseDosage(fields[1])
	if err != nil {
		return "", err
	}
	comment := strings.Join(fields[2:], " ")

	if err := h.medication.LogDrug(ctx, user.ID, name, dosage, comment); err != nil {
		return "", err
	}

	return fmt.Sprintf("Logged %s %smg", name, dosage), nil
}

// HandleDrugs lists today's drug log.
func (h *Handler) HandleDrugs(ctx context.Context, chatID int64) (string, error) {
	user, err := h.users.EnsureByChatID(ctx, chatID)
	if err != nil {
		return "", err
	}

	today := models.Day(time.Now())
	entries, err := h.medication.ListForDay(ctx, user.ID, today)
	if err != nil {
		return "", err
	}

	if len(entries) == 0 {
		return "No medications logged today.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💊 Drug log for %s\n\n", models.FormatDay(today))

	for _, entry := range entries {
		fmt.Fprintf(&b, "• %s - %smg at %s\n",
			entry.Name, entry.Dosage, entry.LoggedAt.UTC().Format("15:04"))
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

// HandleLink binds a provider login to the chat's user.
func (h *Handler) HandleLink(ctx context.Context, chatID int64, args string) (string, error) {
	login := strings.TrimSpace(args)
	if login == "" {
		return "Usage: /link <provider login>", nil
	}

	user, err := h.users.EnsureByChatID(ctx, chatID)
	if err != nil {
		return "", err
	}

	if err := h.users.SetProviderLogin(ctx, user.ID, login); err != nil {
		return "", err
	}

	return fmt.Sprintf("Linked tracker account %s. Data will sync automatically; /sync forces a pass now.", login), nil
}

// HandleSync runs an immediate provider sync for the chat's user.
func (h *Handler) HandleSync(ctx context.Context, chatID int64) (string, error) {
	user, err := h.users.EnsureByChatID(ctx, chatID)
	if err != nil {
		return "", err
	}

	if !user.Linked() {
		return "No tracker linked yet. Use /link <provider login> first.", nil
	}

	if h.sync == nil {
		return "Provider sync is disabled on this instance.", nil
	}

	if err := h.sync.SyncUser(ctx, *user); err != nil {
		return "", fmt.Errorf("sync failed: %w", err)
	}

	return "Sync finished. Use /status to see today's numbers.", nil
}

// parseAmounts parses a run of decimal fields, rejecting negatives. The unit
// name only flavors the error message.
func parseAmounts(fields []string, unit string) ([]decimal.Decimal, error) {
	amounts := make([]decimal.Decimal, len(fields))
	for i, raw := range fields {
		value, err := decimal.NewFromString(raw)
		if err != nil || value.IsNegative() {
			return nil, fmt.Errorf("amount %q must be a non-negative number of %s", raw, unit)
		}
		amounts[i] = value
	}
	return amounts, nil
}

// parseDosage parses a milligram dosage. Zero is rejected: logging a drug
// that was not taken is always an input mistake.
func parseDosage(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil || !value.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("dosage %q must be a positive number of milligrams", raw)
	}
	return value, nil
}

func (h *Handler) requests() []models.MetricRequest {
	registry := make(map[string]metrics.Definition)
	for _, name := range h.series.Metrics() {
		if def, ok := h.series.Definition(name); ok {
			registry[name] = def
		}
	}
	return metrics.RequestsFromRegistry(registry, h.baseline.OptimalBoundary, h.baseline.WarningBoundary)
}
