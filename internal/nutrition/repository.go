package nutrition

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/selivandex/vitals-bot/pkg/models"
)

// FoodEntry is one logged food with its macros in grams. Macros stay decimal
// end to end so user-entered grams survive round trips exactly.
type FoodEntry struct {
	ID       int64           `db:"id"`
	UserID   int64           `db:"user_id"`
	Name     string          `db:"name"`
	Protein  decimal.Decimal `db:"protein"`
	Carbs    decimal.Decimal `db:"carbs"`
	Fats     decimal.Decimal `db:"fats"`
	Comment  *string         `db:"comment"`
	LoggedAt time.Time       `db:"logged_at"`
}

// Totals sums a day's macros.
type Totals struct {
	Protein decimal.Decimal
	Carbs   decimal.Decimal
	Fats    decimal.Decimal
}

// Add accumulates one entry into the totals.
func (t Totals) Add(e FoodEntry) Totals {
	return Totals{
		Protein: t.Protein.Add(e.Protein),
		Carbs:   t.Carbs.Add(e.Carbs),
		Fats:    t.Fats.Add(e.Fats),
	}
}

// Repository handles database operations for the food log
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new nutrition repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// LogFood records one food entry for a user.
func (r *Repository) LogFood(ctx context.Context, userID int64, name string, protein, carbs, fats decimal.Decimal, comment string) error {
	query := `
		INSERT INTO food_log (user_id, name, protein, carbs, fats, comment, logged_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), now())
	`

	if _, err := r.db.ExecContext(ctx, query, userID, name, protein, carbs, fats, comment); err != nil {
		return fmt.Errorf("failed to log food: %w", err)
	}

	return nil
}

// ListForDay returns the food entries logged on one calendar day, oldest
// first.
func (r *Repository) ListForDay(ctx context.Context, userID int64, day time.Time) ([]FoodEntry, error) {
	start := models.Day(day)
	end := start.AddDate(0, 0, 1)

	query := `
		SELECT id, user_id, name, protein, carbs, fats, comment, logged_at
		FROM food_log
		WHERE user_id = $1 AND logged_at >= $2 AND logged_at < $3
		ORDER BY logged_at ASC
	`

	var entries []FoodEntry
	if err := r.db.SelectContext(ctx, &entries, query, userID, start, end); err != nil {
		return nil, fmt.Errorf("failed to list food entries: %w", err)
	}

	return entries, nil
}

// TotalsForDay sums a day's macros.
func (r *Repository) TotalsForDay(ctx context.Context, userID int64, day time.Time) (Totals, error) {
	entries, err := r.ListForDay(ctx, userID, day)
	if err != nil {
		return Totals{}, err
	}

	totals := Totals{
		Protein: decimal.Zero,
		Carbs:   decimal.Zero,
		Fats:    decimal.Zero,
	}
	for _, entry := range entries {
		totals = totals.Add(entry)
	}

	return totals, nil
}
