package medication

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/selivandex/vitals-bot/pkg/models"
)

// DrugEntry is one logged medication intake. Dosage is milligrams and stays
// decimal end to end so user-entered amounts survive round trips exactly.
type DrugEntry struct {
	ID       int64           `db:"id"`
	UserID   int64           `db:"user_id"`
	Name     string          `db:"name"`
	Dosage   decimal.Decimal `db:"dosage"`
	Comment  *string         `db:"comment"`
	LoggedAt time.Time       `db:"logged_at"`
}

// Repository handles database operations for the drug log
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new medication repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// LogDrug records one medication intake for a user.
func (r *Repository) LogDrug(ctx context.Context, userID int64, name string, dosage decimal.Decimal, comment string) error {
	query := `
		INSERT INTO drug_log (user_id, name, dosage, comment, logged_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), now())
	`

	if _, err := r.db.ExecContext(ctx, query, userID, name, dosage, comment); err != nil {
		return fmt.Errorf("failed to log drug: %w", err)
	}

	return nil
}

// ListForDay returns the drug entries logged on one calendar day, oldest
// first.
func (r *Repository) ListForDay(ctx context.Context, userID int64, day time.Time) ([]DrugEntry, error) {
	start := models.Day(day)
	end := start.AddDate(0, 0, 1)

	query := `
		SELECT id, user_id, name, dosage, comment, logged_at
		FROM drug_log
		WHERE user_id = $1 AND logged_at >= $2 AND logged_at < $3
		ORDER BY logged_at ASC
	`

	var entries []DrugEntry
	if err := r.db.SelectContext(ctx, &entries, query, userID, start, end); err != nil {
		return nil, fmt.Errorf("failed to list drug entries: %w", err)
	}

	return entries, nil
}
