package observations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/selivandex/vitals-bot/pkg/models"
)

// Repository handles database operations for raw daily observations. The
// statistical core only ever reads through it; writes come from the sync
// worker.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new observations repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Upsert stores a raw daily payload for (user, day, category), replacing any
// previous payload for the same key wholesale.
func (r *Repository) Upsert(ctx context.Context, userID int64, day time.Time, category models.DataCategory, payload json.RawMessage) error {
	if !json.Valid(payload) {
		return fmt.Errorf("payload for %s/%s is not valid JSON", category, models.FormatDay(day))
	}

	query := `
		INSERT INTO observations (user_id, day, category, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (user_id, day, category)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
	`

	if _, err := r.db.ExecContext(ctx, query, userID, models.Day(day), string(category), []byte(payload)); err != nil {
		return fmt.Errorf("failed to upsert observation: %w", err)
	}

	return nil
}

// Get returns the observation for one (user, day, category) key, or nil when
// the day has no stored payload for that category.
func (r *Repository) Get(ctx context.Context, userID int64, day time.Time, category models.DataCategory) (*models.Observation, error) {
	query := `
		SELECT id, user_id, day, category, payload, created_at, updated_at
		FROM observations
		WHERE user_id = $1 AND day = $2 AND category = $3
	`

	var obs models.Observation
	err := r.db.GetContext(ctx, &obs, query, userID, models.Day(day), string(category))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get observation: %w", err)
	}

	obs.Day = models.Day(obs.Day)
	return &obs, nil
}

// ListByCategory returns observations for one category over an inclusive day
// range, ordered by day ascending.
func (r *Repository) ListByCategory(ctx context.Context, userID int64, category models.DataCategory, from, to time.Time) ([]models.Observation, error) {
	query := `
		SELECT id, user_id, day, category, payload, created_at, updated_at
		FROM observations
		WHERE user_id = $1 AND category = $2 AND day >= $3 AND day <= $4
		ORDER BY day ASC
	`

	var rows []models.Observation
	err := r.db.SelectContext(ctx, &rows, query, userID, string(category), models.Day(from), models.Day(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list observations: %w", err)
	}

	for i := range rows {
		rows[i].Day = models.Day(rows[i].Day)
	}

	return rows, nil
}
