package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// User binds a Telegram chat to a stored account and, optionally, a provider
// login used by the sync worker.
type User struct {
	ID            int64     `db:"id"`
	ChatID        int64     `db:"chat_id"`
	ProviderLogin *string   `db:"provider_login"`
	CreatedAt     time.Time `db:"created_at"`
}

// Linked reports whether the user has a provider login to sync from.
func (u User) Linked() bool {
	return u.ProviderLogin != nil && *u.ProviderLogin != ""
}

// Repository handles database operations for users
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new users repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// EnsureByChatID returns the user for a chat, creating it on first contact.
func (r *Repository) EnsureByChatID(ctx context.Context, chatID int64) (*User, error) {
	query := `
		INSERT INTO users (chat_id)
		VALUES ($1)
		ON CONFLICT (chat_id) DO UPDATE SET chat_id = EXCLUDED.chat_id
		RETURNING id, chat_id, provider_login, created_at
	`

	var user User
	if err := r.db.GetContext(ctx, &user, query, chatID); err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}

	return &user, nil
}

// GetByChatID returns the user for a chat, or nil when unknown.
func (r *Repository) GetByChatID(ctx context.Context, chatID int64) (*User, error) {
	query := `
		SELECT id, chat_id, provider_login, created_at
		FROM users
		WHERE chat_id = $1
	`

	var user User
	err := r.db.GetContext(ctx, &user, query, chatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// SetProviderLogin links a provider account to the user.
func (r *Repository) SetProviderLogin(ctx context.Context, userID int64, login string) error {
	query := `UPDATE users SET provider_login = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID, login); err != nil {
		return fmt.Errorf("failed to set provider login: %w", err)
	}

	return nil
}

// ListLinked returns all users with a provider login, for the sync worker.
func (r *Repository) ListLinked(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, chat_id, provider_login, created_at
		FROM users
		WHERE provider_login IS NOT NULL AND provider_login <> ''
		ORDER BY id ASC
	`

	var list []User
	if err := r.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("failed to list linked users: %w", err)
	}

	return list, nil
}
