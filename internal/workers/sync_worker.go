package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/vitals-bot/internal/adapters/provider"
	"github.com/selivandex/vitals-bot/internal/observations"
	"github.com/selivandex/vitals-bot/internal/users"
	"github.com/selivandex/vitals-bot/pkg/logger"
	"github.com/selivandex/vitals-bot/pkg/models"
)

// SyncWorker pulls recent daily payloads from the provider for every linked
// user and upserts them into the observation store. Re-fetching the trailing
// days picks up late-arriving corrections from the provider.
type SyncWorker struct {
	users        *users.Repository
	observations *observations.Repository
	client       *provider.Client
	depthDays    int
}

// NewSyncWorker creates new provider sync worker
func NewSyncWorker(usersRepo *users.Repository, obsRepo *observations.Repository, client *provider.Client, depthDays int) *SyncWorker {
	return &SyncWorker{
		users:        usersRepo,
		observations: obsRepo,
		client:       client,
		depthDays:    depthDays,
	}
}

// Name returns worker name for logging
func (w *SyncWorker) Name() string {
	return "provider_sync"
}

// Run executes one sync pass over all linked users
func (w *SyncWorker) Run(ctx context.Context) error {
	linked, err := w.users.ListLinked(ctx)
	if err != nil {
		return fmt.Errorf("failed to list linked users: %w", err)
	}

	if len(linked) == 0 {
		logger.Debug("no linked users to sync")
		return nil
	}

	var failures int
	for _, user := range linked {
		if err := w.SyncUser(ctx, user); err != nil {
			failures++
			logger.Error("user sync failed",
				zap.Int64("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	logger.Info("provider sync pass finished",
		zap.Int("users", len(linked)),
		zap.Int("failures", failures),
	)

	if failures == len(linked) {
		return fmt.Errorf("sync failed for all %d users", failures)
	}
	return nil
}

// SyncUser fetches the trailing window of daily payloads for one user.
func (w *SyncWorker) SyncUser(ctx context.Context, user users.User) error {
	if !user.Linked() {
		return fmt.Errorf("user %d has no provider login", user.ID)
	}

	today := models.Day(time.Now())
	var stored int

	for offset := 0; offset < w.depthDays; offset++ {
		day := today.AddDate(0, 0, -offset)

		for _, category := range models.AllCategories {
			payload, err := w.client.FetchDaily(ctx, *user.ProviderLogin, day, category)
			if err != nil {
				if errors.Is(err, provider.ErrNoData) {
					continue
				}
				return fmt.Errorf("fetch %s for %s: %w", category, models.FormatDay(day), err)
			}

			if err := w.observations.Upsert(ctx, user.ID, day, category, payload); err != nil {
				return fmt.Errorf("store %s for %s: %w", category, models.FormatDay(day), err)
			}
			stored++
		}
	}

	logger.Debug("user synced",
		zap.Int64("user_id", user.ID),
		zap.Int("observations", stored),
	)
	return nil
}
