// Package background runs the periodic maintenance jobs.
package background

import (
	"context"
	"log/slog"
	"time"
)

// TokenCleaner removes consumed and long-expired reset tokens.
type TokenCleaner interface {
	DeleteExpired(ctx context.Context, grace time.Duration) (int64, error)
}

// CleanupManager periodically removes spent reset tokens from the database.
// Expired-but-recent tokens are kept for the grace period so support can
// still see why a link stopped working.
type CleanupManager struct {
	cleaner  TokenCleaner
	logger   *slog.Logger
	interval time.Duration
	grace    time.Duration
	stopCh   chan struct{}
}

func NewCleanupManager(cleaner TokenCleaner, logger *slog.Logger, interval, grace time.Duration) *CleanupManager {
	return &CleanupManager{
		cleaner:  cleaner,
		logger:   logger,
		interval: interval,
		grace:    grace,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic cleanup task. It blocks; run it in a goroutine.
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rowsDeleted, err := cm.cleaner.DeleteExpired(cleanupCtx, cm.grace)
	if err != nil {
		cm.logger.Error("failed to cleanup reset tokens", slog.Any("error", err))
		return
	}

	if rowsDeleted > 0 {
		cm.logger.Info("reset token cleanup completed", slog.Int64("rows_deleted", rowsDeleted))
	}
}

// Stop signals the cleanup manager to stop.
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
