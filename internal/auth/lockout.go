package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/leaguehq/leaguehq-auth/internal/config"
	"github.com/leaguehq/leaguehq-auth/internal/models"
)

// LockoutStore is the slice of the user repository the guard needs. The
// counter arithmetic lives in SQL so concurrent failures cannot race the
// threshold; the store only relays it.
type LockoutStore interface {
	RecordFailure(ctx context.Context, tenant, userID string, maxAttempts int, blockSeconds int64) (models.User, error)
	ResetOnSuccess(ctx context.Context, tenant, userID string) error
}

// LockoutGuard enforces the failed-login policy: maxAttempts consecutive
// failures open a block window of blockDuration. While blocked, every login
// reports the same error regardless of password correctness and consumes no
// attempt.
type LockoutGuard struct {
	store         LockoutStore
	maxAttempts   int
	blockDuration time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

func NewLockoutGuard(store LockoutStore, cfg config.AuthConfig, logger *slog.Logger) *LockoutGuard {
	return &LockoutGuard{
		store:         store,
		maxAttempts:   cfg.MaxLoginAttempts,
		blockDuration: cfg.BlockDuration,
		logger:        logger,
		now:           time.Now,
	}
}

// CheckBlocked reports AccountBlocked while the user is inside a lockout
// window. Call it before touching the password at all.
func (g *LockoutGuard) CheckBlocked(user models.User) error {
	if user.IsBlocked(g.now()) {
		return models.ErrAccountBlocked
	}
	return nil
}

// RecordFailure counts one failed attempt and reports whether it tripped the
// block.
func (g *LockoutGuard) RecordFailure(ctx context.Context, tenant, userID string) (attempts int, blocked bool, err error) {
	user, err := g.store.RecordFailure(ctx, tenant, userID, g.maxAttempts, int64(g.blockDuration.Seconds()))
	if err != nil {
		return 0, false, err
	}

	blocked = user.IsBlocked(g.now())
	if blocked {
		g.logger.Warn("account blocked after repeated login failures",
			slog.String("tenant", tenant),
			slog.String("user_id", userID),
			slog.Time("blocked_until", user.BlockedUntil),
		)
	}
	return user.LoginAttempts, blocked, nil
}

// ResetOnSuccess clears the counter and any block after a successful login.
func (g *LockoutGuard) ResetOnSuccess(ctx context.Context, tenant, userID string) error {
	return g.store.ResetOnSuccess(ctx, tenant, userID)
}
