package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/leaguehq/leaguehq-auth/internal/database"
	"github.com/leaguehq/leaguehq-auth/internal/models"
	"github.com/leaguehq/leaguehq-auth/internal/scoped"
)

// ResetTokenRepository persists password-reset tokens. Redemption is a
// compare-and-set update so a token can be consumed exactly once even under
// concurrent redeem attempts.
type ResetTokenRepository struct {
	*scoped.Repository[models.ResetToken]
	q scoped.Querier
}

func NewResetTokenRepository(q scoped.Querier) *ResetTokenRepository {
	return &ResetTokenRepository{
		Repository: scoped.New(q, ResetTokenMapper()),
		q:          q,
	}
}

// WithQuerier rebinds the repository, typically to a transaction.
func (r *ResetTokenRepository) WithQuerier(q scoped.Querier) *ResetTokenRepository {
	return &ResetTokenRepository{Repository: r.Repository.WithQuerier(q), q: q}
}

// Create lowercases the email so lookups are case-insensitive.
func (r *ResetTokenRepository) Create(ctx context.Context, tenant string, token models.ResetToken) (models.ResetToken, error) {
	token.Email = strings.ToLower(token.Email)
	return r.Repository.Create(ctx, tenant, token)
}

// FindActiveByEmail returns the live (unused, unexpired) token for the email
// within the tenant, if one exists.
func (r *ResetTokenRepository) FindActiveByEmail(ctx context.Context, tenant, email string) (models.ResetToken, error) {
	query := `
		SELECT ` + strings.Join(resetTokenColumns, ", ") + `
		FROM reset_tokens
		WHERE tenant = $1 AND email = $2 AND used = false AND expires_at > now()
		ORDER BY created_at DESC
		LIMIT 1`

	token, err := scanResetToken(r.q.QueryRow(ctx, query, tenant, strings.ToLower(email)))
	if err != nil {
		return models.ResetToken{}, database.MapPostgresError(err)
	}
	return token, nil
}

// FindByOpaqueID returns the token addressed by its external handle.
func (r *ResetTokenRepository) FindByOpaqueID(ctx context.Context, tenant, opaqueID string) (models.ResetToken, error) {
	return r.FindOne(ctx, tenant, scoped.Filter{scoped.Eq("opaque_id", opaqueID)})
}

// Extend pushes the expiry of an existing live token forward. Repeated
// forgot-password requests reuse the outstanding token instead of minting a
// new one, so the emailed link stays valid.
func (r *ResetTokenRepository) Extend(ctx context.Context, tenant, id string, expiresAt time.Time) (models.ResetToken, error) {
	query := `
		UPDATE reset_tokens
		SET expires_at = $3, updated_at = now()
		WHERE tenant = $1 AND id = $2 AND used = false
		RETURNING ` + strings.Join(resetTokenColumns, ", ")

	token, err := scanResetToken(r.q.QueryRow(ctx, query, tenant, id, expiresAt))
	if err != nil {
		return models.ResetToken{}, database.MapPostgresError(err)
	}
	return token, nil
}

// Redeem consumes the token in one compare-and-set statement. A miss means
// the token is unknown, already used, or expired; callers treat all three
// identically.
func (r *ResetTokenRepository) Redeem(ctx context.Context, tenant, opaqueID string) (models.ResetToken, error) {
	query := `
		UPDATE reset_tokens
		SET used = true, updated_at = now()
		WHERE tenant = $1 AND opaque_id = $2 AND used = false AND expires_at > now()
		RETURNING ` + strings.Join(resetTokenColumns, ", ")

	token, err := scanResetToken(r.q.QueryRow(ctx, query, tenant, opaqueID))
	if err != nil {
		return models.ResetToken{}, database.MapPostgresError(err)
	}
	return token, nil
}

// DeleteExpired removes consumed tokens and tokens past their expiry by the
// given grace period. It runs across tenants from the cleanup job.
func (r *ResetTokenRepository) DeleteExpired(ctx context.Context, grace time.Duration) (int64, error) {
	query := `
		DELETE FROM reset_tokens
		WHERE used = true OR expires_at < now() - make_interval(secs => $1)`

	tag, err := r.q.Exec(ctx, query, int64(grace.Seconds()))
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return tag.RowsAffected(), nil
}
