package repositories

import (
	"context"
	"strings"

	"github.com/leaguehq/leaguehq-auth/internal/database"
	"github.com/leaguehq/leaguehq-auth/internal/models"
	"github.com/leaguehq/leaguehq-auth/internal/scoped"
)

// UserRepository persists credential records. Generic reads and writes go
// through the scoped repository; the lockout counters use single-statement
// conditional updates so concurrent logins can never race the threshold.
type UserRepository struct {
	*scoped.Repository[models.User]
	q scoped.Querier
}

func NewUserRepository(q scoped.Querier) *UserRepository {
	return &UserRepository{
		Repository: scoped.New(q, UserMapper()),
		q:          q,
	}
}

// WithQuerier rebinds the repository, typically to a transaction.
func (r *UserRepository) WithQuerier(q scoped.Querier) *UserRepository {
	return &UserRepository{Repository: r.Repository.WithQuerier(q), q: q}
}

// FindByEmail looks a user up by email within the tenant. Emails are stored
// lowercased, so the lookup lowercases too.
func (r *UserRepository) FindByEmail(ctx context.Context, tenant, email string, opts ...scoped.FindOption) (models.User, error) {
	return r.FindOne(ctx, tenant, scoped.Filter{scoped.Eq("email", strings.ToLower(email))}, opts...)
}

// EmailExists reports whether the email is already registered in the tenant.
func (r *UserRepository) EmailExists(ctx context.Context, tenant, email string) (bool, error) {
	return r.Exists(ctx, tenant, scoped.Filter{scoped.Eq("email", strings.ToLower(email))})
}

// Create lowercases the email before insertion so the per-tenant uniqueness
// constraint is case-insensitive in practice.
func (r *UserRepository) Create(ctx context.Context, tenant string, user models.User) (models.User, error) {
	user.Email = strings.ToLower(user.Email)
	return r.Repository.Create(ctx, tenant, user)
}

// MarkVerified flips the verified flag for the user holding the code. The
// code is single-use: a second call with the same code misses and reports
// not found.
func (r *UserRepository) MarkVerified(ctx context.Context, tenant, code string) (models.User, error) {
	query := `
		UPDATE users
		SET verified = true, verification_code = '', updated_at = now()
		WHERE tenant = $1 AND verification_code = $2 AND verification_code <> ''
		  AND verified = false AND deleted = false
		RETURNING ` + strings.Join(userColumns, ", ")

	user, err := scanUser(r.q.QueryRow(ctx, query, tenant, code))
	if err != nil {
		return models.User{}, database.MapPostgresError(err)
	}
	user.PasswordHash = ""
	return user, nil
}

// RecordFailure increments the login counter in one statement. When the
// incremented counter reaches maxAttempts the same statement zeroes it and
// opens a block window of blockSeconds. Two concurrent failures therefore
// observe distinct counter values and exactly one of them trips the block.
func (r *UserRepository) RecordFailure(ctx context.Context, tenant, userID string, maxAttempts int, blockSeconds int64) (models.User, error) {
	query := `
		UPDATE users
		SET login_attempts = CASE WHEN login_attempts + 1 >= $3 THEN 0 ELSE login_attempts + 1 END,
		    blocked_until  = CASE WHEN login_attempts + 1 >= $3 THEN now() + make_interval(secs => $4) ELSE blocked_until END,
		    updated_at = now()
		WHERE tenant = $1 AND id = $2 AND deleted = false
		RETURNING ` + strings.Join(userColumns, ", ")

	user, err := scanUser(r.q.QueryRow(ctx, query, tenant, userID, maxAttempts, blockSeconds))
	if err != nil {
		return models.User{}, database.MapPostgresError(err)
	}
	user.PasswordHash = ""
	return user, nil
}

// ResetOnSuccess clears the failure counter and any block after a successful
// login or password reset.
func (r *UserRepository) ResetOnSuccess(ctx context.Context, tenant, userID string) error {
	query := `
		UPDATE users
		SET login_attempts = 0, blocked_until = 'epoch', updated_at = now()
		WHERE tenant = $1 AND id = $2 AND deleted = false`

	tag, err := r.q.Exec(ctx, query, tenant, userID)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// UpdatePassword stores a new password hash and clears any lockout state.
// Callers run it inside the redeem transaction so the hash swap and the
// token consumption commit together.
func (r *UserRepository) UpdatePassword(ctx context.Context, tenant, email, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $3, login_attempts = 0, blocked_until = 'epoch', updated_at = now()
		WHERE tenant = $1 AND email = $2 AND deleted = false`

	tag, err := r.q.Exec(ctx, query, tenant, strings.ToLower(email), passwordHash)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
