package repositories

import (
	"github.com/jackc/pgx/v5"
	"github.com/leaguehq/leaguehq-auth/internal/models"
	"github.com/leaguehq/leaguehq-auth/internal/scoped"
)

var userColumns = []string{
	"id", "tenant", "name", "email", "password_hash", "role",
	"verified", "verification_code", "login_attempts", "blocked_until",
	"deleted", "created_at", "updated_at",
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Tenant, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.Verified, &u.VerificationCode, &u.LoginAttempts, &u.BlockedUntil,
		&u.Deleted, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// UserMapper binds models.User to the users table. The password hash is
// sensitive and stripped from reads unless scoped.WithSensitive is given.
func UserMapper() scoped.Mapper[models.User] {
	return scoped.Mapper[models.User]{
		Table:   "users",
		Columns: userColumns,
		InsertColumns: []string{
			"id", "name", "email", "password_hash", "role",
			"verified", "verification_code",
		},
		Scan: scanUser,
		InsertArgs: func(u models.User) []any {
			return []any{u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Verified, u.VerificationCode}
		},
		Redact: func(u models.User) models.User {
			u.PasswordHash = ""
			return u
		},
		SoftDelete: true,
	}
}

var resetTokenColumns = []string{
	"id", "tenant", "email", "opaque_id", "used", "expires_at",
	"ip_request", "user_agent", "country", "created_at", "updated_at",
}

func scanResetToken(row pgx.Row) (models.ResetToken, error) {
	var t models.ResetToken
	err := row.Scan(
		&t.ID, &t.Tenant, &t.Email, &t.OpaqueID, &t.Used, &t.ExpiresAt,
		&t.IPRequest, &t.UserAgent, &t.Country, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// ResetTokenMapper binds models.ResetToken to the reset_tokens table. The
// opaque id is the external handle, not a secret derivative, so nothing here
// is redacted.
func ResetTokenMapper() scoped.Mapper[models.ResetToken] {
	return scoped.Mapper[models.ResetToken]{
		Table:   "reset_tokens",
		Columns: resetTokenColumns,
		InsertColumns: []string{
			"id", "email", "opaque_id", "expires_at",
			"ip_request", "user_agent", "country",
		},
		Scan: scanResetToken,
		InsertArgs: func(t models.ResetToken) []any {
			return []any{t.ID, t.Email, t.OpaqueID, t.ExpiresAt, t.IPRequest, t.UserAgent, t.Country}
		},
	}
}

// SettingsMapper binds models.Settings to the settings table.
func SettingsMapper() scoped.Mapper[models.Settings] {
	return scoped.Mapper[models.Settings]{
		Table:         "settings",
		Columns:       []string{"id", "tenant", "name", "owner_id", "deleted", "created_at", "updated_at"},
		InsertColumns: []string{"id", "name", "owner_id"},
		Scan: func(row pgx.Row) (models.Settings, error) {
			var s models.Settings
			err := row.Scan(&s.ID, &s.Tenant, &s.Name, &s.OwnerID, &s.Deleted, &s.CreatedAt, &s.UpdatedAt)
			return s, err
		},
		InsertArgs: func(s models.Settings) []any {
			return []any{s.ID, s.Name, s.OwnerID}
		},
		SoftDelete: true,
	}
}
