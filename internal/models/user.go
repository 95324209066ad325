package models

import (
	"time"
)

// User is the credential record persisted per tenant. Email is unique within
// a tenant, never globally. Records are soft-deleted only.
type User struct {
	ID               string
	Tenant           string
	Name             string
	Email            string
	PasswordHash     string // suppressed by default reads; opt in via scoped.WithSensitive
	Role             string // "admin", "organizer", "referee", "team_member", "viewer"
	Verified         bool
	VerificationCode string // empty once verified
	LoginAttempts    int
	BlockedUntil     time.Time // epoch zero means not blocked
	Deleted          bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsBlocked reports whether the account is inside a lockout window.
func (u *User) IsBlocked(now time.Time) bool {
	return u.BlockedUntil.After(now)
}
