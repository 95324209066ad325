package models

import (
	"time"
)

// ResetToken is a single-use, time-bounded password-reset record. OpaqueID is
// the URL-safe external reference handed to the user; it is random, not a
// derivative of any secret. Request metadata is informational only.
type ResetToken struct {
	ID        string
	Tenant    string
	Email     string
	OpaqueID  string
	Used      bool
	ExpiresAt time.Time
	IPRequest string
	UserAgent string
	Country   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExpired checks if the token has passed its expiry.
func (t *ResetToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IsActive reports whether the token can still be redeemed.
func (t *ResetToken) IsActive(now time.Time) bool {
	return !t.Used && !t.IsExpired(now)
}
