// Package auth provides password hashing behind a bounded worker gate and
// the password acceptance policy.
package auth

import (
	"context"
	"errors"
	"runtime"
	"unicode"

	"github.com/leaguehq/leaguehq-auth/internal/models"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 14

// Hasher runs bcrypt under a concurrency gate so a burst of registrations or
// logins cannot saturate the scheduler with KDF work. Hash and Compare honor
// context cancellation while waiting for a slot; once hashing starts it runs
// to completion.
type Hasher struct {
	sem  chan struct{}
	cost int
}

// NewHasher builds a Hasher with the given parallelism. Zero or negative
// picks a default bounded by the machine size.
func NewHasher(parallelism int) *Hasher {
	return NewHasherWithCost(parallelism, bcryptCost)
}

// NewHasherWithCost overrides the bcrypt cost. Production wiring uses
// NewHasher; the low-cost variant keeps test suites fast.
func NewHasherWithCost(parallelism, cost int) *Hasher {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0) * 2
		if parallelism > 4 {
			parallelism = 4
		}
	}
	return &Hasher{sem: make(chan struct{}, parallelism), cost: cost}
}

// Hash derives a bcrypt hash of the password.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.acquire(ctx); err != nil {
		return "", err
	}
	defer h.release()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare checks the password against a stored hash. A mismatch is
// InvalidCredentials; it is indistinguishable from an unknown account at the
// service layer.
func (h *Hasher) Compare(ctx context.Context, hash, password string) error {
	if err := h.acquire(ctx); err != nil {
		return err
	}
	defer h.release()

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return models.ErrInvalidCredentials
		}
		return err
	}
	return nil
}

func (h *Hasher) acquire(ctx context.Context) error {
	select {
	case h.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hasher) release() { <-h.sem }

// ValidatePassword enforces the acceptance policy: 8..128 characters with at
// least three of the four character classes.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return models.ErrValidation.WithMessage("password must be at least 8 characters")
	}
	if len(password) > 128 {
		return models.ErrValidation.WithMessage("password must be at most 128 characters")
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	classes := 0
	for _, ok := range []bool{lower, upper, digit, symbol} {
		if ok {
			classes++
		}
	}
	if classes < 3 {
		return models.ErrValidation.WithMessage("password must mix at least three of: lowercase, uppercase, digits, symbols")
	}
	return nil
}
