package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leaguehq/leaguehq-auth/internal/auth"
	"github.com/leaguehq/leaguehq-auth/internal/models"
	"github.com/leaguehq/leaguehq-auth/internal/scoped"
	pkgauth "github.com/leaguehq/leaguehq-auth/pkg/auth"
	"github.com/leaguehq/leaguehq-auth/pkg/logger"
)

// ResetTokenStore is the token persistence the reset flow needs.
type ResetTokenStore interface {
	FindActiveByEmail(ctx context.Context, tenant, email string) (models.ResetToken, error)
	Create(ctx context.Context, tenant string, token models.ResetToken) (models.ResetToken, error)
	Extend(ctx context.Context, tenant, id string, expiresAt time.Time) (models.ResetToken, error)
}

// RedeemFlow is the transactional consume-and-update step, implemented by
// repositories.ResetFlow.
type RedeemFlow interface {
	RedeemAndUpdatePassword(ctx context.Context, tenant, opaqueID string, hashPassword func(context.Context) (string, error)) (models.ResetToken, error)
}

// RequestMetadata is informational context recorded with a reset request.
type RequestMetadata struct {
	IP        string
	UserAgent string
	Country   string
}

// ResetService drives the forgot-password / reset-password flow. Tokens are
// single-use, time-bounded, and addressed by an opaque random handle that
// derives from no secret.
type ResetService struct {
	users  UserStore
	tokens ResetTokenStore
	flow   RedeemFlow
	email  EmailSender
	hasher *pkgauth.Hasher
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewResetService(users UserStore, tokens ResetTokenStore, flow RedeemFlow, email EmailSender, hasher *pkgauth.Hasher, ttl time.Duration, log *slog.Logger) *ResetService {
	return &ResetService{
		users:  users,
		tokens: tokens,
		flow:   flow,
		email:  email,
		hasher: hasher,
		ttl:    ttl,
		logger: log,
		now:    time.Now,
	}
}

// Request issues (or re-issues) a reset token for the email and sends the
// reset link. An unknown email reports not-found to the caller; a live
// outstanding token is extended rather than replaced, so the most recently
// emailed link always works.
func (s *ResetService) Request(ctx context.Context, rc auth.RequestContext, email string, meta RequestMetadata) (string, error) {
	user, err := s.users.FindByEmail(ctx, rc.Tenant, email, scoped.Required("user not found"))
	if err != nil {
		return "", err
	}

	token, err := s.tokens.FindActiveByEmail(ctx, rc.Tenant, email)
	switch {
	case err == nil:
		token, err = s.tokens.Extend(ctx, rc.Tenant, token.ID, s.now().Add(s.ttl))
		if err != nil {
			return "", err
		}
	case errors.Is(err, models.ErrNotFound):
		opaqueID, err := newOpaqueID()
		if err != nil {
			return "", err
		}
		token, err = s.tokens.Create(ctx, rc.Tenant, models.ResetToken{
			ID:        uuid.NewString(),
			Email:     user.Email,
			OpaqueID:  opaqueID,
			ExpiresAt: s.now().Add(s.ttl),
			IPRequest: meta.IP,
			UserAgent: meta.UserAgent,
			Country:   meta.Country,
		})
		if err != nil {
			return "", err
		}
	default:
		return "", err
	}

	if err := s.email.SendPasswordReset(ctx, user.Email, user.Name, rc.Tenant, token.OpaqueID); err != nil {
		s.logger.Error("reset email delivery failed",
			slog.String("tenant", rc.Tenant),
			slog.String("email", logger.MaskEmail(user.Email)),
			slog.Any("error", err))
		return "", models.ErrStorage.WithMessage("could not send password reset email")
	}

	s.logger.Info("password reset requested",
		slog.String("tenant", rc.Tenant),
		slog.String("email", logger.MaskEmail(user.Email)))
	return token.OpaqueID, nil
}

// Redeem consumes the token and sets the new password in one transaction.
func (s *ResetService) Redeem(ctx context.Context, rc auth.RequestContext, opaqueID, newPassword string) error {
	if opaqueID == "" {
		return models.ErrInvalidToken
	}
	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return err
	}

	token, err := s.flow.RedeemAndUpdatePassword(ctx, rc.Tenant, opaqueID, func(ctx context.Context) (string, error) {
		return s.hasher.Hash(ctx, newPassword)
	})
	if err != nil {
		return err
	}

	s.logger.Info("password reset completed",
		slog.String("tenant", rc.Tenant),
		slog.String("email", logger.MaskEmail(token.Email)))
	return nil
}

// newOpaqueID returns 32 random bytes hex-encoded, the external handle of a
// reset token.
func newOpaqueID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating reset token id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
