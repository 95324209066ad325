package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leaguehq/leaguehq-auth/internal/auth"
	"github.com/leaguehq/leaguehq-auth/internal/models"
	"github.com/leaguehq/leaguehq-auth/internal/scoped"
	pkgauth "github.com/leaguehq/leaguehq-auth/pkg/auth"
	"github.com/leaguehq/leaguehq-auth/pkg/logger"
)

// UserStore is the slice of the user repository the services consume.
type UserStore interface {
	FindByEmail(ctx context.Context, tenant, email string, opts ...scoped.FindOption) (models.User, error)
	FindByID(ctx context.Context, tenant, id string, opts ...scoped.FindOption) (models.User, error)
	Create(ctx context.Context, tenant string, user models.User) (models.User, error)
	EmailExists(ctx context.Context, tenant, email string) (bool, error)
	MarkVerified(ctx context.Context, tenant, code string) (models.User, error)
}

// AuthService orchestrates registration, login, verification, and session
// refresh. Every request arrives with a tenant already resolved from its
// origin; an empty tenant means the origin identified nothing and the
// operation degrades to a scoped miss or an explicit rejection.
type AuthService struct {
	users    UserStore
	settings SettingsStore
	guard    *auth.LockoutGuard
	tm       *auth.TokenManager
	hasher   *pkgauth.Hasher
	email    EmailSender
	logger   *slog.Logger
}

func NewAuthService(users UserStore, settings SettingsStore, guard *auth.LockoutGuard, tm *auth.TokenManager, hasher *pkgauth.Hasher, email EmailSender, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		settings: settings,
		guard:    guard,
		tm:       tm,
		hasher:   hasher,
		email:    email,
		logger:   log,
	}
}

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UserResponse is the client-visible projection of a user. It never carries
// the password hash or the verification code.
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Verified  bool   `json:"verified"`
	CreatedAt string `json:"created_at"`
}

// SettingsResponse is the client-visible projection of tenant settings.
type SettingsResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

// SessionResponse is what register, login, and session refresh return.
type SessionResponse struct {
	Session  string            `json:"session"`
	User     *UserResponse     `json:"user"`
	Settings *SettingsResponse `json:"settings,omitempty"`
}

// Register creates the tenant's owner account, bootstraps its settings, and
// opens a session. The tenant name comes from the origin; a request whose
// origin identifies no tenant cannot register.
func (s *AuthService) Register(ctx context.Context, rc auth.RequestContext, input RegisterInput) (*SessionResponse, error) {
	if rc.Tenant == "" {
		return nil, models.ErrBadRequest.WithMessage("origin does not identify a tenant")
	}

	taken, err := s.settings.Exists(ctx, rc.Tenant)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.ErrDuplicate.WithMessage("tenant is already registered")
	}

	exists, err := s.users.EmailExists(ctx, rc.Tenant, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrDuplicate.WithMessage("email is already registered")
	}

	if err := pkgauth.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, rc.Tenant, models.User{
		ID:               uuid.NewString(),
		Name:             strings.TrimSpace(input.Name),
		Email:            input.Email,
		PasswordHash:     hash,
		Role:             "admin",
		VerificationCode: uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}

	// Delivery failure must not lose the account; the code survives and the
	// email can be re-sent out of band.
	if err := s.email.SendVerification(ctx, user.Email, user.Name, rc.Tenant, user.VerificationCode); err != nil {
		s.logger.Error("verification email delivery failed",
			slog.String("tenant", rc.Tenant),
			slog.String("user_id", user.ID),
			slog.Any("error", err))
	}

	settings, err := s.settings.Create(ctx, rc.Tenant, user.ID)
	if err != nil {
		return nil, err
	}

	session, err := s.tm.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("tenant", rc.Tenant),
		slog.String("user_id", user.ID),
		slog.String("email", logger.MaskEmail(user.Email)))

	return &SessionResponse{
		Session:  session,
		User:     toUserResponse(user),
		Settings: toSettingsResponse(settings),
	}, nil
}

// Login authenticates email and password within the tenant. An unknown email
// and a wrong password are indistinguishable; a blocked account wins over
// password correctness and consumes no attempt. Unverified accounts may log
// in.
func (s *AuthService) Login(ctx context.Context, rc auth.RequestContext, email, password string) (*SessionResponse, error) {
	user, err := s.users.FindByEmail(ctx, rc.Tenant, email, scoped.WithSensitive())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed: unknown account", slog.String("tenant", rc.Tenant))
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.guard.CheckBlocked(user); err != nil {
		s.logger.Warn("login rejected: account blocked",
			slog.String("tenant", rc.Tenant),
			slog.String("user_id", user.ID))
		return nil, err
	}

	if err := s.hasher.Compare(ctx, user.PasswordHash, password); err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			if _, _, rerr := s.guard.RecordFailure(ctx, rc.Tenant, user.ID); rerr != nil {
				s.logger.Error("failed to record login failure",
					slog.String("user_id", user.ID),
					slog.Any("error", rerr))
			}
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.guard.ResetOnSuccess(ctx, rc.Tenant, user.ID); err != nil {
		s.logger.Error("failed to clear login counters",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
	}

	session, err := s.tm.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		slog.String("tenant", rc.Tenant),
		slog.String("user_id", user.ID))

	user.PasswordHash = ""
	return &SessionResponse{
		Session:  session,
		User:     toUserResponse(user),
		Settings: s.settingsFor(ctx, rc.Tenant),
	}, nil
}

// Verify activates the account holding the verification code. Codes are
// single-use.
func (s *AuthService) Verify(ctx context.Context, tenant, code string) (*UserResponse, error) {
	if code == "" {
		return nil, models.ErrValidation.WithMessage("verification code is required")
	}

	user, err := s.users.MarkVerified(ctx, tenant, code)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound.WithMessage("invalid verification code")
		}
		return nil, err
	}

	s.logger.Info("email verified",
		slog.String("tenant", tenant),
		slog.String("user_id", user.ID))
	return toUserResponse(user), nil
}

// RefreshSession validates the bearer session token, confirms the user still
// exists in the tenant, and issues a fresh session.
func (s *AuthService) RefreshSession(ctx context.Context, rc auth.RequestContext, bearer string) (*SessionResponse, error) {
	userID, err := s.tm.Verify(bearer)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, rc.Tenant, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidToken
		}
		return nil, err
	}

	session, err := s.tm.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &SessionResponse{
		Session:  session,
		User:     toUserResponse(user),
		Settings: s.settingsFor(ctx, rc.Tenant),
	}, nil
}

// RefreshPair exchanges a refresh-capable blob for a new access/refresh
// pair.
func (s *AuthService) RefreshPair(ctx context.Context, rc auth.RequestContext, blob string) (string, error) {
	return s.tm.Refresh(blob)
}

// TenantExists reports whether the tenant has been registered, for the
// signup UI.
func (s *AuthService) TenantExists(ctx context.Context, rc auth.RequestContext) (bool, error) {
	if rc.Tenant == "" {
		return false, nil
	}
	return s.settings.Exists(ctx, rc.Tenant)
}

// settingsFor fetches settings for a session response. A missing document is
// tolerated; sessions still open without one.
func (s *AuthService) settingsFor(ctx context.Context, tenant string) *SettingsResponse {
	settings, err := s.settings.Get(ctx, tenant)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("failed to load settings", slog.String("tenant", tenant), slog.Any("error", err))
		}
		return nil
	}
	return toSettingsResponse(settings)
}

func toUserResponse(u models.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toSettingsResponse(s models.Settings) *SettingsResponse {
	return &SettingsResponse{ID: s.ID, Name: s.Name, OwnerID: s.OwnerID}
}
