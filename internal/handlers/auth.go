package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leaguehq/leaguehq-auth/internal/auth"
	"github.com/leaguehq/leaguehq-auth/internal/models"
	"github.com/leaguehq/leaguehq-auth/internal/services"
	httpx "github.com/leaguehq/leaguehq-auth/pkg/http"
)

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Register(ctx context.Context, rc auth.RequestContext, input services.RegisterInput) (*services.SessionResponse, error)
	Login(ctx context.Context, rc auth.RequestContext, email, password string) (*services.SessionResponse, error)
	Verify(ctx context.Context, tenant, code string) (*services.UserResponse, error)
	RefreshSession(ctx context.Context, rc auth.RequestContext, bearer string) (*services.SessionResponse, error)
	RefreshPair(ctx context.Context, rc auth.RequestContext, blob string) (string, error)
	TenantExists(ctx context.Context, rc auth.RequestContext) (bool, error)
}

// ResetServiceInterface defines the interface for the password-reset flow
type ResetServiceInterface interface {
	Request(ctx context.Context, rc auth.RequestContext, email string, meta services.RequestMetadata) (string, error)
	Redeem(ctx context.Context, rc auth.RequestContext, opaqueID, newPassword string) error
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service AuthServiceInterface
	reset   ResetServiceInterface
	logger  *slog.Logger
}

func NewAuthHandler(service AuthServiceInterface, reset ResetServiceInterface, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: service, reset: reset, logger: logger}
}

// Request DTOs

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest represents the request body for a reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents the request body for redeeming a reset
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required"`
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if err := ValidateRequest(req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	rc := auth.FromContext(r.Context())
	resp, err := h.service.Register(r.Context(), rc, services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, "user registered", resp)
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if err := ValidateRequest(req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	rc := auth.FromContext(r.Context())
	resp, err := h.service.Login(r.Context(), rc, req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, "login successful", resp)
}

// Token handles GET /token: exchange a live session token for a fresh one.
// The route sits behind auth.RequireSession, which verifies the bearer and
// stores it in the RequestContext.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	rc := auth.FromContext(r.Context())
	if rc.Token == "" {
		httpx.RespondError(w, h.logger, models.ErrInvalidToken.WithMessage("missing bearer token"))
		return
	}

	resp, err := h.service.RefreshSession(r.Context(), rc, rc.Token)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, "session refreshed", resp)
}

// RefreshToken handles POST /refresh-token: exchange a refresh-capable blob
// for a new access/refresh pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	bearer := httpx.BearerToken(r)
	if bearer == "" {
		httpx.RespondError(w, h.logger, models.ErrInvalidToken.WithMessage("missing bearer token"))
		return
	}

	rc := auth.FromContext(r.Context())
	blob, err := h.service.RefreshPair(r.Context(), rc, bearer)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, "token refreshed", map[string]string{"token": blob})
}

// VerifyEmail handles POST /verify/{tenant}/{verificationCode}. The tenant
// rides in the path because the link is opened from an email client, where
// no Origin header points at the tenant app.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	tenantName := chi.URLParam(r, "tenant")
	code := chi.URLParam(r, "verificationCode")

	user, err := h.service.Verify(r.Context(), tenantName, code)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, "email verified", user)
}

// ForgotPassword handles POST /forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if err := ValidateRequest(req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	rc := auth.FromContext(r.Context())
	meta := services.RequestMetadata{
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
		Country:   r.Header.Get("CF-IPCountry"),
	}
	if _, err := h.reset.Request(r.Context(), rc, req.Email, meta); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, "password reset email sent", nil)
}

// ResetPassword handles POST /reset-password?urlId=<opaqueId>
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if err := ValidateRequest(req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}

	rc := auth.FromContext(r.Context())
	opaqueID := r.URL.Query().Get("urlId")
	if err := h.reset.Redeem(r.Context(), rc, opaqueID, req.NewPassword); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, "password updated", nil)
}

// Exists handles GET /exists: tenant availability probe for the signup UI.
func (h *AuthHandler) Exists(w http.ResponseWriter, r *http.Request) {
	rc := auth.FromContext(r.Context())
	exists, err := h.service.TenantExists(r.Context(), rc)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, "ok", map[string]bool{"exists": exists})
}
