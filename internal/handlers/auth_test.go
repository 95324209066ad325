package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/leaguehq/leaguehq-auth/internal/auth"
	"github.com/leaguehq/leaguehq-auth/internal/models"
	"github.com/leaguehq/leaguehq-auth/internal/services"
	httpx "github.com/leaguehq/leaguehq-auth/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(svc *MockAuthService, reset *MockResetService) *AuthHandler {
	if svc == nil {
		svc = &MockAuthService{}
	}
	if reset == nil {
		reset = &MockResetService{}
	}
	return NewAuthHandler(svc, reset, slog.New(slog.DiscardHandler))
}

func withTenant(r *http.Request, tenant string) *http.Request {
	return r.WithContext(auth.WithRequestContext(r.Context(), auth.RequestContext{Tenant: tenant}))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) httpx.Envelope {
	t.Helper()
	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRegister_Success(t *testing.T) {
	svc := &MockAuthService{
		RegisterFunc: func(ctx context.Context, rc auth.RequestContext, input services.RegisterInput) (*services.SessionResponse, error) {
			assert.Equal(t, "acme", rc.Tenant)
			assert.Equal(t, "a@x.com", input.Email)
			return &services.SessionResponse{Session: "opaque", User: &services.UserResponse{ID: "u1"}}, nil
		},
	}
	h := newTestHandler(svc, nil)

	body := `{"name":"Ada","email":"a@x.com","password":"Sup3r$ecret"}`
	req := withTenant(httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)), "acme")
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
}

func TestRegister_MalformedBody(t *testing.T) {
	h := newTestHandler(nil, nil)

	req := withTenant(httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("{nope")), "acme")
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "bad_request", env.Error.Name)
}

func TestRegister_ValidationFailure(t *testing.T) {
	h := newTestHandler(nil, nil)

	body := `{"name":"Ada","email":"not-an-email","password":"Sup3r$ecret"}`
	req := withTenant(httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)), "acme")
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "validation_error", env.Error.Name)
	assert.Contains(t, env.Message, "Email")
}

func TestLogin_InvalidCredentialsEnvelope(t *testing.T) {
	h := newTestHandler(nil, nil)

	body := `{"email":"a@x.com","password":"wrong-password"}`
	req := withTenant(httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)), "acme")
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "invalid_credentials", env.Error.Name)
	assert.Equal(t, http.StatusUnauthorized, env.Error.StatusCode)
}

func TestLogin_BlockedAccount(t *testing.T) {
	svc := &MockAuthService{
		LoginFunc: func(ctx context.Context, rc auth.RequestContext, email, password string) (*services.SessionResponse, error) {
			return nil, models.ErrAccountBlocked
		},
	}
	h := newTestHandler(svc, nil)

	body := `{"email":"a@x.com","password":"Sup3r$ecret"}`
	req := withTenant(httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)), "acme")
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "account_blocked", env.Error.Name)
}

func TestToken_MissingSession(t *testing.T) {
	h := newTestHandler(nil, nil)

	// No session middleware ran, so the context carries no token.
	req := withTenant(httptest.NewRequest(http.MethodGet, "/token", nil), "acme")
	rec := httptest.NewRecorder()

	h.Token(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestToken_UsesSessionFromContext(t *testing.T) {
	svc := &MockAuthService{
		RefreshSessionFunc: func(ctx context.Context, rc auth.RequestContext, bearer string) (*services.SessionResponse, error) {
			assert.Equal(t, "opaque-session", bearer)
			return &services.SessionResponse{Session: "fresh"}, nil
		},
	}
	h := newTestHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/token", nil)
	rc := auth.RequestContext{Tenant: "acme", UserID: "u1", Token: "opaque-session"}
	req = req.WithContext(auth.WithRequestContext(req.Context(), rc))
	rec := httptest.NewRecorder()

	h.Token(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVerifyEmail_PathParams(t *testing.T) {
	svc := &MockAuthService{
		VerifyFunc: func(ctx context.Context, tenant, code string) (*services.UserResponse, error) {
			assert.Equal(t, "acme", tenant)
			assert.Equal(t, "code-123", code)
			return &services.UserResponse{ID: "u1", Verified: true}, nil
		},
	}
	h := newTestHandler(svc, nil)

	router := chi.NewRouter()
	router.Post("/verify/{tenant}/{verificationCode}", h.VerifyEmail)

	req := httptest.NewRequest(http.MethodPost, "/verify/acme/code-123", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestForgotPassword(t *testing.T) {
	reset := &MockResetService{
		RequestFunc: func(ctx context.Context, rc auth.RequestContext, email string, meta services.RequestMetadata) (string, error) {
			assert.Equal(t, "acme", rc.Tenant)
			assert.Equal(t, "a@x.com", email)
			assert.Equal(t, "test-agent", meta.UserAgent)
			return "opaque-id", nil
		},
	}
	h := newTestHandler(nil, reset)

	body := `{"email":"a@x.com"}`
	req := withTenant(httptest.NewRequest(http.MethodPost, "/forgot-password", strings.NewReader(body)), "acme")
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()

	h.ForgotPassword(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	// The opaque id travels by email only, never in the response.
	assert.Nil(t, env.Data)
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	h := newTestHandler(nil, nil)

	body := `{"email":"ghost@x.com"}`
	req := withTenant(httptest.NewRequest(http.MethodPost, "/forgot-password", strings.NewReader(body)), "acme")
	rec := httptest.NewRecorder()

	h.ForgotPassword(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetPassword_PassesOpaqueID(t *testing.T) {
	reset := &MockResetService{
		RedeemFunc: func(ctx context.Context, rc auth.RequestContext, opaqueID, newPassword string) error {
			assert.Equal(t, "abc123", opaqueID)
			assert.Equal(t, "N3w$ecret123", newPassword)
			return nil
		},
	}
	h := newTestHandler(nil, reset)

	body := `{"newPassword":"N3w$ecret123"}`
	req := withTenant(httptest.NewRequest(http.MethodPost, "/reset-password?urlId=abc123", strings.NewReader(body)), "acme")
	rec := httptest.NewRecorder()

	h.ResetPassword(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPassword_SpentToken(t *testing.T) {
	h := newTestHandler(nil, nil)

	body := `{"newPassword":"N3w$ecret123"}`
	req := withTenant(httptest.NewRequest(http.MethodPost, "/reset-password?urlId=spent", strings.NewReader(body)), "acme")
	rec := httptest.NewRecorder()

	h.ResetPassword(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "invalid_token", env.Error.Name)
}

func TestExists(t *testing.T) {
	svc := &MockAuthService{
		TenantExistsFunc: func(ctx context.Context, rc auth.RequestContext) (bool, error) {
			return rc.Tenant == "acme", nil
		},
	}
	h := newTestHandler(svc, nil)

	req := withTenant(httptest.NewRequest(http.MethodGet, "/exists", nil), "acme")
	rec := httptest.NewRecorder()
	h.Exists(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["exists"])
}
