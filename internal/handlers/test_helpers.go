package handlers

import (
	"context"

	"github.com/leaguehq/leaguehq-auth/internal/auth"
	"github.com/leaguehq/leaguehq-auth/internal/models"
	"github.com/leaguehq/leaguehq-auth/internal/services"
)

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, rc auth.RequestContext, input services.RegisterInput) (*services.SessionResponse, error)
	LoginFunc          func(ctx context.Context, rc auth.RequestContext, email, password string) (*services.SessionResponse, error)
	VerifyFunc         func(ctx context.Context, tenant, code string) (*services.UserResponse, error)
	RefreshSessionFunc func(ctx context.Context, rc auth.RequestContext, bearer string) (*services.SessionResponse, error)
	RefreshPairFunc    func(ctx context.Context, rc auth.RequestContext, blob string) (string, error)
	TenantExistsFunc   func(ctx context.Context, rc auth.RequestContext) (bool, error)
}

func (m *MockAuthService) Register(ctx context.Context, rc auth.RequestContext, input services.RegisterInput) (*services.SessionResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, rc, input)
	}
	return nil, models.ErrStorage
}

func (m *MockAuthService) Login(ctx context.Context, rc auth.RequestContext, email, password string) (*services.SessionResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, rc, email, password)
	}
	return nil, models.ErrInvalidCredentials
}

func (m *MockAuthService) Verify(ctx context.Context, tenant, code string) (*services.UserResponse, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, tenant, code)
	}
	return nil, models.ErrNotFound
}

func (m *MockAuthService) RefreshSession(ctx context.Context, rc auth.RequestContext, bearer string) (*services.SessionResponse, error) {
	if m.RefreshSessionFunc != nil {
		return m.RefreshSessionFunc(ctx, rc, bearer)
	}
	return nil, models.ErrInvalidToken
}

func (m *MockAuthService) RefreshPair(ctx context.Context, rc auth.RequestContext, blob string) (string, error) {
	if m.RefreshPairFunc != nil {
		return m.RefreshPairFunc(ctx, rc, blob)
	}
	return "", models.ErrInvalidToken
}

func (m *MockAuthService) TenantExists(ctx context.Context, rc auth.RequestContext) (bool, error) {
	if m.TenantExistsFunc != nil {
		return m.TenantExistsFunc(ctx, rc)
	}
	return false, nil
}

// MockResetService implements ResetServiceInterface for testing
type MockResetService struct {
	RequestFunc func(ctx context.Context, rc auth.RequestContext, email string, meta services.RequestMetadata) (string, error)
	RedeemFunc  func(ctx context.Context, rc auth.RequestContext, opaqueID, newPassword string) error
}

func (m *MockResetService) Request(ctx context.Context, rc auth.RequestContext, email string, meta services.RequestMetadata) (string, error) {
	if m.RequestFunc != nil {
		return m.RequestFunc(ctx, rc, email, meta)
	}
	return "", models.ErrNotFound
}

func (m *MockResetService) Redeem(ctx context.Context, rc auth.RequestContext, opaqueID, newPassword string) error {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, rc, opaqueID, newPassword)
	}
	return models.ErrInvalidToken
}
