package services

import (
	"context"
	"time"

	"github.com/leaguehq/leaguehq-auth/internal/models"
	"github.com/leaguehq/leaguehq-auth/internal/scoped"
)

// MockUserStore implements UserStore for testing
type MockUserStore struct {
	FindByEmailFunc  func(ctx context.Context, tenant, email string, opts ...scoped.FindOption) (models.User, error)
	FindByIDFunc     func(ctx context.Context, tenant, id string, opts ...scoped.FindOption) (models.User, error)
	CreateFunc       func(ctx context.Context, tenant string, user models.User) (models.User, error)
	EmailExistsFunc  func(ctx context.Context, tenant, email string) (bool, error)
	MarkVerifiedFunc func(ctx context.Context, tenant, code string) (models.User, error)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, tenant, email string, opts ...scoped.FindOption) (models.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, tenant, email, opts...)
	}
	return models.User{}, models.ErrNotFound
}

func (m *MockUserStore) FindByID(ctx context.Context, tenant, id string, opts ...scoped.FindOption) (models.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tenant, id, opts...)
	}
	return models.User{}, models.ErrNotFound
}

func (m *MockUserStore) Create(ctx context.Context, tenant string, user models.User) (models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tenant, user)
	}
	user.Tenant = tenant
	return user, nil
}

func (m *MockUserStore) EmailExists(ctx context.Context, tenant, email string) (bool, error) {
	if m.EmailExistsFunc != nil {
		return m.EmailExistsFunc(ctx, tenant, email)
	}
	return false, nil
}

func (m *MockUserStore) MarkVerified(ctx context.Context, tenant, code string) (models.User, error) {
	if m.MarkVerifiedFunc != nil {
		return m.MarkVerifiedFunc(ctx, tenant, code)
	}
	return models.User{}, models.ErrNotFound
}

// MockSettingsStore implements SettingsStore for testing
type MockSettingsStore struct {
	CreateFunc func(ctx context.Context, tenant, ownerID string) (models.Settings, error)
	GetFunc    func(ctx context.Context, tenant string) (models.Settings, error)
	ExistsFunc func(ctx context.Context, tenant string) (bool, error)
}

func (m *MockSettingsStore) Create(ctx context.Context, tenant, ownerID string) (models.Settings, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tenant, ownerID)
	}
	return models.Settings{ID: "settings_1", Tenant: tenant, Name: tenant, OwnerID: ownerID}, nil
}

func (m *MockSettingsStore) Get(ctx context.Context, tenant string) (models.Settings, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, tenant)
	}
	return models.Settings{}, models.ErrNotFound
}

func (m *MockSettingsStore) Exists(ctx context.Context, tenant string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, tenant)
	}
	return false, nil
}

// MockResetTokenStore implements ResetTokenStore for testing
type MockResetTokenStore struct {
	FindActiveByEmailFunc func(ctx context.Context, tenant, email string) (models.ResetToken, error)
	CreateFunc            func(ctx context.Context, tenant string, token models.ResetToken) (models.ResetToken, error)
	ExtendFunc            func(ctx context.Context, tenant, id string, expiresAt time.Time) (models.ResetToken, error)
}

func (m *MockResetTokenStore) FindActiveByEmail(ctx context.Context, tenant, email string) (models.ResetToken, error) {
	if m.FindActiveByEmailFunc != nil {
		return m.FindActiveByEmailFunc(ctx, tenant, email)
	}
	return models.ResetToken{}, models.ErrNotFound
}

func (m *MockResetTokenStore) Create(ctx context.Context, tenant string, token models.ResetToken) (models.ResetToken, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tenant, token)
	}
	token.Tenant = tenant
	return token, nil
}

func (m *MockResetTokenStore) Extend(ctx context.Context, tenant, id string, expiresAt time.Time) (models.ResetToken, error) {
	if m.ExtendFunc != nil {
		return m.ExtendFunc(ctx, tenant, id, expiresAt)
	}
	return models.ResetToken{}, models.ErrNotFound
}

// MockRedeemFlow implements RedeemFlow for testing
type MockRedeemFlow struct {
	RedeemAndUpdatePasswordFunc func(ctx context.Context, tenant, opaqueID string, hashPassword func(context.Context) (string, error)) (models.ResetToken, error)
}

func (m *MockRedeemFlow) RedeemAndUpdatePassword(ctx context.Context, tenant, opaqueID string, hashPassword func(context.Context) (string, error)) (models.ResetToken, error) {
	if m.RedeemAndUpdatePasswordFunc != nil {
		return m.RedeemAndUpdatePasswordFunc(ctx, tenant, opaqueID, hashPassword)
	}
	return models.ResetToken{}, models.ErrInvalidToken
}

// MockEmailSender implements EmailSender for testing
type MockEmailSender struct {
	SendVerificationFunc  func(ctx context.Context, to, name, tenant, code string) error
	SendPasswordResetFunc func(ctx context.Context, to, name, tenant, opaqueID string) error
}

func (m *MockEmailSender) SendVerification(ctx context.Context, to, name, tenant, code string) error {
	if m.SendVerificationFunc != nil {
		return m.SendVerificationFunc(ctx, to, name, tenant, code)
	}
	return nil
}

func (m *MockEmailSender) SendPasswordReset(ctx context.Context, to, name, tenant, opaqueID string) error {
	if m.SendPasswordResetFunc != nil {
		return m.SendPasswordResetFunc(ctx, to, name, tenant, opaqueID)
	}
	return nil
}

// MockLockoutStore implements auth.LockoutStore for testing
type MockLockoutStore struct {
	RecordFailureFunc  func(ctx context.Context, tenant, userID string, maxAttempts int, blockSeconds int64) (models.User, error)
	ResetOnSuccessFunc func(ctx context.Context, tenant, userID string) error
}

func (m *MockLockoutStore) RecordFailure(ctx context.Context, tenant, userID string, maxAttempts int, blockSeconds int64) (models.User, error) {
	if m.RecordFailureFunc != nil {
		return m.RecordFailureFunc(ctx, tenant, userID, maxAttempts, blockSeconds)
	}
	return models.User{ID: userID, Tenant: tenant, LoginAttempts: 1}, nil
}

func (m *MockLockoutStore) ResetOnSuccess(ctx context.Context, tenant, userID string) error {
	if m.ResetOnSuccessFunc != nil {
		return m.ResetOnSuccessFunc(ctx, tenant, userID)
	}
	return nil
}
