package services

import (
	"context"
	"testing"
	"time"

	"github.com/leaguehq/leaguehq-auth/internal/auth"
	"github.com/leaguehq/leaguehq-auth/internal/models"
	"github.com/leaguehq/leaguehq-auth/internal/scoped"
	pkgauth "github.com/leaguehq/leaguehq-auth/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resetFixture struct {
	svc    *ResetService
	users  *MockUserStore
	tokens *MockResetTokenStore
	flow   *MockRedeemFlow
	emails *MockEmailSender
}

func newResetFixture(t *testing.T) *resetFixture {
	t.Helper()
	fx := &resetFixture{
		users:  &MockUserStore{},
		tokens: &MockResetTokenStore{},
		flow:   &MockRedeemFlow{},
		emails: &MockEmailSender{},
	}
	fx.svc = NewResetService(fx.users, fx.tokens, fx.flow, fx.emails,
		pkgauth.NewHasherWithCost(2, 4), time.Hour, discardLogger())
	return fx
}

func knownUser(fx *resetFixture) {
	fx.users.FindByEmailFunc = func(ctx context.Context, tenant, email string, opts ...scoped.FindOption) (models.User, error) {
		return models.User{ID: "u1", Tenant: tenant, Name: "Ada", Email: "a@x.com"}, nil
	}
}

func TestRequest_CreatesFreshToken(t *testing.T) {
	fx := newResetFixture(t)
	knownUser(fx)

	var created models.ResetToken
	fx.tokens.CreateFunc = func(ctx context.Context, tenant string, token models.ResetToken) (models.ResetToken, error) {
		created = token
		created.Tenant = tenant
		return created, nil
	}

	var sentOpaqueID string
	fx.emails.SendPasswordResetFunc = func(ctx context.Context, to, name, tenant, opaqueID string) error {
		sentOpaqueID = opaqueID
		return nil
	}

	opaqueID, err := fx.svc.Request(context.Background(), auth.RequestContext{Tenant: "acme"}, "a@x.com",
		RequestMetadata{IP: "203.0.113.9", UserAgent: "cli", Country: "DE"})
	require.NoError(t, err)

	assert.Len(t, opaqueID, 64, "hex of 32 random bytes")
	assert.Equal(t, opaqueID, created.OpaqueID)
	assert.Equal(t, opaqueID, sentOpaqueID)
	assert.Equal(t, "203.0.113.9", created.IPRequest)
	assert.WithinDuration(t, time.Now().Add(time.Hour), created.ExpiresAt, time.Minute)
}

func TestRequest_UnknownEmail(t *testing.T) {
	fx := newResetFixture(t)
	fx.users.FindByEmailFunc = func(ctx context.Context, tenant, email string, opts ...scoped.FindOption) (models.User, error) {
		return models.User{}, models.ErrNotFound.WithMessage("user not found")
	}

	_, err := fx.svc.Request(context.Background(), auth.RequestContext{Tenant: "acme"}, "ghost@x.com", RequestMetadata{})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRequest_ExtendsOutstandingToken(t *testing.T) {
	fx := newResetFixture(t)
	knownUser(fx)

	existing := models.ResetToken{ID: "t1", Tenant: "acme", Email: "a@x.com", OpaqueID: "existing-opaque-id"}
	fx.tokens.FindActiveByEmailFunc = func(ctx context.Context, tenant, email string) (models.ResetToken, error) {
		return existing, nil
	}

	var extendedTo time.Time
	fx.tokens.ExtendFunc = func(ctx context.Context, tenant, id string, expiresAt time.Time) (models.ResetToken, error) {
		assert.Equal(t, "t1", id)
		extendedTo = expiresAt
		existing.ExpiresAt = expiresAt
		return existing, nil
	}

	createCalled := false
	fx.tokens.CreateFunc = func(ctx context.Context, tenant string, token models.ResetToken) (models.ResetToken, error) {
		createCalled = true
		return token, nil
	}

	opaqueID, err := fx.svc.Request(context.Background(), auth.RequestContext{Tenant: "acme"}, "a@x.com", RequestMetadata{})
	require.NoError(t, err)

	assert.Equal(t, "existing-opaque-id", opaqueID, "outstanding link stays valid")
	assert.False(t, createCalled)
	assert.WithinDuration(t, time.Now().Add(time.Hour), extendedTo, time.Minute)
}

func TestRequest_EmailFailureSurfaces(t *testing.T) {
	fx := newResetFixture(t)
	knownUser(fx)
	fx.emails.SendPasswordResetFunc = func(ctx context.Context, to, name, tenant, opaqueID string) error {
		return assert.AnError
	}

	_, err := fx.svc.Request(context.Background(), auth.RequestContext{Tenant: "acme"}, "a@x.com", RequestMetadata{})
	assert.ErrorIs(t, err, models.ErrStorage)
}

func TestRedeem_HashesAndDelegates(t *testing.T) {
	fx := newResetFixture(t)

	fx.flow.RedeemAndUpdatePasswordFunc = func(ctx context.Context, tenant, opaqueID string, hashPassword func(context.Context) (string, error)) (models.ResetToken, error) {
		assert.Equal(t, "acme", tenant)
		assert.Equal(t, "abc", opaqueID)
		hash, err := hashPassword(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, "N3w$ecret123", hash)
		return models.ResetToken{Email: "a@x.com", Used: true}, nil
	}

	err := fx.svc.Redeem(context.Background(), auth.RequestContext{Tenant: "acme"}, "abc", "N3w$ecret123")
	assert.NoError(t, err)
}

func TestRedeem_InvalidToken(t *testing.T) {
	fx := newResetFixture(t)

	err := fx.svc.Redeem(context.Background(), auth.RequestContext{Tenant: "acme"}, "spent-or-unknown", "N3w$ecret123")
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestRedeem_EmptyOpaqueID(t *testing.T) {
	fx := newResetFixture(t)

	err := fx.svc.Redeem(context.Background(), auth.RequestContext{Tenant: "acme"}, "", "N3w$ecret123")
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestRedeem_WeakPasswordRejectedBeforeRedeem(t *testing.T) {
	fx := newResetFixture(t)

	flowCalled := false
	fx.flow.RedeemAndUpdatePasswordFunc = func(ctx context.Context, tenant, opaqueID string, hashPassword func(context.Context) (string, error)) (models.ResetToken, error) {
		flowCalled = true
		return models.ResetToken{}, nil
	}

	err := fx.svc.Redeem(context.Background(), auth.RequestContext{Tenant: "acme"}, "abc", "weak")
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.False(t, flowCalled, "a weak password must not consume the token")
}
