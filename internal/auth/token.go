// Package auth holds the token and lockout primitives shared by the service
// layer: an opaque-token manager that signs then encrypts, a lockout guard
// over atomic counter updates, and the per-request context value.
package auth

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leaguehq/leaguehq-auth/internal/config"
	"github.com/leaguehq/leaguehq-auth/internal/models"
)

// TokenManager issues and verifies opaque session credentials. Each
// credential is an HS256-signed JWT sealed inside AES-256-CBC, so clients
// hold a blob they can neither read nor forge. Verification failures of any
// kind collapse to the same error value.
type TokenManager struct {
	signingSecret        []byte
	refreshSigningSecret []byte
	encryptionKey        []byte

	sessionTTL time.Duration
	accessTTL  time.Duration
	refreshTTL time.Duration

	now func() time.Time
}

func NewTokenManager(cfg config.AuthConfig) (*TokenManager, error) {
	key, err := deriveKey(cfg.EncryptionSecret)
	if err != nil {
		return nil, err
	}
	return &TokenManager{
		signingSecret:        []byte(cfg.SigningSecret),
		refreshSigningSecret: []byte(cfg.RefreshSigningSecret),
		encryptionKey:        key,
		sessionTTL:           cfg.SessionTokenExpiry,
		accessTTL:            cfg.AccessTokenExpiry,
		refreshTTL:           cfg.RefreshTokenExpiry,
		now:                  time.Now,
	}, nil
}

// Issue mints an opaque session token for the user.
func (m *TokenManager) Issue(userID string) (string, error) {
	signed, err := m.sign(models.TokenTypeSession, userID, m.sessionTTL, m.signingSecret)
	if err != nil {
		return "", err
	}
	return seal(m.encryptionKey, []byte(signed))
}

// Verify unwraps and validates a session token and returns the user it was
// issued to. Garbage input, tampering, a bad signature, and expiry are
// indistinguishable to the caller.
func (m *TokenManager) Verify(token string) (string, error) {
	inner, err := open(m.encryptionKey, token)
	if err != nil {
		return "", models.ErrInvalidToken
	}

	claims, err := m.parse(string(inner), m.signingSecret)
	if err != nil {
		return "", models.ErrInvalidToken
	}
	if claims.Type != models.TokenTypeSession && claims.Type != models.TokenTypeAccess {
		return "", models.ErrInvalidToken
	}
	return claims.UserID, nil
}

// IssuePair mints a short-lived access token and a long-lived refresh token,
// sealed together as one opaque blob.
func (m *TokenManager) IssuePair(userID string) (string, error) {
	access, err := m.sign(models.TokenTypeAccess, userID, m.accessTTL, m.signingSecret)
	if err != nil {
		return "", err
	}
	refresh, err := m.sign(models.TokenTypeRefresh, userID, m.refreshTTL, m.refreshSigningSecret)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(models.TokenPair{Access: access, Refresh: refresh})
	if err != nil {
		return "", fmt.Errorf("encoding token pair: %w", err)
	}
	return seal(m.encryptionKey, payload)
}

// Refresh validates the refresh half of a pair blob and reissues a fresh
// pair. An expired or malformed refresh token reports the same error as any
// other invalid credential.
func (m *TokenManager) Refresh(blob string) (string, error) {
	inner, err := open(m.encryptionKey, blob)
	if err != nil {
		return "", models.ErrInvalidToken
	}

	var pair models.TokenPair
	if err := json.Unmarshal(inner, &pair); err != nil {
		return "", models.ErrInvalidToken
	}

	claims, err := m.parse(pair.Refresh, m.refreshSigningSecret)
	if err != nil || claims.Type != models.TokenTypeRefresh {
		return "", models.ErrInvalidToken
	}
	return m.IssuePair(claims.UserID)
}

func (m *TokenManager) sign(tokenType, userID string, ttl time.Duration, secret []byte) (string, error) {
	now := m.now()
	claims := models.TokenClaims{
		Type:   tokenType,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (m *TokenManager) parse(signed string, secret []byte) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, models.ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, models.ErrInvalidToken
	}
	return claims, nil
}
