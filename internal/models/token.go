package models

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeSession = "session"
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims is the inner signed payload of every session credential. The
// client only ever sees the encrypted wrapper, never these fields.
type TokenClaims struct {
	Type   string `json:"typ"`
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// TokenPair bundles the access/refresh variant before it is sealed into a
// single opaque blob.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
