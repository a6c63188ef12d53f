// Package auth issues the two credential kinds the engine recognizes:
// signed host tokens scoped to one room, and opaque per-team session
// tokens handed out when a seat is claimed.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const hostTokenTTL = 24 * time.Hour

type Tokens struct {
	secret []byte
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret)}
}

type hostClaims struct {
	Room string `json:"room"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueHostToken mints a signed token granting host authority over one
// room.
func (t *Tokens) IssueHostToken(roomCode string) (string, error) {
	claims := hostClaims{
		Room: roomCode,
		Role: "host",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(hostTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// VerifyHostToken checks signature, expiry and room scope.
func (t *Tokens) VerifyHostToken(token, roomCode string) bool {
	var claims hostClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return false
	}
	return claims.Room == roomCode && claims.Role == "host"
}

// NewSessionToken mints an opaque team credential.
func NewSessionToken() string {
	return uuid.NewString()
}
