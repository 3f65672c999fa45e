// Package auth issues and verifies session tokens and delegates
// credential checks to an external forum client, black-boxed per the
// module's scope.
package auth

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

// ErrAuthInvalid is returned on bad credentials or an unverifiable token.
var ErrAuthInvalid = errors.New("auth: invalid credentials or token")

// ErrAlreadyInRealm is returned when SelectRealm is called with a realm
// different from the one already recorded for the user.
var ErrAlreadyInRealm = errors.New("auth: realm already selected")

// Claims are the stateless contents of a signed session token.
type Claims struct {
	UserID   string `json:"sub"`
	Username string `json:"name"`
	jwt.RegisteredClaims
}

// ForumAuthClient delegates credential verification to the external
// forum system. Implementations must not leak forum-specific types;
// callers only see (userId, username, error).
type ForumAuthClient interface {
	Verify(ctx context.Context, username, password string) (userID, displayName string, err error)
}

// Issuer signs and verifies session tokens with an HS256 key derived via
// HKDF from a single configured secret — the teacher's golang.org/x/crypto
// dependency, repointed from the L2 wire cipher (blowfish) to key
// derivation since this transport is JSON/WebSocket, not a binary
// protocol needing a stream cipher.
type Issuer struct {
	signingKey []byte
	ttl        time.Duration
}

// NewIssuer derives a 32-byte HS256 signing key from secret via HKDF-SHA256
// and returns an Issuer that mints tokens with the given TTL.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte("mapserver-session-token"))
	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("deriving signing key: %w", err)
	}
	return &Issuer{signingKey: key, ttl: ttl}, nil
}

// Issue mints a signed token for a user.
func (i *Issuer) Issue(userID, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.signingKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.signingKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrAuthInvalid
	}
	return &claims, nil
}
