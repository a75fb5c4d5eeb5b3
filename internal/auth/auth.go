// Package auth is the credential service: it hashes and verifies passwords
// and issues/verifies time-limited bearer tokens. It is thin plumbing around
// bcrypt and HS256 JWTs, with an optional Redis-backed revocation list.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// HashPassword returns a bcrypt digest of the given secret.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the secret matches the stored digest.
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// Manager issues and verifies bearer tokens.
type Manager struct {
	secret  []byte
	ttl     time.Duration
	revoked *RevocationList
}

// NewManager creates a token manager. revoked may be nil, in which case
// revocation checks are skipped and Revoke is a no-op.
func NewManager(secret string, ttl time.Duration, revoked *RevocationList) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, revoked: revoked}
}

// Issue mints a signed token for the given user id. Each token carries a
// unique jti so it can be revoked individually.
func (m *Manager) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token and returns the user id it was issued
// for. Revoked tokens are rejected when a revocation list is configured.
func (m *Manager) Verify(ctx context.Context, tokenStr string) (string, error) {
	claims, err := m.parse(tokenStr)
	if err != nil {
		return "", err
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return "", fmt.Errorf("revocation check: %w", err)
		}
		if revoked {
			return "", ErrRevokedToken
		}
	}

	return claims.Subject, nil
}

// Revoke invalidates a still-valid token until its natural expiry.
func (m *Manager) Revoke(ctx context.Context, tokenStr string) error {
	if m.revoked == nil {
		// stateless deployment: signout is client-side, just drop the token
		return nil
	}

	claims, err := m.parse(tokenStr)
	if err != nil {
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return m.revoked.Revoke(ctx, claims.ID, ttl)
}

func (m *Manager) parse(tokenStr string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
