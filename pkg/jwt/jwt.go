// Package jwt issues and validates the signed session tokens carried in the
// session cookie.
package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v4"
)

// DefaultExpiry is the fixed session lifetime.
const DefaultExpiry = 7 * 24 * time.Hour

var (
	ErrMissingSecret = errors.New("jwt: signing secret is not configured")
	ErrInvalidToken  = errors.New("jwt: invalid token")
	ErrExpiredToken  = errors.New("jwt: token expired")
)

// Claims is the payload of a session token.
type Claims struct {
	UserID string `json:"userId"`
	jwtlib.RegisteredClaims
}

// Manager signs and verifies HS256 session tokens with a server-held secret.
type Manager struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock replaces the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager returns a Manager. An empty secret is a configuration error.
func NewManager(secret string, expiry time.Duration, opts ...Option) (*Manager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	m := &Manager{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Expiry returns the lifetime of issued tokens.
func (m *Manager) Expiry() time.Duration { return m.expiry }

// GenerateToken signs a token for userID valid for the manager's expiry.
func (m *Manager) GenerateToken(userID string) (string, time.Time, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.expiry)

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(issuedAt),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken verifies the signature and expiry of tokenString.
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	// Expiry is checked below against m.now so the clock stays injectable.
	parser := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithoutClaimsValidation(),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwtlib.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !claims.VerifyExpiresAt(m.now(), true) {
		return nil, ErrExpiredToken
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	return claims, nil
}
