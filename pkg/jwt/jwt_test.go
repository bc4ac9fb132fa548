package jwt

import (
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestManager(t *testing.T, clock *fakeClock) *Manager {
	t.Helper()
	m, err := NewManager("test-secret", DefaultExpiry, WithClock(clock.Now))
	require.NoError(t, err)
	return m
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("", DefaultExpiry)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestNewManagerDefaultsExpiry(t *testing.T) {
	m, err := NewManager("s", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultExpiry, m.Expiry())
}

func TestTokenRoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(t, clock)

	token, expiresAt, err := m.GenerateToken("64b000000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(7*24*time.Hour), expiresAt)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64b000000000000000000001", claims.UserID)
}

func TestTokenExpiresAfterSevenDays(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: issued}
	m := newTestManager(t, clock)

	token, _, err := m.GenerateToken("user-1")
	require.NoError(t, err)

	clock.t = issued.Add(7*24*time.Hour - time.Second)
	_, err = m.ValidateToken(token)
	assert.NoError(t, err)

	clock.t = issued.Add(7*24*time.Hour + time.Second)
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	other, err := NewManager("another-secret", DefaultExpiry, WithClock(clock.Now))
	require.NoError(t, err)
	token, _, err := other.GenerateToken("user-1")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbageAndUnsignedTokens(t *testing.T) {
	m := newTestManager(t, &fakeClock{t: time.Now()})

	_, err := m.ValidateToken("not-a-token")
	assert.True(t, errors.Is(err, ErrInvalidToken))

	unsigned := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, Claims{
		UserID: "user-1",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := unsigned.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.ValidateToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
