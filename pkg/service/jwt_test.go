package service

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nbd-crr/pkg/errors"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, zap.NewNop())

	token, err := svc.GenerateToken("sid-1", "priya")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "priya", claims.UserName)
}

func TestJWT_Expired(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, zap.NewNop()).(*jwtService)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := svc.GenerateToken("sid-1", "priya")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, errors.ErrTokenExpired)
}

func TestJWT_WrongSecret(t *testing.T) {
	token, err := NewJWTService("one", time.Hour, zap.NewNop()).GenerateToken("sid", "u")
	require.NoError(t, err)

	_, err = NewJWTService("two", time.Hour, zap.NewNop()).ValidateToken(token)
	assert.ErrorIs(t, err, errors.ErrInvalidToken)
}

func TestJWT_RejectsTokenWithoutSession(t *testing.T) {
	claims := &JwtCustomClaim{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTService("secret", time.Hour, zap.NewNop()).ValidateToken(token)
	assert.ErrorIs(t, err, errors.ErrInvalidToken)
}
