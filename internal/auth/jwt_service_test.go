package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "storefront/internal/errors"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	t.Parallel()

	service := NewJWTService("test-secret")

	token, err := service.GenerateToken("user-123", "shopper@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "shopper@example.com", claims.Email)
	assert.Equal(t, Identity{UserID: "user-123", Email: "shopper@example.com"}, claims.Identity())

	lifetime := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
	assert.Equal(t, TokenExpiry, lifetime)
}

func TestJWTService_ValidateToken_Failures(t *testing.T) {
	t.Parallel()

	service := NewJWTService("test-secret")

	expired := NewJWTService("test-secret", WithClock(func() time.Time {
		return time.Now().Add(-8 * 24 * time.Hour)
	}))
	expiredToken, err := expired.GenerateToken("user-1", "old@example.com")
	require.NoError(t, err)

	foreignToken, err := NewJWTService("other-secret").GenerateToken("user-1", "a@example.com")
	require.NoError(t, err)

	valid, err := service.GenerateToken("user-1", "a@example.com")
	require.NoError(t, err)
	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)
	forgedPayload := base64.RawURLEncoding.EncodeToString([]byte(`{"id":"attacker","email":"evil@example.com","exp":9999999999}`))
	tampered := parts[0] + "." + forgedPayload + "." + parts[2]

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "expired eight days ago", token: expiredToken},
		{name: "signed with another secret", token: foreignToken},
		{name: "tampered payload", token: tampered},
		{name: "alg none", token: noneToken},
		{name: "malformed", token: "not.a.jwt"},
		{name: "empty", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)
			assert.Nil(t, claims)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidToken), "got %v", err)
		})
	}
}

func TestJWTService_ValidateToken_RequiresSubject(t *testing.T) {
	t.Parallel()

	service := NewJWTService("test-secret")
	token, err := service.GenerateToken("", "nobody@example.com")
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
