package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "storefront/internal/errors"
)

// TokenExpiry is the fixed lifetime of a session token.
const TokenExpiry = 7 * 24 * time.Hour

// Claims represents JWT claims.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Option configures a JWTService.
type Option func(*JWTService)

// WithClock overrides the time source used when issuing tokens.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) {
		s.now = now
	}
}

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string, opts ...Option) *JWTService {
	s := &JWTService{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateToken issues a session token for the user valid for TokenExpiry.
func (s *JWTService) GenerateToken(userID, email string) (string, error) {
	issuedAt := s.now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates a JWT token and returns the claims. Every failure
// (bad signature, malformed input, expiry) is reported as ErrInvalidToken.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing subject", apperrors.ErrInvalidToken)
	}

	return claims, nil
}

// Identity returns the caller identity carried by the claims.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email}
}
