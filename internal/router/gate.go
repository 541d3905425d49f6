package router

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"storefront/internal/auth"
	"storefront/internal/errors"
)

const (
	identityKey   = "identity"
	tokenErrorKey = "tokenError"
)

// routeGate requires a valid "Bearer <token>" Authorization header. A missing
// or malformed header yields 401; a token that fails verification yields 403.
// On success the caller's identity is attached to the request context.
func routeGate(jwtService *auth.JWTService) []echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  identityKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				// Recorded so the error handler can tell a bad token from a missing one.
				c.Set(tokenErrorKey, err)
				return nil, err
			}
			return claims.Identity(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if c.Get(tokenErrorKey) != nil {
				return gateError(errors.ErrInvalidToken)
			}
			return gateError(errors.ErrMissingToken)
		},
	})

	return []echo.MiddlewareFunc{verify, withIdentity}
}

func withIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, ok := c.Get(identityKey).(auth.Identity)
		if !ok {
			return gateError(errors.ErrMissingToken)
		}
		req := c.Request()
		c.SetRequest(req.WithContext(auth.WithIdentity(req.Context(), identity)))
		return next(c)
	}
}

func gateError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
