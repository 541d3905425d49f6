package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront/internal/errors"
)

// respondError converts err into an echo HTTP error. Errors that map to a 5xx
// are logged with the request id and replaced by a generic message.
func respondError(c echo.Context, logger *zap.Logger, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.Error(err),
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func invalidBody() error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Message: "invalid request body",
		Code:    "INVALID_REQUEST",
	})
}

// parseID parses a positive integer path parameter.
func parseID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("Invalid " + name)
	}
	return id, nil
}
