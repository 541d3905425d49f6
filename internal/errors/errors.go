package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateEmail is returned when signing up with an email that is already registered.
	ErrDuplicateEmail = errors.New("user with this email already exists")
	// ErrInvalidCredentials is returned for an unknown email and for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrMissingToken is returned when a protected route is called without a bearer token.
	ErrMissingToken = errors.New("access token required")
	// ErrInvalidToken is returned when a token is malformed, tampered with or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrProductNotFound is returned when the catalog has no product with the given id.
	ErrProductNotFound = errors.New("product not found")
	// ErrItemNotFound is returned when the cart holds no line item for the given product.
	ErrItemNotFound = errors.New("item not found in cart")
	// ErrUserNotFound is returned when a token's user id no longer resolves.
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError carries a human readable reason for rejected input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports ErrValidation as a match so callers can use errors.Is.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a validation error with the given message.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a
// generic 500 so internal detail never reaches the client.
func MapErrorToHTTP(err error) *HTTPError {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return NewHTTPError(http.StatusBadRequest, validationErr.Message, "VALIDATION_ERROR")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusBadRequest, "User with this email already exists", "DUPLICATE_EMAIL")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusBadRequest, "Invalid email or password", "INVALID_CREDENTIALS")
	case errors.Is(err, ErrMissingToken):
		return NewHTTPError(http.StatusUnauthorized, "Access token required", "MISSING_TOKEN")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusForbidden, "Invalid or expired token", "INVALID_TOKEN")
	case errors.Is(err, ErrProductNotFound):
		return NewHTTPError(http.StatusNotFound, "Product not found", "PRODUCT_NOT_FOUND")
	case errors.Is(err, ErrItemNotFound):
		return NewHTTPError(http.StatusNotFound, "Item not found in cart", "ITEM_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, "User not found", "USER_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
