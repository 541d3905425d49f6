package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents a signup or login response.
type AuthResponse struct {
	Message string         `json:"message"`
	User    model.UserView `json:"user"`
	Token   string         `json:"token"`
}

// Signup godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	result, err := h.authService.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		Message: "User created successfully",
		User:    result.User,
		Token:   result.Token,
	})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Message: "Login successful",
		User:    result.User,
		Token:   result.Token,
	})
}

// Me godoc
// @Summary Get the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return respondError(c, h.logger, errors.ErrMissingToken)
	}

	user, err := h.authService.WhoAmI(c.Request().Context(), identity.UserID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, user)
}
