package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const minPasswordLength = 6

// AuthResult is returned by a successful signup or login.
type AuthResult struct {
	User  model.UserView `json:"user"`
	Token string         `json:"token"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	WhoAmI(ctx context.Context, userID string) (*model.UserView, error)
}

type authService struct {
	userRepo    repository.UserRepository
	hasher      auth.PasswordHasher
	jwtService  *auth.JWTService
	logger      *zap.Logger
	signupLocks keyedMutex
	now         func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, hasher auth.PasswordHasher, jwtService *auth.JWTService, logger *zap.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
		logger:     logger,
		now:        time.Now,
	}
}

// Signup registers a user and issues a session token.
func (s *authService) Signup(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, apperrors.NewValidationError("All fields are required")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Password must be at most %d bytes", auth.MaxPasswordBytes))
	}

	// Re-checked under the per-email lock below.
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    s.now().UTC(),
	}

	unlock := s.signupLocks.Lock(email)
	err = s.ensureEmailFree(ctx, email)
	if err == nil {
		err = s.userRepo.Create(ctx, user)
		if err != nil {
			err = fmt.Errorf("create user: %w", err)
		}
	}
	unlock()
	if err != nil {
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID))
	return &AuthResult{User: user.View(), Token: token}, nil
}

func (s *authService) ensureEmailFree(ctx context.Context, email string) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("check user existence: %w", err)
	}
	return nil
}

// Login authenticates a user and issues a session token. An unknown email and
// a wrong password both yield ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("login rejected")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		s.logger.Debug("login rejected")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return &AuthResult{User: user.View(), Token: token}, nil
}

// WhoAmI resolves the user behind a verified token.
func (s *authService) WhoAmI(ctx context.Context, userID string) (*model.UserView, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	view := user.View()
	return &view, nil
}
