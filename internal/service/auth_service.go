package service

import (
	"context"
	"fmt"
	"strings"

	"image-store/internal/auth"
	"image-store/internal/models"
	"image-store/internal/store"
	"image-store/internal/util"

	"go.uber.org/zap"
)

// AuthService handles registration and login.
type AuthService struct {
	store     *store.Store
	jwtSecret string
	logger    *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store *store.Store, jwtSecret string) *AuthService {
	return &AuthService{
		store:     store,
		jwtSecret: jwtSecret,
		logger:    util.GetLogger(),
	}
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session token issued at login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a new account with the default user role. The returned
// record never carries the password hash.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", models.ErrInvalidInput)
	}
	if !auth.ValidateEmail(email) {
		return nil, fmt.Errorf("invalid email format: %w", models.ErrInvalidInput)
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}

	// Duplicate emails surface here as ErrConflict from the unique index.
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	util.RegistrationsTotal.Inc()
	s.logger.Info("Account registered", zap.Int64("user_id", user.ID))

	user.PasswordHash = ""
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		util.LoginsTotal.WithLabelValues("not_found").Inc()
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		util.LoginsTotal.WithLabelValues("bad_password").Inc()
		return nil, fmt.Errorf("incorrect password: %w", models.ErrUnauthorized)
	}

	token, err := auth.GenerateToken(s.jwtSecret, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	util.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info("Login succeeded", zap.Int64("user_id", user.ID))

	user.PasswordHash = ""
	return &LoginResponse{Token: token, User: user}, nil
}
