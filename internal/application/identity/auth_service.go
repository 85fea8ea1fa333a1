package identity

import (
	"context"

	"go.uber.org/zap"

	"github.com/obaptiste/dashboard-api/internal/domain/identity"
	"github.com/obaptiste/dashboard-api/internal/domain/shared"
	"github.com/obaptiste/dashboard-api/internal/infrastructure/auth"
)

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginResponse carries the issued token and the user's display fields
type LoginResponse struct {
	Token auth.Token   `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthService authenticates users and issues access tokens
type AuthService struct {
	userRepo identity.UserRepository
	jwt      *auth.JWTService
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo identity.UserRepository, jwt *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwt:      jwt,
		logger:   logger,
	}
}

// Login verifies the credentials and issues a token. An unknown email and a
// wrong password report the same error so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid credentials")
		}
		return nil, err
	}

	if !user.CheckPassword(req.Password) {
		s.logger.Warn("login failed", zap.String("email", req.Email))
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid credentials")
	}

	token, err := s.jwt.Generate(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, err
	}

	s.logger.Info("login succeeded", zap.String("user_id", user.ID.String()))
	return &LoginResponse{
		Token: *token,
		User: UserResponse{
			ID:    user.ID.String(),
			Name:  user.Name,
			Email: user.Email,
		},
	}, nil
}
