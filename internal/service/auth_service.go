package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"opinai/internal/model"
	"opinai/internal/repository"
	"opinai/internal/utils"

	"go.uber.org/zap"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingToken       = errors.New("authorization token required")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("token does not belong to an existing user")
	ErrForbidden          = errors.New("admin access required")
	ErrStoreWrite         = errors.New("failed to save data")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)

// AuthService provides registration, login and request authorization
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	// Authorize resolves a bearer token to its user. With requireAdmin the user must
	// also carry the admin flag.
	Authorize(ctx context.Context, token string, requireAdmin bool) (*model.User, error)
}

type authService struct {
	userRepo          repository.UserRepository
	jwtUtil           *utils.JWTUtil
	initialAdminEmail string
}

// NewAuthService creates a new AuthService. initialAdminEmail, when not empty, is always
// registered with the admin flag.
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, initialAdminEmail string) AuthService {
	return &authService{
		userRepo:          userRepo,
		jwtUtil:           jwtUtil,
		initialAdminEmail: normalizeEmail(initialAdminEmail),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account and signs a token for it
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	email := normalizeEmail(req.Email)

	hashedPassword, err := utils.HashPassword(req.Senha)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return nil, "", ErrPasswordTooLong
		}
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	// The isAdmin flag is taken from the payload as sent. INITIAL_ADMIN_EMAIL bootstraps
	// the first admin when clients do not send it.
	isAdmin := req.IsAdmin
	if s.initialAdminEmail != "" && email == s.initialAdminEmail {
		isAdmin = true
		zap.L().Info("registering initial admin", zap.String("email", email))
	}

	user := &model.User{
		Nome:         strings.TrimSpace(req.Nome),
		Email:        email,
		PasswordHash: hashedPassword,
		Telefone:     req.Telefone,
		CPF:          req.CPF,
		Foto:         req.Foto,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Email)
	if err != nil {
		zap.L().Error("user created but token generation failed", zap.String("user_id", user.ID), zap.Error(err))
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns a token
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// Authorize verifies the token and looks its subject up in the store. Tokens are not
// revocable: a valid token keeps working until it expires.
func (s *authService) Authorize(ctx context.Context, token string, requireAdmin bool) (*model.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.jwtUtil.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	if requireAdmin && !user.IsAdmin {
		return nil, ErrForbidden
	}
	return user, nil
}
