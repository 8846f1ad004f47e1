package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/wellness-service/internal/auth"
	"github.com/spec-kit/wellness-service/internal/config"
	"github.com/spec-kit/wellness-service/internal/domain"
	"github.com/spec-kit/wellness-service/internal/repository"
	apperrors "github.com/spec-kit/wellness-service/pkg/util"
)

const minPasswordLength = 6

// AuthService coordinates registration, login and profile flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// SignupInput describes a registration request.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// ProfileInput describes a profile change; nil fields are left untouched.
type ProfileInput struct {
	Name  *string
	Email *string
}

// AuthResult is an authenticated user with a fresh token.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// Signup creates a plain user account.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	errs := fieldErrors{}
	validateName(errs, name)
	if !validEmail(email) {
		errs.add("email", "please provide a valid email")
	}
	switch {
	case len(in.Password) < minPasswordLength:
		errs.add("password", "password must be at least 6 characters")
	case len(in.Password) > auth.MaxPasswordBytes:
		errs.add("password", "password cannot exceed 72 bytes")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("user already exists with this email", nil)
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if _, dup := repository.AsDuplicate(err); dup {
			return nil, apperrors.NewConflict("user already exists with this email", nil)
		}
		return nil, err
	}
	return s.issue(user)
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	errs := fieldErrors{}
	if strings.TrimSpace(email) == "" {
		errs.add("email", "email is required")
	}
	if password == "" {
		errs.add("password", "password is required")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid email or password")
	}
	return s.issue(user)
}

// Me returns the caller's account.
func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes the caller's name and email.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*domain.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	errs := fieldErrors{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		validateName(errs, name)
		user.Name = name
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if !validEmail(email) {
			errs.add("email", "please provide a valid email")
		} else if email != user.Email {
			existing, err := s.users.GetByEmail(ctx, email)
			if err == nil && existing.ID != user.ID {
				return nil, apperrors.NewConflict("email already in use", nil)
			}
			if err != nil && !apperrors.IsNotFound(err) {
				return nil, err
			}
		}
		user.Email = email
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, user); err != nil {
		if _, dup := repository.AsDuplicate(err); dup {
			return nil, apperrors.NewConflict("email already in use", nil)
		}
		return nil, err
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func validateName(errs fieldErrors, name string) {
	switch n := runeLen(name); {
	case n == 0:
		errs.add("name", "name is required")
	case n < 2 || n > 50:
		errs.add("name", "name must be between 2 and 50 characters")
	}
}
