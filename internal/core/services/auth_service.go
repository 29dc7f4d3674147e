package services

import (
	"context"
	"errors"
	"log"
	"time"

	"attendly/internal/adapters/persistence/models"
	"attendly/internal/adapters/persistence/store"
	"attendly/internal/config"
	"attendly/internal/core/domain"
	"attendly/internal/pkg/jwt"
	"attendly/internal/pkg/password"
)

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User  *models.UserResponse `json:"user"`
	Token string               `json:"token"`
}

// AuthService handles authentication business logic
type AuthService struct {
	store store.Store
	cfg   *config.Config
	now   func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(s store.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		store: s,
		cfg:   cfg,
		now:   time.Now,
	}
}

// Login authenticates a user on a platform, enforcing the failed-attempt
// lockout, and issues a token signed with that platform's secret.
func (s *AuthService) Login(ctx context.Context, platform domain.Platform, input LoginInput) (*AuthResponse, error) {
	var user models.User
	err := s.store.FindOne(ctx, domain.EntityUser, store.Alive(
		store.Eq{Field: "username", Value: input.Username},
	), &user)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.UserType.CanAccess(platform) {
		return nil, domain.ErrPlatformDenied
	}

	now := s.now()
	if user.LoginReactiveTime != nil && user.LoginReactiveTime.After(now) {
		return nil, domain.ErrAccountLocked
	}

	if !password.Verify(input.Password, user.Password) {
		retries := user.LoginRetryLimit + 1
		patch := store.Patch{"login_retry_limit": retries}
		if retries >= s.cfg.Auth.MaxLoginRetryLimit {
			patch["login_reactive_time"] = now.Add(s.cfg.Auth.LoginReactiveTime)
			log.Printf("⚠️ Account %s locked after %d failed login attempts", user.Username, retries)
		}
		if err := s.store.UpdateOne(ctx, domain.EntityUser, store.Eq{Field: "id", Value: user.ID}, patch); err != nil {
			return nil, err
		}
		if retries >= s.cfg.Auth.MaxLoginRetryLimit {
			return nil, domain.ErrAccountLocked
		}
		return nil, domain.ErrInvalidCredentials
	}

	// Successful login clears the lockout counters.
	if user.LoginRetryLimit > 0 || user.LoginReactiveTime != nil {
		err := s.store.UpdateOne(ctx, domain.EntityUser, store.Eq{Field: "id", Value: user.ID}, store.Patch{
			"login_retry_limit":   0,
			"login_reactive_time": nil,
		})
		if err != nil {
			return nil, err
		}
	}

	token, err := jwt.Generate(user.ID, user.Username, user.UserType, platform, s.cfg.JWT.SecretFor(platform), s.cfg.JWT.Expiry)
	if err != nil {
		return nil, err
	}

	record := &models.UserToken{
		UserID:           user.ID,
		Token:            token,
		TokenExpiredTime: now.Add(s.cfg.JWT.Expiry),
		IsActive:         true,
		AddedBy:          &user.ID,
	}
	if err := s.store.Create(ctx, domain.EntityUserToken, record); err != nil {
		return nil, err
	}

	return &AuthResponse{User: user.ToResponse(), Token: token}, nil
}

// Logout marks the presented token expired so it can no longer be used
// even before its signature expiry.
func (s *AuthService) Logout(ctx context.Context, userID uint, token string) error {
	err := s.store.UpdateOne(ctx, domain.EntityUserToken, store.And{
		store.Eq{Field: "user_id", Value: userID},
		store.Eq{Field: "token", Value: token},
	}, store.Patch{
		"is_token_expired": true,
		"updated_by":       userID,
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// Me returns the authenticated account's profile.
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.UserResponse, error) {
	var user models.User
	err := s.store.FindOne(ctx, domain.EntityUser, store.Alive(
		store.Eq{Field: "id", Value: userID},
	), &user)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// IsTokenRevoked reports whether a token has been logged out or swept.
func (s *AuthService) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	var record models.UserToken
	err := s.store.FindOne(ctx, domain.EntityUserToken, store.Alive(
		store.Eq{Field: "token", Value: token},
	), &record)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return record.IsTokenExpired, nil
}

// SweepExpiredTokens flags every token past its expiry instant. Run daily
// from the scheduler.
func (s *AuthService) SweepExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.store.UpdateMany(ctx, domain.EntityUserToken, store.And{
		store.Eq{Field: "is_token_expired", Value: false},
		store.Lte{Field: "token_expired_time", Value: s.now()},
	}, store.Patch{"is_token_expired": true})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("✅ Token sweep flagged %d expired tokens", n)
	}
	return n, nil
}
