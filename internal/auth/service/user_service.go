package service

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/HenriqueSagawa/auth-service/internal/auth/domain UserRepository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/HenriqueSagawa/auth-service/config"
	"github.com/HenriqueSagawa/auth-service/internal/auth/domain"
	"github.com/HenriqueSagawa/auth-service/internal/auth/dto"
	autherror "github.com/HenriqueSagawa/auth-service/internal/errors"
)

// UserService orchestrates registration, login, token refresh and logout. It
// owns the ordering invariants: lock checks happen before password
// verification, failure counters move through the repository's atomic
// operations, and a lock always starts a fresh attempt window.
type UserService struct {
	repo    domain.UserRepository
	tokens  TokenGenerator
	hasher  PasswordHasher
	lockout LockoutPolicy
	now     func() time.Time
	log     zerolog.Logger
}

type UserServiceOption func(*UserService)

// WithUserNowTime sets the clock (primarily for testing lock expiry).
func WithUserNowTime(nowFunc func() time.Time) UserServiceOption {
	return func(s *UserService) {
		s.now = nowFunc
	}
}

// WithPasswordHasher overrides the bcrypt hasher (tests use a cheap cost).
func WithPasswordHasher(h PasswordHasher) UserServiceOption {
	return func(s *UserService) {
		s.hasher = h
	}
}

// WithLogger attaches a structured logger for lockout events.
func WithLogger(log zerolog.Logger) UserServiceOption {
	return func(s *UserService) {
		s.log = log
	}
}

func NewUserService(repo domain.UserRepository, tokens TokenGenerator, cfg *config.Config, options ...UserServiceOption) *UserService {
	s := &UserService{
		repo:   repo,
		tokens: tokens,
		hasher: NewBcryptHasher(cfg.BcryptCost),
		lockout: LockoutPolicy{
			MaxAttempts:  cfg.LoginMaxAttempts,
			LockDuration: time.Duration(cfg.LockDurationMin) * time.Minute,
		},
		now: time.Now,
		log: zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Register creates an account with a freshly salted password hash. Email
// uniqueness is enforced by the store's unique constraint at insert time, so
// two concurrent registrations with the same email produce exactly one
// account and one ErrEmailAlreadyInUse.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*dto.UserOutput, error) {
	email := normalizeEmail(input.Email)

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         input.Name,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, autherror.ErrEmailAlreadyInUse) {
			return nil, autherror.ErrEmailAlreadyInUse
		}
		return nil, storeError(err)
	}

	return publicUser(user), nil
}

// Login verifies the credential pair and, on success, issues an access token
// plus a persisted refresh token. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenResponse, error) {
	email := normalizeEmail(input.Email)

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err)
	}
	if user == nil {
		return nil, autherror.ErrInvalidCredentials
	}

	now := s.now()

	// The lock is checked before any hashing so a locked account never pays
	// for password verification and the response is uniform.
	if s.lockout.IsLocked(user.LockedUntil, now) {
		return nil, &autherror.AccountLockedError{
			RemainingMinutes: s.lockout.RemainingMinutes(*user.LockedUntil, now),
		}
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		attempts, err := s.repo.IncrementLoginAttempts(ctx, user.ID)
		if err != nil {
			return nil, storeError(err)
		}
		if s.lockout.ShouldLock(attempts) {
			until := s.lockout.LockUntil(now)
			if err := s.repo.LockUser(ctx, user.ID, until); err != nil {
				return nil, storeError(err)
			}
			s.log.Warn().Str("user_id", user.ID).Time("locked_until", until).
				Msg("account locked after repeated login failures")
		}
		return nil, autherror.ErrInvalidCredentials
	}

	// A partial failure streak or a lapsed lock is cleared on success.
	if user.LoginAttempts > 0 || user.LockedUntil != nil {
		if err := s.repo.ResetLoginState(ctx, user.ID); err != nil {
			return nil, storeError(err)
		}
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	rt := &domain.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: now.Add(s.tokens.GetRefreshTokenExpiry()),
		CreatedAt: now,
	}
	if err := s.repo.StoreRefreshToken(ctx, rt); err != nil {
		return nil, storeError(err)
	}

	return &dto.TokenResponse{
		User:         *publicUser(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a stored refresh token for a new access token. The
// refresh token itself is not rotated; it stays valid until logout or expiry.
func (s *UserService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.RefreshResponse, error) {
	rt, err := s.repo.GetRefreshToken(ctx, input.RefreshToken)
	if err != nil {
		return nil, storeError(err)
	}
	if rt == nil || !rt.ExpiresAt.After(s.now()) {
		return nil, autherror.ErrInvalidOrExpiredRefreshToken
	}

	user, err := s.repo.GetByID(ctx, rt.UserID)
	if err != nil {
		return nil, storeError(err)
	}
	if user == nil {
		return nil, autherror.ErrInvalidOrExpiredRefreshToken
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &dto.RefreshResponse{AccessToken: accessToken}, nil
}

// Logout deletes the refresh token record. Deleting an absent token is
// treated as success, so logout is idempotent.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.repo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return storeError(err)
	}
	return nil
}

// VerifyAccessToken validates a signed access token and returns its claims.
func (s *UserService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	return s.tokens.VerifyAccessToken(tokenString)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func publicUser(user *domain.User) *dto.UserOutput {
	return &dto.UserOutput{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

func storeError(err error) error {
	return fmt.Errorf("%w: %v", autherror.ErrStoreUnavailable, err)
}
