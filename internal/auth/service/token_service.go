package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/HenriqueSagawa/auth-service/internal/auth/service TokenGenerator

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	autherror "github.com/HenriqueSagawa/auth-service/internal/errors"
	"github.com/HenriqueSagawa/auth-service/pkg/constant"
)

type TokenGenerator interface {
	GenerateAccessToken(userID, email string) (string, error)
	// GenerateRefreshToken returns an opaque high-entropy value carrying no
	// account information; validity is decided solely by store lookup.
	GenerateRefreshToken() (string, error)
	GetRefreshTokenExpiry() time.Duration
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
}

// TokenService issues short-lived signed access tokens and opaque refresh
// tokens. Access tokens are stateless (verifiable without I/O); refresh
// tokens are capabilities looked up in the credential store.
type TokenService struct {
	accessTokenSecret  string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	now                func() time.Time
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type TokenServiceOption func(*TokenService)

// WithNowTime sets the clock (primarily for testing expiry behaviour).
func WithNowTime(nowFunc func() time.Time) TokenServiceOption {
	return func(ts *TokenService) {
		ts.now = nowFunc
	}
}

func NewTokenService(accessSecret string, accessMinutes, refreshMinutes int, options ...TokenServiceOption) *TokenService {
	ts := &TokenService{
		accessTokenSecret:  accessSecret,
		accessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		refreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
		now:                time.Now,
	}
	for _, opt := range options {
		opt(ts)
	}
	return ts
}

func (ts *TokenService) GenerateAccessToken(userID, email string) (string, error) {
	now := ts.now()

	claims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.accessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.accessTokenSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, nil
}

func (ts *TokenService) GenerateRefreshToken() (string, error) {
	buf := make([]byte, constant.RefreshTokenByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (ts *TokenService) GetRefreshTokenExpiry() time.Duration {
	return ts.refreshTokenExpiry
}

// VerifyAccessToken parses and validates the given access token string.
// Expired, malformed, forged and wrong-algorithm tokens all fail with the
// same ErrInvalidToken so callers cannot distinguish why.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.accessTokenSecret), nil
	}, jwt.WithTimeFunc(ts.now))

	if err != nil || !token.Valid {
		return nil, autherror.ErrInvalidToken
	}

	return claims, nil
}
