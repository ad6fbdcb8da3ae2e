package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/xxxsen/brandbot/internal/config"
	"github.com/xxxsen/brandbot/internal/pkg/errs"
	"github.com/xxxsen/brandbot/internal/pkg/jwt"
	"github.com/xxxsen/brandbot/internal/pkg/password"
)

// AuthService guards the admin surface. There is exactly one operator
// account, configured statically; no user table.
type AuthService struct {
	username     string
	passwordHash string
	jwtSecret    []byte
	jwtTTL       time.Duration
}

func NewAuthService(cfg config.AdminConfig) *AuthService {
	return &AuthService{
		username:     cfg.Username,
		passwordHash: cfg.PasswordHash,
		jwtSecret:    []byte(cfg.JWTSecret),
		jwtTTL:       time.Duration(cfg.JWTTTLHours) * time.Hour,
	}
}

func (s *AuthService) Login(ctx context.Context, username, plainPassword string) (string, error) {
	_ = ctx
	nameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	if !password.Verify(s.passwordHash, plainPassword) || !nameOK {
		return "", errs.ErrUnauthorized
	}
	return jwt.GenerateToken(s.username, s.jwtSecret, s.jwtTTL)
}

func (s *AuthService) Secret() []byte {
	return s.jwtSecret
}
