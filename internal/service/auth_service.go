package service

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/spec-kit/department-app/internal/auth"
	"github.com/spec-kit/department-app/internal/config"
	apperrors "github.com/spec-kit/department-app/pkg/util"
)

// AuthService issues admin tokens against the configured credentials.
type AuthService struct {
	cfg      config.AuthConfig
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, tokenMgr *auth.TokenManager) *AuthService {
	return &AuthService{cfg: cfg, tokenMgr: tokenMgr}
}

// IssueToken checks username and password and returns a signed admin token.
func (s *AuthService) IssueToken(_ context.Context, username, password string) (string, time.Time, error) {
	if !s.cfg.Enabled() {
		return "", time.Time{}, apperrors.NewDomainError("AUTH_DISABLED", "authentication is disabled", http.StatusNotFound, nil)
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) != 1 {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(s.cfg.AdminPasswordHash, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.tokenMgr.GenerateToken(username, auth.RoleAdmin)
}
