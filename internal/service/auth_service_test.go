package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/department-app/internal/auth"
	"github.com/spec-kit/department-app/internal/config"
)

func TestAuthService_IssueToken(t *testing.T) {
	hash, err := auth.HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	tokens := auth.NewTokenManager("secret", time.Minute)
	svc := NewAuthService(config.AuthConfig{AdminUsername: "admin", AdminPasswordHash: hash}, tokens)

	token, _, err := svc.IssueToken(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
	claims, err := tokens.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)

	_, _, err = svc.IssueToken(context.Background(), "admin", "wrong")
	assertDomainCode(t, err, "UNAUTHORIZED")

	_, _, err = svc.IssueToken(context.Background(), "root", "s3cret")
	assertDomainCode(t, err, "UNAUTHORIZED")
}

func TestAuthService_DisabledWithoutHash(t *testing.T) {
	svc := NewAuthService(config.AuthConfig{AdminUsername: "admin"}, auth.NewTokenManager("secret", time.Minute))

	_, _, err := svc.IssueToken(context.Background(), "admin", "anything")
	assertDomainCode(t, err, "AUTH_DISABLED")
}
