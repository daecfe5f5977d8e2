package auth

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/department-app/pkg/util"
)

// LocalsUsername is the fiber Locals key holding the authenticated username.
const LocalsUsername = "username"

// AuthMiddleware guards mutating requests with bearer tokens. Reads pass
// through, and everything passes when the middleware is disabled.
type AuthMiddleware struct {
	tokens  *TokenManager
	enabled bool
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, enabled bool) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, enabled: enabled}
}

// Enabled reports whether tokens are enforced.
func (m *AuthMiddleware) Enabled() bool {
	return m != nil && m.enabled
}

// Handle enforces authentication for POST, PUT, PATCH and DELETE.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if !m.Enabled() || isSafeMethod(c.Method()) {
		return c.Next()
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if claims.Role != RoleAdmin {
		return fiber.NewError(http.StatusForbidden, "admin role required")
	}

	c.Locals(LocalsUsername, claims.Subject)
	return c.Next()
}

func isSafeMethod(method string) bool {
	switch method {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return true
	}
	return false
}
