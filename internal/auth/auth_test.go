package auth

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/department-app/pkg/util"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)

	token, exp, err := tm.GenerateToken("admin", RoleAdmin)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestTokenManager_RejectsForeignSecretAndExpiry(t *testing.T) {
	issuedBy := NewTokenManager("one", time.Minute)
	token, _, err := issuedBy.GenerateToken("admin", RoleAdmin)
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Minute).ParseToken(token)
	assert.Error(t, err)

	later := NewTokenManager("one", time.Minute)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.ParseToken(token)
	assert.Error(t, err)
}

func TestPassword_HashAndCompare(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "s3cret"))
	assert.Error(t, ComparePassword(hash, "wrong"))

	_, err = HashPassword("", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func newGuardedApp(m *AuthMiddleware) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) {
			return c.SendStatus(domainErr.HTTPStatus)
		}
		return fiber.DefaultErrorHandler(c, err)
	}})
	app.Use(m.Handle)
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/thing", ok)
	app.Post("/thing", func(c *fiber.Ctx) error {
		user, _ := c.Locals(LocalsUsername).(string)
		return c.SendString("ok " + user)
	})
	return app
}

func TestAuthMiddleware_GuardsMutations(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	app := newGuardedApp(NewAuthMiddleware(tm, true))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/thing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/thing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, _, err := tm.GenerateToken("admin", RoleAdmin)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/thing", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok admin", string(body))

	viewer, _, err := tm.GenerateToken("viewer", Role("viewer"))
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/thing", nil)
	req.Header.Set("Authorization", "Bearer "+viewer)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuthMiddleware_DisabledPassesEverything(t *testing.T) {
	app := newGuardedApp(NewAuthMiddleware(nil, false))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/thing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
