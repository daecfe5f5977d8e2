package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/department-app/internal/api/dto"
	"github.com/spec-kit/department-app/internal/service"
)

// AuthHandler issues admin tokens.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// IssueToken POST /api/auth/token with form fields username and password.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	form, err := readForm(c)
	if err != nil {
		return err
	}
	username, err := form.Require("username")
	if err != nil {
		return err
	}
	password, err := form.Require("password")
	if err != nil {
		return err
	}

	token, exp, err := h.service.IssueToken(c.UserContext(), username, password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   exp.UTC().Format(time.RFC3339),
	})
}
