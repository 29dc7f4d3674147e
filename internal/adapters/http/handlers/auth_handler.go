package handlers

import (
	"errors"
	"strings"

	"attendly/internal/adapters/http/middleware"
	"attendly/internal/core/domain"
	"attendly/internal/core/services"
	"attendly/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints for one platform surface
type AuthHandler struct {
	authService *services.AuthService
	platform    domain.Platform
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, platform domain.Platform) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		platform:    platform,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles user login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Username == "" {
		return response.BadRequest(c, "Username is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	resp, err := h.authService.Login(c.Context(), h.platform, services.LoginInput{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid username or password")
		case errors.Is(err, domain.ErrPlatformDenied):
			return response.Forbidden(c, "Account is not allowed on this platform")
		case errors.Is(err, domain.ErrAccountLocked):
			return response.Error(c, fiber.StatusTooManyRequests, "Account temporarily locked, try again later")
		default:
			return response.InternalServerError(c, "Login failed")
		}
	}

	return response.Success(c, "Login successful", resp)
}

// Logout handles user logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals("token").(string)
	err := h.authService.Logout(c.Context(), middleware.UserID(c), token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Token not found")
		}
		return response.InternalServerError(c, "Logout failed")
	}
	return response.Success(c, "Logged out", nil)
}

// Me returns the authenticated account profile
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.authService.Me(c.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load profile")
	}
	return response.Success(c, "", user)
}
