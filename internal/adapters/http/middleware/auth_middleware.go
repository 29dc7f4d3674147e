package middleware

import (
	"errors"
	"strings"

	"attendly/internal/config"
	"attendly/internal/core/domain"
	"attendly/internal/core/services"
	"attendly/internal/pkg/jwt"
	"attendly/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware authenticates requests on one platform surface. Tokens
// are validated against that platform's secret, so a client token is
// rejected on the admin surface even before the claim check.
func AuthMiddleware(cfg *config.Config, authService *services.AuthService, platform domain.Platform) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		authHeader := c.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			accessToken = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.Validate(accessToken, cfg.JWT.SecretFor(platform))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}
		if claims.Platform != platform {
			return response.Unauthorized(c, "Invalid access token")
		}

		revoked, err := authService.IsTokenRevoked(c.Context(), accessToken)
		if err != nil {
			return response.InternalServerError(c, "Failed to verify token")
		}
		if revoked {
			return response.Unauthorized(c, "Access token expired")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("userType", claims.UserType)
		c.Locals("platform", claims.Platform)
		c.Locals("token", accessToken)

		return c.Next()
	}
}

// PermissionMiddleware authorizes the authenticated account against the
// route-role table. The registered route pattern (with :id placeholders)
// is the uri the grants were declared under.
func PermissionMiddleware(permissionService *services.PermissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("userID").(uint)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		allowed, err := permissionService.Authorize(c.Context(), userID, c.Route().Path, c.Method())
		if err != nil {
			return response.InternalServerError(c, "Failed to resolve permissions")
		}
		if !allowed {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// UserID returns the authenticated account id from the request context.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}
