package middleware

import (
	"errors"
	"strings"

	"libraease/internal/adapters/persistence/models"
	"libraease/internal/core/domain"
	"libraease/internal/core/services"
	"libraease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CurrentUserKey is the locals key holding the resolved caller.
const CurrentUserKey = "currentUser"

// Protected resolves the caller from the bearer token and loads their
// active account. Every failure mode returns the same 401 body.
func Protected(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bearer := extractBearer(c)
		if bearer == "" {
			return response.Unauthorized(c, domain.ErrAuthentication.Code, domain.ErrAuthentication.Message)
		}

		user, err := authService.Authenticate(c.Context(), bearer)
		if err != nil {
			return response.Unauthorized(c, domain.ErrAuthentication.Code, domain.ErrAuthentication.Message)
		}

		c.Locals(CurrentUserKey, user)
		return c.Next()
	}
}

// RequireRole gates the route on an allowed role set. Composes after
// Protected; the allowed set is a whitelist enumerated per route.
func RequireRole(authService *services.AuthService, allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if _, err := authService.Authorize(user, allowed...); err != nil {
			if errors.Is(err, domain.ErrAuthorization) {
				return response.Forbidden(c, domain.ErrAuthorization.Code, domain.ErrAuthorization.Message)
			}
			return response.Unauthorized(c, domain.ErrAuthentication.Code, domain.ErrAuthentication.Message)
		}
		return c.Next()
	}
}

// AdminOnly allows only ADMIN
func AdminOnly(authService *services.AuthService) fiber.Handler {
	return RequireRole(authService, domain.RoleAdmin)
}

// StaffOnly allows ADMIN or LIBRARIAN
func StaffOnly(authService *services.AuthService) fiber.Handler {
	return RequireRole(authService, domain.RoleAdmin, domain.RoleLibrarian)
}

// CurrentUser returns the resolved caller, or nil outside Protected.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(CurrentUserKey).(*models.User)
	return user
}

func extractBearer(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}
