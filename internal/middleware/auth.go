// Package middleware provides shared request processing for the HTTP layer.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/splittab/splittab/internal/auth"
)

// Context keys under which RequireAuth stores the caller's identity.
const (
	// UserIDKey is the echo context key for the authenticated user ID.
	UserIDKey = "user_id"
	// RoleKey is the echo context key for the authenticated user's role.
	RoleKey = "role"
)

// UserID extracts the authenticated user ID from the echo context.
// Returns empty string if not set.
func UserID(c echo.Context) string {
	id, _ := c.Get(UserIDKey).(string)
	return id
}

// RequireAuth returns a middleware that validates Bearer tokens and stores
// the user ID and role in the request context. The services trust this
// identity and perform their own ownership checks on top of it.
func RequireAuth(jwtManager *auth.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.ErrMissingToken.Error()})
			}

			parts := strings.Split(header, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.ErrInvalidToken.Error()})
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.ErrInvalidToken.Error()})
			}

			c.Set(UserIDKey, claims.UserID)
			c.Set(RoleKey, claims.Role)
			return next(c)
		}
	}
}

// RequireRole returns a middleware that enforces that the authenticated
// user has one of the given roles. It assumes RequireAuth ran earlier in
// the chain.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(RoleKey).(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
