package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/andrea360/fitness-center-backend/internal/auth"
)

// RequireRole returns a middleware that enforces that the authenticated
// principal carries one of the given roles.  It assumes JWTAuth ran
// earlier in the chain; requests without a principal or with a role
// outside the allowed set are rejected with 403 Forbidden.
func RequireRole(roles ...auth.Role) echo.MiddlewareFunc {
	allowed := make(map[auth.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := Principal(c)
			if !ok || !allowed[p.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
