package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/andrea360/fitness-center-backend/internal/auth"
	"github.com/andrea360/fitness-center-backend/internal/utils"
)

// principalKey is the context key the authenticated principal is
// stored under.
const principalKey = "principal"

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and stores the resolved auth.Principal in the request context.
// The provided secret must match the one used when issuing tokens.
// Handlers retrieve the principal via Principal(c); downstream code
// never touches raw claims.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			p, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(principalKey, p)
			// Keep a string user id around for rate-limit keying.
			c.Set("user_id", strconv.FormatUint(p.UserID, 10))
			return next(c)
		}
	}
}

// Principal returns the authenticated principal stored by JWTAuth.
// The boolean reports whether one is present.
func Principal(c echo.Context) (auth.Principal, bool) {
	p, ok := c.Get(principalKey).(auth.Principal)
	return p, ok
}
