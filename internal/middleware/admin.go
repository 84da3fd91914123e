package middleware

import (
	"net/http"

	"coaching-checkout/internal/auth"

	"github.com/labstack/echo/v4"
)

// AdminGuard rejects requests that do not carry a valid admin session cookie.
func AdminGuard(sessions *auth.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(auth.CookieName)
			if err != nil || !sessions.Verify(cookie.Value) {
				return echo.NewHTTPError(http.StatusUnauthorized, "admin session required")
			}
			return next(c)
		}
	}
}
