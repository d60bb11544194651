package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
)

// RequireCapability admits users holding every listed capability.
// It must run after Bearer.
func RequireCapability(required ...domain.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := DashboardUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			for _, capability := range required {
				if !user.Can(capability) {
					return domain.ErrForbidden
				}
			}
			return next(c)
		}
	}
}
