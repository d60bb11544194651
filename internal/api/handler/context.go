package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/safeegypt/incident-reporting/internal/api/middleware"
	"github.com/safeegypt/incident-reporting/internal/core/domain"
)

// ctxDashboardUser returns the user resolved by the Bearer middleware. A
// missing user means the route was mounted without authentication; it is
// rejected with 401 rather than served anonymously.
func ctxDashboardUser(c echo.Context) (*domain.DashboardUser, error) {
	user := middleware.DashboardUser(c)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
