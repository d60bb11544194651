package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
)

// contextKeyUser holds the *domain.DashboardUser resolved from the bearer token.
const contextKeyUser = "dashboard_user"

// TokenResolver turns a bearer token into an active dashboard user, or nil.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*domain.DashboardUser, error)
}

// Bearer authenticates the request with the Authorization header. Missing,
// malformed, expired or revoked tokens are all answered with 401 before the
// handler runs.
func Bearer(resolver TokenResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			token = strings.TrimSpace(token)
			if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user, err := resolver.ResolveToken(c.Request().Context(), token)
			if err != nil {
				log.Error().Err(err).Str("path", c.Path()).Msg("token resolution failed")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			SetDashboardUser(c, user)
			return next(c)
		}
	}
}

// SetDashboardUser stores the authenticated user on the request context.
func SetDashboardUser(c echo.Context, user *domain.DashboardUser) {
	c.Set(contextKeyUser, user)
}

// DashboardUser returns the user stored by Bearer, or nil.
func DashboardUser(c echo.Context) *domain.DashboardUser {
	user, _ := c.Get(contextKeyUser).(*domain.DashboardUser)
	return user
}
