package middleware

import (
	"bytes"
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
	"github.com/safeegypt/incident-reporting/internal/pkg/metrics"
)

const maxLoginBody = 64 << 10

// AttemptLimiter counts attempts per subject inside a fixed window.
type AttemptLimiter interface {
	Allow(ctx context.Context, subject string) (bool, time.Duration, error)
	Reset(ctx context.Context, subject string) error
}

// LoginThrottle limits login attempts per username and client IP. A
// successful login clears the counter. Limiter failures let the request
// through.
func LoginThrottle(limiter AttemptLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			body, err := io.ReadAll(io.LimitReader(req.Body, maxLoginBody))
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			username := strings.ToLower(strings.TrimSpace(gjson.GetBytes(body, "username").String()))
			subject := username + "|" + c.RealIP()

			ctx := req.Context()
			allowed, retryAfter, err := limiter.Allow(ctx, subject)
			if err != nil {
				log.Warn().Err(err).Msg("login limiter unavailable, not throttling")
				return next(c)
			}
			if !allowed {
				metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
				secs := int(math.Ceil(retryAfter.Seconds()))
				if secs < 1 {
					secs = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return domain.ErrTooManyAttempts
			}

			if err := next(c); err != nil {
				return err
			}
			if c.Response().Status == http.StatusOK {
				if err := limiter.Reset(ctx, subject); err != nil {
					log.Warn().Err(err).Msg("failed to reset login limiter")
				}
			}
			return nil
		}
	}
}
