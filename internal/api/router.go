package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/safeegypt/incident-reporting/internal/api/handler"
	"github.com/safeegypt/incident-reporting/internal/api/middleware"
	"github.com/safeegypt/incident-reporting/internal/core/domain"
	"github.com/safeegypt/incident-reporting/internal/core/ports"
	"github.com/safeegypt/incident-reporting/internal/infrastructure/http/handlers"

	_ "github.com/safeegypt/incident-reporting/docs"
)

const (
	requestTimeout = 30 * time.Second
	maxBodySize    = "2M"
)

// Deps carries everything the HTTP layer needs. LoginLimiter and
// ReadinessChecks are optional.
type Deps struct {
	Log             zerolog.Logger
	Version         string
	Auth            ports.AuthService
	Profiles        ports.ProfileService
	Incidents       ports.IncidentService
	LoginLimiter    middleware.AttemptLimiter
	ReadinessChecks []handlers.Check
	AllowOrigins    []string
	// Registry receives the HTTP metrics. Nil means the default registry,
	// which also holds the domain metrics.
	Registry *prometheus.Registry
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.BodyLimit(maxBodySize))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: allowOrigins(d.AllowOrigins),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, handler.HeaderIdempotencyKey},
	}))
	e.Use(echomiddleware.ContextTimeoutWithConfig(echomiddleware.ContextTimeoutConfig{
		Timeout: requestTimeout,
		Skipper: func(c echo.Context) bool { return strings.HasPrefix(c.Path(), "/swagger") },
	}))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "incident_reporting",
		Subsystem:  "http",
		Skipper:    skipProbes,
		Registerer: registerer,
	}))

	// --- Operational endpoints ---
	e.GET("/health", handlers.NewHealthHandler(d.Version).Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(d.ReadinessChecks...).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	profileHandler := handler.NewProfileHandler(d.Profiles)
	incidentHandler := handler.NewIncidentHandler(d.Incidents)
	authHandler := handler.NewAuthHandler(d.Auth)

	// --- Mobile app (no authentication) ---
	app := e.Group("/api/app")
	app.POST("/profile", profileHandler.CreateOrGet)
	app.GET("/profile/device/:device_id", profileHandler.GetByDevice)
	app.POST("/incidents", incidentHandler.Report)

	// --- Dashboard ---
	dashboard := e.Group("/api/dashboard")
	if d.LoginLimiter != nil {
		dashboard.POST("/login", authHandler.Login, middleware.LoginThrottle(d.LoginLimiter, d.Log))
	} else {
		dashboard.POST("/login", authHandler.Login)
	}

	secured := dashboard.Group("",
		middleware.Bearer(d.Auth, d.Log),
		middleware.RequireCapability(domain.CapabilityReviewIncidents),
	)
	secured.GET("/me", authHandler.Me)
	secured.POST("/password", authHandler.ChangePassword)
	secured.GET("/incidents", incidentHandler.List)
	secured.GET("/incidents/stats", incidentHandler.Stats)
	secured.GET("/incident/:id", incidentHandler.Get)
	secured.GET("/incident/:id/history", incidentHandler.History)
	secured.POST("/incident/:id/status", incidentHandler.UpdateStatus)

	return e
}

func allowOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func skipProbes(c echo.Context) bool {
	switch c.Path() {
	case "/metrics", "/health", "/health/ready":
		return true
	}
	return false
}

// requestLogger writes one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		Skipper:      skipProbes,
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				evt = log.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				evt = log.Warn()
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
