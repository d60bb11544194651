package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/safeegypt/incident-reporting/internal/api"
	"github.com/safeegypt/incident-reporting/internal/core/ports"
	"github.com/safeegypt/incident-reporting/internal/core/service"
	"github.com/safeegypt/incident-reporting/internal/infrastructure/classifier"
	mongostore "github.com/safeegypt/incident-reporting/internal/infrastructure/db/mongo"
	redisstore "github.com/safeegypt/incident-reporting/internal/infrastructure/db/redis"
	"github.com/safeegypt/incident-reporting/internal/infrastructure/db/sqlstore"
	"github.com/safeegypt/incident-reporting/internal/infrastructure/http/handlers"
	"github.com/safeegypt/incident-reporting/internal/infrastructure/queue"
	"github.com/safeegypt/incident-reporting/internal/pkg/config"
	"github.com/safeegypt/incident-reporting/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the enrichment workers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = logger.Close() }()

		if err := cfg.ValidateServe(); err != nil {
			return err
		}
		return serve(cmd.Context(), cfg, log)
	},
}

func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = sqlstore.Close(db) }()

	if err := sqlstore.Migrate(db); err != nil {
		return err
	}

	appUsers := sqlstore.NewAppUserRepository(db)
	dashboardUsers := sqlstore.NewDashboardUserRepository(db)
	incidents := sqlstore.NewIncidentRepository(db)

	auth := service.NewAuthService(dashboardUsers, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log)
	if cfg.Auth.SeedAdmin {
		if err := auth.EnsureDefaultUser(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, "Administrator"); err != nil {
			return err
		}
	}

	checks := []handlers.Check{handlers.SQLCheck(db)}
	deps := service.IncidentDeps{Incidents: incidents, AppUsers: appUsers}
	routerDeps := api.Deps{Log: log, Version: version, Auth: auth}

	if cfg.Mongo.URI != "" {
		client, mdb, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: serviceName})
		if err != nil {
			return err
		}
		defer func() { _ = mongostore.Disconnect(client, shutdownTimeout) }()

		audit := mongostore.NewReviewAuditRepository(mdb)
		if err := audit.EnsureIndexes(ctx); err != nil {
			return err
		}
		deps.Audit = audit
		checks = append(checks, handlers.MongoCheck(mdb))
		log.Info().Str("database", mdb.Name()).Msg("review audit log enabled")
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()

		deps.Idempotency = redisstore.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		routerDeps.LoginLimiter = redisstore.NewLoginLimiter(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)
		checks = append(checks, handlers.RedisCheck(rdb))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys and login throttling enabled")
	}

	deps.Events = eventPublisher(cfg, log)
	if closer, ok := deps.Events.(*queue.Publisher); ok {
		defer func() { _ = closer.Close() }()
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	var dispatcher *queue.Dispatcher
	if cfg.Classifier.URL != "" {
		client := classifier.NewClient(classifier.Config{
			URL:     cfg.Classifier.URL,
			APIKey:  cfg.Classifier.APIKey,
			Model:   cfg.Classifier.Model,
			Timeout: cfg.Classifier.Timeout,
		})
		enrich := service.NewEnrichmentService(incidents, client, cfg.Classifier.Timeout, log)
		dispatcher = queue.NewDispatcher(cfg.Classifier.Workers, enrich, log)
		dispatcher.Start(workerCtx)
		deps.Enrichment = dispatcher
		log.Info().Int("workers", cfg.Classifier.Workers).Msg("incident enrichment enabled")
	}

	routerDeps.Profiles = service.NewProfileService(appUsers, log)
	routerDeps.Incidents = service.NewIncidentService(deps, log)
	routerDeps.ReadinessChecks = checks

	e := api.NewRouter(routerDeps)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("version", version).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
			stopWorkers()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	stopWorkers()
	if dispatcher != nil {
		dispatcher.Wait()
	}
	log.Info().Msg("server stopped")
	return nil
}

// eventPublisher returns the RabbitMQ publisher, or a log-only publisher
// when the broker is not configured or cannot be reached.
func eventPublisher(cfg *config.Config, log zerolog.Logger) ports.EventPublisher {
	if cfg.Events.RabbitMQURL == "" {
		return queue.NewLogPublisher(log)
	}
	p, err := queue.NewPublisher(queue.PublisherConfig{URL: cfg.Events.RabbitMQURL, Exchange: cfg.Events.Exchange}, log)
	if err != nil {
		log.Warn().Err(err).Msg("event broker unavailable, logging events instead")
		return queue.NewLogPublisher(log)
	}
	return p
}
