package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/safeegypt/incident-reporting/internal/core/service"
	"github.com/safeegypt/incident-reporting/internal/infrastructure/db/sqlstore"
	"github.com/safeegypt/incident-reporting/internal/pkg/config"
	"github.com/safeegypt/incident-reporting/pkg/logger"
)

var (
	newUsername string
	newPassword string
	newFullName string

	targetUsername string
	activate       bool
)

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the relational schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(_ *config.Config, db *gorm.DB, log zerolog.Logger) error {
				if err := sqlstore.Migrate(db); err != nil {
					return err
				}
				log.Info().Msg("schema migrated")
				return nil
			})
		},
	}

	createUserCmd = &cobra.Command{
		Use:   "create-user",
		Short: "Create an active dashboard user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(cfg *config.Config, db *gorm.DB, log zerolog.Logger) error {
				if err := sqlstore.Migrate(db); err != nil {
					return err
				}
				auth := service.NewAuthService(sqlstore.NewDashboardUserRepository(db), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log)
				user, err := auth.CreateDashboardUser(cmd.Context(), newUsername, newPassword, newFullName)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created dashboard user %q (id %d)\n", user.Username, user.ID)
				return nil
			})
		},
	}

	setActiveCmd = &cobra.Command{
		Use:   "set-active",
		Short: "Activate or deactivate a dashboard user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if targetUsername == "" {
				return errors.New("--username is required")
			}
			return withDatabase(cmd.Context(), func(_ *config.Config, db *gorm.DB, log zerolog.Logger) error {
				repo := sqlstore.NewDashboardUserRepository(db)
				user, err := repo.FindByUsername(cmd.Context(), targetUsername)
				if err != nil {
					return fmt.Errorf("user %q: %w", targetUsername, err)
				}
				if err := repo.SetActive(cmd.Context(), user.ID, activate); err != nil {
					return err
				}
				log.Info().Str("username", user.Username).Bool("active", activate).Msg("dashboard user updated")
				fmt.Fprintf(cmd.OutOrStdout(), "user %q active=%t\n", user.Username, activate)
				return nil
			})
		},
	}
)

func init() {
	createUserCmd.Flags().StringVar(&newUsername, "username", "", "login name")
	createUserCmd.Flags().StringVar(&newPassword, "password", "", "initial password, at least 8 characters")
	createUserCmd.Flags().StringVar(&newFullName, "full-name", "", "display name")
	_ = createUserCmd.MarkFlagRequired("username")
	_ = createUserCmd.MarkFlagRequired("password")

	setActiveCmd.Flags().StringVar(&targetUsername, "username", "", "login name")
	setActiveCmd.Flags().BoolVar(&activate, "active", true, "set to false to deactivate")
}

func openDatabase(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	return sqlstore.Open(ctx, sqlstore.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, log)
}

// withDatabase runs fn against a freshly opened database and closes it after.
func withDatabase(ctx context.Context, fn func(*config.Config, *gorm.DB, zerolog.Logger) error) error {
	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = sqlstore.Close(db) }()

	return fn(cfg, db, log)
}
