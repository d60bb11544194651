// Command incidentd runs the incident reporting API and its admin tasks.
//
//	@title						Incident Reporting API
//	@version					1.0
//	@description				Citizen incident reports and the review dashboard.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the dashboard token.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/safeegypt/incident-reporting/internal/pkg/config"
	"github.com/safeegypt/incident-reporting/pkg/logger"
)

const serviceName = "incidentd"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var envFile string

var (
	rootCmd = &cobra.Command{
		Use:           serviceName,
		Short:         "Incident reporting API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of incidentd",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", serviceName, version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.AddCommand(versionCmd, serveCmd, migrateCmd, createUserCmd, setActiveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads the dotenv file, the configuration and the logger.
// A missing dotenv file is not an error.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, zerolog.Nop(), fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		File:    cfg.LogFile,
		Service: serviceName,
	})
	return cfg, log, nil
}
