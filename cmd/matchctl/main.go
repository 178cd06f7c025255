package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"opportunity-matcher/internal/app"
	"opportunity-matcher/internal/config"
	"opportunity-matcher/internal/platform/logger"
)

var (
	logLevelFlag string
	container    *app.Container

	rootCmd = &cobra.Command{
		Use:           "matchctl",
		Short:         "Operator tool for the opportunity matcher document store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return openContainer(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return container.Close()
		},
	}
)

func openContainer(ctx context.Context) error {
	_ = godotenv.Load()
	// The CLI never listens; the port is only required by the server.
	if os.Getenv("APP_HTTP_PORT") == "" {
		_ = os.Setenv("APP_HTTP_PORT", "0")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewWithWriter(os.Stderr, "matchctl", logLevelFlag)
	c, err := app.NewContainer(ctx, cfg, log)
	if err != nil {
		return err
	}
	container = c
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warn", "Log level written to stderr")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
