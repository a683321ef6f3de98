package main

import (
	"context"
	"fmt"
	"os"

	"github.com/chris/digital-wallet/pkg/bootstrap"
	"github.com/chris/digital-wallet/pkg/config"
	"github.com/chris/digital-wallet/pkg/logging"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "wallet",
		Short:         "Digital wallet and bill payment service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedGatewaysCmd())
	rootCmd.AddCommand(runSchedulesCmd())
	rootCmd.AddCommand(sweepPendingCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and the logger shared by every command.
func setup() (*config.Config, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewLoggerFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logging.SetGlobal(logger)
	return cfg, logger, nil
}

func newApp(ctx context.Context) (*bootstrap.App, error) {
	cfg, logger, err := setup()
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg, logger)
}
