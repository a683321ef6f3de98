package main

import (
	"fmt"

	"github.com/chris/digital-wallet/pkg/bootstrap"
	"github.com/chris/digital-wallet/pkg/storage"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long: `Create or update the relational schema. DynamoDB tables are
provisioned with the infrastructure and have nothing to migrate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, closeStore, err := bootstrap.OpenStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			m, ok := store.(storage.Migrator)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "storage driver %s has no schema to migrate\n", cfg.StorageDriver)
				return nil
			}
			if err := m.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}
