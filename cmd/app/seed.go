package main

import (
	"fmt"

	"github.com/chris/digital-wallet/pkg/seed"
	"github.com/spf13/cobra"
)

func seedGatewaysCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "seed-gateways",
		Short: "Load payment gateway registry entries from a YAML file",
		Long: `Load payment gateway registry entries from a YAML file. Credential
values are expanded from the environment, so secrets stay out of the file.

Examples:
  wallet seed-gateways
  wallet seed-gateways --file /etc/wallet/gateways.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := seed.LoadFile(path)
			if err != nil {
				return err
			}

			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			for i := range entries {
				if err := app.Store.UpsertGateway(cmd.Context(), &entries[i]); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d payment gateways\n", len(entries))
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "config/gateways.yaml", "gateway seed file")
	return cmd
}
