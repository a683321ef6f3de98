package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func runSchedulesCmd() *cobra.Command {
	var dispatch bool

	cmd := &cobra.Command{
		Use:   "run-schedules",
		Short: "Run every scheduled payment that is due now",
		Long: `Run every scheduled payment that is due now. With --dispatch the due
schedules are sent to SQS_QUEUE_URL for the schedule runner instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			now := time.Now().UTC()
			if dispatch {
				queue, err := app.Queue(cmd.Context())
				if err != nil {
					return err
				}
				sent, err := app.Schedules.DispatchDue(cmd.Context(), now, queue)
				fmt.Fprintf(cmd.OutOrStdout(), "dispatched %d scheduled payments\n", sent)
				return err
			}

			summary, err := app.Schedules.RunDue(cmd.Context(), now)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "processed=%d failed=%d skipped=%d errors=%d\n",
				summary.Processed, summary.Failed, summary.Skipped, summary.Errors)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dispatch, "dispatch", false, "enqueue due schedules instead of running them")
	return cmd
}

func sweepPendingCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "sweep-pending",
		Short: "Poll providers for pending transactions older than the stale threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if olderThan <= 0 {
				olderThan = app.Config.StalePendingAfter
			}
			result, err := app.Reconciler.SweepPending(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked=%d updated=%d failed=%d\n", result.Checked, result.Updated, result.Failed)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "override STALE_PENDING_AFTER")
	return cmd
}
