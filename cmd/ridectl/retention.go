package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rideshare-functions/internal/app"
	"rideshare-functions/internal/retention/domain"
	"rideshare-functions/internal/retention/scheduler"
	"rideshare-functions/internal/retention/usecase"
	"rideshare-functions/pkg/config"
	"rideshare-functions/pkg/logging"
)

func retentionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retention",
		Short: "Inspect or run the ride retention sweep",
	}

	cmd.AddCommand(retentionRunCmd())
	cmd.AddCommand(retentionNextCmd())

	return cmd
}

func retentionRunCmd() *cobra.Command {
	var cutoff string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Archive and delete rides and ride requests dated before the cutoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			at := time.Now()
			if cutoff != "" {
				parsed, err := time.Parse(time.RFC3339, cutoff)
				if err != nil {
					return fmt.Errorf("invalid --cutoff: %w", err)
				}
				at = parsed
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.NewLoggerTo(cmd.ErrOrStderr(), cfg.LogLevel)

			backends, err := app.NewBackends(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer backends.Close()

			job := usecase.NewJob(usecase.NewSweeper(backends.Store, logger), domain.DefaultTargets(), logger)
			results, runErr := job.Run(cmd.Context(), at)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&cutoff, "cutoff", "", "RFC 3339 cutoff (default now)")

	return cmd
}

func retentionNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Print the next scheduled retention run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			sched, err := scheduler.NewRetentionScheduler(nil, cfg.RetentionSchedule, cfg.RetentionTimezone, 0, logging.Discard())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sched.Next().Format(time.RFC3339))
			return nil
		},
	}
}
