package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"TrackerSync/internal/app"
	"TrackerSync/internal/config"
	"TrackerSync/internal/logging"
	"TrackerSync/internal/stats"
)

func statsBucketOrder() []string {
	return stats.BucketNames
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "trackersync",
		Short:         "Sync competitive-programming and commit activity into the tracker tables",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newSyncCmd(), newPreviewCmd(), newStatsCmd(), newGitHubCmd(), newDaemonCmd())
	return root
}

func withApp(run func(cmd *cobra.Command, application *app.Application) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg := config.Load()
		logger := logging.New(cfg.Logging.Level)

		application, err := app.New(cfg, logger)
		if err != nil {
			return err
		}
		defer application.Close()

		return run(cmd, application)
	}
}

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch submissions and append new accepted problems to the table",
		RunE: withApp(func(cmd *cobra.Command, application *app.Application) error {
			report, err := application.Sync(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"Added %d new accepted submission(s); %d accepted in the tracking period.\n",
				report.Added, report.TotalAcceptedInWindow)
			return nil
		}),
	}
}

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Show what a sync would append, without writing",
		RunE: withApp(func(cmd *cobra.Command, application *app.Application) error {
			preview, err := application.Preview(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d new problem(s) would be added (%d accepted in the period).\n",
				preview.NewProblems, preview.TotalAcceptedInWindow)
			for _, row := range preview.Sample {
				fmt.Fprintf(out, "  %3d  %s  %-40s %s\n",
					row.Seq, row.Date.Format("2006-01-02"), row.Name, row.Rating)
			}
			return nil
		}),
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Refresh and print the all-time solve summary",
		RunE: withApp(func(cmd *cobra.Command, application *app.Application) error {
			solve, user, err := application.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Handle: %s\nSolved: %d  Average rating: %d\n",
				user.Handle, solve.TotalSolved, solve.AverageRating)
			for _, bucket := range statsBucketOrder() {
				fmt.Fprintf(out, "  %-10s %d\n", bucket, solve.ByDifficulty[bucket])
			}
			return nil
		}),
	}
}

func newGitHubCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "github",
		Short: "Sync recent commit counts into the daily log",
		RunE: withApp(func(cmd *cobra.Command, application *app.Application) error {
			count, err := application.GitHub(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d commit(s).\n", count)
			return nil
		}),
	}
}

func newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the sync on a schedule until interrupted",
		RunE: withApp(func(cmd *cobra.Command, application *app.Application) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return application.RunDaemon(ctx)
		}),
	}
}
