// Command softsellctl runs operational tasks against a SoftSell deployment.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/softsell/softsell/cmd/softsell/cli"
	"github.com/softsell/softsell/internal/app"
	"github.com/softsell/softsell/internal/platform/db"
	"github.com/softsell/softsell/migrations"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "softsellctl",
		Short:        "Operate the SoftSell lead service",
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(), newJobsCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadWorkerConfig()
			if err != nil {
				return err
			}
			if !cfg.LeadStorageEnabled() {
				return fmt.Errorf("PG_DSN is not set")
			}
			pool, err := db.New(cmd.Context(), cfg.PGDSN, db.Options{MaxConns: 1})
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := db.Migrate(cmd.Context(), pool, migrations.FS)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				cmd.Println("schema up to date")
			}
			for _, name := range applied {
				cmd.Printf("applied %s\n", name)
			}
			return nil
		},
	}
}

func newJobsCmd() *cobra.Command {
	var redisAddr string
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and trigger background jobs",
	}
	jobsCmd.PersistentFlags().StringVar(&redisAddr, "redis", envOr("REDIS_ADDR", "127.0.0.1:6379"), "redis address of the job queue")

	withCLI := func(run func(ctx context.Context, c *cli.JobsCLI, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			c := cli.NewJobsCLI(redisAddr)
			defer c.Close()
			return run(cmd.Context(), c, cmd, args)
		}
	}

	var retention time.Duration
	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Enqueue an immediate lead purge",
		Args:  cobra.NoArgs,
		RunE: withCLI(func(ctx context.Context, c *cli.JobsCLI, cmd *cobra.Command, args []string) error {
			info, err := c.TriggerPurge(ctx, retention)
			if err != nil {
				return err
			}
			cmd.Printf("enqueued %s (%s)\n", info.Type, info.ID)
			return nil
		}),
	}
	purgeCmd.Flags().DurationVar(&retention, "retention", 2160*time.Hour, "delete leads older than this")

	testMailCmd := &cobra.Command{
		Use:   "test-mail <address>",
		Short: "Enqueue a test e-mail through the worker",
		Args:  cobra.ExactArgs(1),
		RunE: withCLI(func(ctx context.Context, c *cli.JobsCLI, cmd *cobra.Command, args []string) error {
			info, err := c.TriggerTestEmail(ctx, args[0])
			if err != nil {
				return err
			}
			cmd.Printf("enqueued %s (%s)\n", info.Type, info.ID)
			return nil
		}),
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show default queue statistics",
		Args:  cobra.NoArgs,
		RunE: withCLI(func(ctx context.Context, c *cli.JobsCLI, cmd *cobra.Command, args []string) error {
			stats, err := c.InspectQueue(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("queue=%s pending=%d active=%d scheduled=%d retry=%d archived=%d\n",
				stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry, stats.Archived)
			return nil
		}),
	}

	var size int
	scheduledCmd := &cobra.Command{
		Use:   "scheduled",
		Short: "List scheduled tasks",
		Args:  cobra.NoArgs,
		RunE: withCLI(func(ctx context.Context, c *cli.JobsCLI, cmd *cobra.Command, args []string) error {
			tasks, err := c.ListScheduled(ctx, size)
			if err != nil {
				return err
			}
			for _, task := range tasks {
				cmd.Printf("%s\t%s\t%s\n", task.ID, task.Type, task.NextProcessAt.Format(time.RFC3339))
			}
			return nil
		}),
	}
	scheduledCmd.Flags().IntVar(&size, "size", 10, "maximum tasks to list")

	jobsCmd.AddCommand(purgeCmd, testMailCmd, statsCmd, scheduledCmd)
	return jobsCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
