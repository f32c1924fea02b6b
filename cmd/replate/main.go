package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/smallbiznis/replate/internal/config"
	"github.com/smallbiznis/replate/internal/migration"
	"github.com/smallbiznis/replate/internal/observability"
	"github.com/smallbiznis/replate/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "replate",
		Short:         "Operator tooling for the Replate services",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCommand(), newVersionCommand())
	return root
}

func newMigrateCommand() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations to the configured database and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// migration.Module applies the schema while the graph is built.
			app := fx.New(
				config.Module,
				observability.Module,
				db.Module,
				migration.Module,
				fx.NopLogger,
			)
			if err := app.Err(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			if err := app.Start(ctx); err != nil {
				return err
			}
			return app.Stop(ctx)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "time allowed to connect and migrate")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "replate %s (%s)\n", version, commit)
		},
	}
}
