package main

import (
	"context"
	"fmt"
	"time"

	"github.com/kunkoder/Cor1/internal/db"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const migrateTimeout = 5 * time.Minute

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
			defer cancel()

			database, err := openDB(ctx, logger)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer database.Close()

			if err := database.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			version, err := database.CurrentVersion(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("could not read schema version")
				return nil
			}
			logger.Info().Int("version", version).Msg("schema up to date")
			return nil
		},
	}
	cmd.AddCommand(newMigrateStatusCmd(), newMigrateListCmd())
	return cmd
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			database, err := openDB(ctx, newLogger())
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer database.Close()

			version, err := database.CurrentVersion(ctx)
			if err != nil {
				return fmt.Errorf("schema version: %w", err)
			}
			pending, err := database.PendingMigrations(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Schema version %d, %d pending\n", version, len(pending))
			for _, m := range pending {
				fmt.Fprintf(out, "  %03d %s\n", m.Version, m.Name)
			}
			return nil
		},
	}
}

func newMigrateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the embedded migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrations, err := db.GetMigrations()
			if err != nil {
				return err
			}
			if len(migrations) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No migrations found")
				return nil
			}
			tw := tablewriter.NewWriter(cmd.OutOrStdout())
			tw.SetHeader([]string{"VERSION", "NAME"})
			for _, m := range migrations {
				tw.Append([]string{fmt.Sprintf("%03d", m.Version), m.Name})
			}
			tw.Render()
			return nil
		},
	}
}
