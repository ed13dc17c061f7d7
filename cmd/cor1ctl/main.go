// Package main is the entrypoint for the Cor1 admin CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/kunkoder/Cor1/internal/db"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Build-time variables set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var (
	flagDatabaseURL string
	flagVerbose     bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cor1ctl",
		Short: "Administer a Cor1 maintenance database",
		Long: `cor1ctl runs schema migrations and spreadsheet backups directly
against the Cor1 database, without going through the HTTP API.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&flagDatabaseURL, "db", "", "Database URL (or set DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(
		newVersionCmd(),
		newMigrateCmd(),
		newBackupCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cor1ctl %s\n", Version)
			fmt.Fprintf(out, "  Commit:     %s\n", Commit)
			fmt.Fprintf(out, "  Built:      %s\n", BuildDate)
			fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
		},
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func databaseURL() (string, error) {
	if flagDatabaseURL != "" {
		return flagDatabaseURL, nil
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url, nil
	}
	return "", errors.New("database URL required: use --db or set DATABASE_URL")
}

// openDB connects with a small pool; the CLI never needs more than a few connections.
func openDB(ctx context.Context, logger zerolog.Logger) (*db.DB, error) {
	url, err := databaseURL()
	if err != nil {
		return nil, err
	}
	cfg := db.DefaultConfig(url)
	cfg.MaxConns = 4
	cfg.MinConns = 1
	return db.New(ctx, cfg, logger)
}
