package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/kunkoder/Cor1/internal/backup"
	"github.com/kunkoder/Cor1/internal/export"
	"github.com/kunkoder/Cor1/internal/models"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Run spreadsheet backups and inspect their history",
	}
	cmd.AddCommand(newBackupRunCmd(), newBackupHistoryCmd(), newBackupScheduleCmd())
	return cmd
}

// withService opens the database and hands a backup service to fn. The CLI
// never mirrors offsite; that is left to the server.
func withService(cmd *cobra.Command, timeout time.Duration, fn func(ctx context.Context, svc *backup.Service) error) error {
	logger := newLogger()
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	database, err := openDB(ctx, logger)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer database.Close()

	return fn(ctx, backup.NewService(database, nil, nil, logger))
}

func newBackupRunCmd() *cobra.Command {
	var (
		folder  string
		kinds   string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Export tables to a new backup workbook",
		Long: `Export tables to a new backup workbook.

Without flags the saved schedule's folder and tables are used. --kinds takes a
comma-separated list such as "USER,AREA,WORK_REPORT".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var selected []models.BackupKind
			if cmd.Flags().Changed("kinds") {
				selected = models.SplitBackupKinds(kinds)
			}
			return withService(cmd, timeout, func(ctx context.Context, svc *backup.Service) error {
				run, err := svc.RunNow(ctx, folder, selected, nil)
				if run != nil {
					printRun(cmd.OutOrStdout(), run)
				}
				var ioErr *export.IOError
				if errors.As(err, &ioErr) {
					return fmt.Errorf("backup not written: %w", ioErr)
				}
				return err
			})
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "Destination folder (defaults to the saved schedule)")
	cmd.Flags().StringVar(&kinds, "kinds", "", "Tables to export (defaults to the saved schedule)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "Give up after this long")
	return cmd
}

func newBackupHistoryCmd() *cobra.Command {
	var (
		limit   int
		offset  int
		sortBy  string
		asc     bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded backup runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			field := models.BackupRunSortField(sortBy)
			if !models.IsValidBackupRunSortField(field) {
				return fmt.Errorf("invalid --sort %q", sortBy)
			}
			if limit < 1 || offset < 0 {
				return errors.New("--limit must be positive and --offset non-negative")
			}
			return withService(cmd, 30*time.Second, func(ctx context.Context, svc *backup.Service) error {
				runs, total, err := svc.History(ctx, models.BackupRunQuery{Limit: limit, Offset: offset, SortBy: field, Asc: asc})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if jsonOut {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(map[string]any{"runs": runs, "total": total})
				}
				printHistory(out, runs)
				fmt.Fprintf(out, "%d of %d runs\n", len(runs), total)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Rows to skip")
	cmd.Flags().StringVar(&sortBy, "sort", string(models.BackupRunSortStartedAt), "Sort by started_at, status or size_bytes")
	cmd.Flags().BoolVar(&asc, "asc", false, "Sort ascending")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print JSON instead of a table")
	return cmd
}

func newBackupScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Show the saved backup schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, 30*time.Second, func(ctx context.Context, svc *backup.Service) error {
				schedule, err := svc.GetSchedule(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Every:   %d day(s)\n", schedule.IntervalDays)
				fmt.Fprintf(out, "At:      %s\n", orNone(schedule.BackupTime))
				fmt.Fprintf(out, "From:    %s\n", orNone(schedule.StartDate))
				fmt.Fprintf(out, "Folder:  %s\n", orNone(schedule.Folder))
				fmt.Fprintf(out, "Tables:  %s\n", orNone(models.JoinBackupKinds(schedule.Kinds)))
				fmt.Fprintf(out, "Version: %d\n", schedule.Version)
				return nil
			})
		},
	}
}

func printRun(w io.Writer, run *models.BackupRun) {
	fmt.Fprintf(w, "Run %s %s\n", run.ID, run.Status)
	if run.FilePath != "" {
		fmt.Fprintf(w, "  File:     %s\n", run.FilePath)
	}
	fmt.Fprintf(w, "  Sheets:   %d\n", run.SheetCount)
	fmt.Fprintf(w, "  Rows:     %d\n", run.RowCount)
	if run.RemoteURI != "" {
		fmt.Fprintf(w, "  Offsite:  %s\n", run.RemoteURI)
	}
	for _, warning := range run.Warnings {
		fmt.Fprintf(w, "  Warning:  %s\n", warning)
	}
	if run.ErrorMessage != "" {
		fmt.Fprintf(w, "  Error:    %s\n", run.ErrorMessage)
	}
}

func printHistory(w io.Writer, runs []*models.BackupRun) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"ID", "STARTED_AT", "TRIGGER", "STATUS", "TABLES", "ROWS", "SIZE", "FILE"})
	for _, r := range runs {
		size := "-"
		if r.SizeBytes != nil {
			size = strconv.FormatInt(*r.SizeBytes, 10)
		}
		tw.Append([]string{
			r.ID.String(),
			r.StartedAt.Format(time.RFC3339),
			string(r.Trigger),
			string(r.Status),
			models.JoinBackupKinds(r.Kinds),
			strconv.Itoa(r.RowCount),
			size,
			r.FilePath,
		})
	}
	tw.Render()
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
