// Package backup runs spreadsheet backup exports on demand and on schedule,
// and keeps their run history.
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/kunkoder/Cor1/internal/export"
	"github.com/kunkoder/Cor1/internal/metrics"
	"github.com/kunkoder/Cor1/internal/models"
	"github.com/rs/zerolog"
)

// ErrInvalidRequest is returned when a run cannot start with the given input.
var ErrInvalidRequest = errors.New("invalid backup request")

// ErrFileUnavailable is returned when a run has no workbook on disk to serve.
var ErrFileUnavailable = errors.New("backup file unavailable")

// Store defines the persistence the backup service needs.
type Store interface {
	export.Store

	GetBackupSchedule(ctx context.Context) (*models.BackupSchedule, error)
	SaveBackupSchedule(ctx context.Context, s *models.BackupSchedule, expectedVersion *int) error

	CreateBackupRun(ctx context.Context, r *models.BackupRun) error
	UpdateBackupRun(ctx context.Context, r *models.BackupRun) error
	GetBackupRunByID(ctx context.Context, id uuid.UUID) (*models.BackupRun, error)
	ListBackupRuns(ctx context.Context, q models.BackupRunQuery) ([]*models.BackupRun, int, error)
	DeleteBackupRun(ctx context.Context, id uuid.UUID) error
}

// Mirror copies a finished workbook to offsite storage and returns its URI.
type Mirror interface {
	Upload(ctx context.Context, path string) (string, error)
}

// Service runs backup exports and records their history.
type Service struct {
	store    Store
	exporter *export.Exporter
	mirror   Mirror
	metrics  *metrics.PrometheusMetrics
	logger   zerolog.Logger

	onScheduleSaved func(ctx context.Context)
}

// NewService creates a new backup Service. mirror and m may be nil.
func NewService(store Store, mirror Mirror, m *metrics.PrometheusMetrics, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		exporter: export.NewExporter(store, logger),
		mirror:   mirror,
		metrics:  m,
		logger:   logger.With().Str("component", "backup_service").Logger(),
	}
}

// OnScheduleSaved registers fn to be called after every successful schedule save.
func (s *Service) OnScheduleSaved(fn func(ctx context.Context)) {
	s.onScheduleSaved = fn
}

// GetSchedule returns the current backup schedule.
func (s *Service) GetSchedule(ctx context.Context) (*models.BackupSchedule, error) {
	schedule, err := s.store.GetBackupSchedule(ctx)
	if err != nil {
		return nil, fmt.Errorf("get backup schedule: %w", err)
	}
	return schedule, nil
}

// SaveSchedule validates in and overwrites the stored schedule with it.
// Invalid input fails with models.ErrInvalidSchedule before anything is
// written.
func (s *Service) SaveSchedule(ctx context.Context, in models.BackupScheduleInput, expectedVersion *int) (*models.BackupSchedule, error) {
	schedule, err := models.ParseBackupScheduleInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveBackupSchedule(ctx, schedule, expectedVersion); err != nil {
		return nil, fmt.Errorf("save backup schedule: %w", err)
	}

	s.logger.Info().
		Int("interval_days", schedule.IntervalDays).
		Str("backup_time", schedule.BackupTime).
		Str("start_date", schedule.StartDate).
		Str("folder", schedule.Folder).
		Str("kinds", models.JoinBackupKinds(schedule.Kinds)).
		Int("version", schedule.Version).
		Msg("backup schedule saved")

	if s.onScheduleSaved != nil {
		s.onScheduleSaved(ctx)
	}
	return schedule, nil
}

// RunNow exports kinds into folder immediately. An empty folder or nil kinds
// fall back to the saved schedule. The returned run is non-nil whenever a
// history record was created, including failed runs.
func (s *Service) RunNow(ctx context.Context, folder string, kinds []models.BackupKind, triggeredBy *uuid.UUID) (*models.BackupRun, error) {
	if folder == "" || kinds == nil {
		saved, err := s.GetSchedule(ctx)
		if err != nil {
			return nil, err
		}
		if folder == "" {
			folder = saved.Folder
		}
		if kinds == nil {
			kinds = saved.Kinds
		}
	}
	if err := models.ValidateFolderPath(folder); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return s.execute(ctx, models.BackupTriggerManual, folder, kinds, triggeredBy)
}

// RunScheduled exports according to the saved schedule. It does nothing
// when the schedule is disabled.
func (s *Service) RunScheduled(ctx context.Context) (*models.BackupRun, error) {
	schedule, err := s.GetSchedule(ctx)
	if err != nil {
		return nil, err
	}
	if !schedule.Enabled() {
		s.logger.Debug().Msg("backup schedule disabled, skipping run")
		return nil, nil
	}
	return s.execute(ctx, models.BackupTriggerScheduled, schedule.Folder, schedule.Kinds, nil)
}

func (s *Service) execute(ctx context.Context, trigger models.BackupTrigger, folder string, kinds []models.BackupKind, triggeredBy *uuid.UUID) (*models.BackupRun, error) {
	run := models.NewBackupRun(trigger, folder, kinds, triggeredBy)
	if err := s.store.CreateBackupRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create backup run: %w", err)
	}

	logger := s.logger.With().
		Str("run_id", run.ID.String()).
		Str("trigger", string(trigger)).
		Logger()
	logger.Info().Str("folder", folder).Str("kinds", models.JoinBackupKinds(kinds)).Msg("starting backup")

	result, err := s.exporter.Run(ctx, folder, kinds)
	if err != nil {
		run.Fail(err.Error())
		s.finish(ctx, run, logger)
		logger.Error().Err(err).Msg("backup failed")
		return run, err
	}

	var size int64
	if info, statErr := os.Stat(result.Path); statErr == nil {
		size = info.Size()
	}
	for _, skipped := range result.Skipped {
		run.AddWarning(fmt.Sprintf("%s skipped: %s", skipped.Kind, skipped.Reason))
	}

	if s.mirror != nil {
		uri, err := s.mirror.Upload(ctx, result.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("offsite upload failed")
			run.AddWarning("offsite upload failed: " + err.Error())
		} else {
			run.RemoteURI = uri
		}
	}

	run.Complete(result.Path, len(result.Sheets), result.RowCount(), size)
	s.finish(ctx, run, logger)

	if s.metrics != nil {
		for _, sheet := range result.Sheets {
			s.metrics.SetRows(string(sheet.Kind), sheet.Rows)
		}
		s.metrics.SetLastSuccess(run.CompletedAt.Unix())
	}

	logger.Info().
		Str("file_path", run.FilePath).
		Int("sheets", run.SheetCount).
		Int("rows", run.RowCount).
		Int64("size_bytes", size).
		Dur("duration", time.Since(run.StartedAt)).
		Msg("backup completed")

	return run, nil
}

// finish persists the outcome of run and records its metrics. A failure to
// update the record is logged, not returned, so the export result stands.
func (s *Service) finish(ctx context.Context, run *models.BackupRun, logger zerolog.Logger) {
	if err := s.store.UpdateBackupRun(context.WithoutCancel(ctx), run); err != nil {
		logger.Error().Err(err).Msg("failed to update backup run")
	}
	if s.metrics != nil {
		s.metrics.RecordBackup(string(run.Status))
		if run.Duration != nil {
			s.metrics.RecordBackupDuration(string(run.Trigger), float64(*run.Duration)/1000)
		}
	}
}

// History returns a page of run history and the total number of runs.
func (s *Service) History(ctx context.Context, q models.BackupRunQuery) ([]*models.BackupRun, int, error) {
	runs, total, err := s.store.ListBackupRuns(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("list backup runs: %w", err)
	}
	return runs, total, nil
}

// GetRun returns a single run.
func (s *Service) GetRun(ctx context.Context, id uuid.UUID) (*models.BackupRun, error) {
	run, err := s.store.GetBackupRunByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get backup run: %w", err)
	}
	return run, nil
}

// RunFile returns the run and the path of its workbook on disk.
func (s *Service) RunFile(ctx context.Context, id uuid.UUID) (*models.BackupRun, string, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !run.IsSuccessful() || run.FilePath == "" {
		return run, "", fmt.Errorf("%w: run %s is %s", ErrFileUnavailable, run.ID, run.Status)
	}
	if _, err := os.Stat(run.FilePath); err != nil {
		return run, "", fmt.Errorf("%w: %v", ErrFileUnavailable, err)
	}
	return run, run.FilePath, nil
}

// DeleteRun removes a run's workbook, if still present, and its record.
func (s *Service) DeleteRun(ctx context.Context, id uuid.UUID) error {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return err
	}
	if run.FilePath != "" {
		if err := os.Remove(run.FilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove backup file: %w", err)
		}
	}
	if err := s.store.DeleteBackupRun(ctx, id); err != nil {
		return fmt.Errorf("delete backup run: %w", err)
	}
	s.logger.Info().Str("run_id", id.String()).Str("file_path", run.FilePath).Msg("backup run deleted")
	return nil
}
