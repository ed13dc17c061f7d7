package backup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kunkoder/Cor1/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ScheduleSource loads the saved backup schedule.
type ScheduleSource interface {
	GetBackupSchedule(ctx context.Context) (*models.BackupSchedule, error)
}

// Runner performs a scheduled backup.
type Runner interface {
	RunScheduled(ctx context.Context) (*models.BackupRun, error)
}

// SchedulerConfig holds configuration for the backup scheduler.
type SchedulerConfig struct {
	// RefreshInterval is how often to reload the schedule from the database.
	RefreshInterval time.Duration

	// Location is the time zone backup times are interpreted in.
	Location *time.Location
}

// DefaultSchedulerConfig returns a SchedulerConfig with sensible defaults.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		RefreshInterval: 5 * time.Minute,
		Location:        time.Local,
	}
}

// intervalSchedule fires at the configured time of day every N days from
// the start date.
type intervalSchedule struct {
	schedule *models.BackupSchedule
	loc      *time.Location
}

// Next implements cron.Schedule. A zero time means the entry never fires.
func (i intervalSchedule) Next(t time.Time) time.Time {
	next, ok := i.schedule.NextRun(t, i.loc)
	if !ok {
		return time.Time{}
	}
	return next
}

// Scheduler fires the saved backup schedule using cron.
type Scheduler struct {
	source  ScheduleSource
	runner  Runner
	config  SchedulerConfig
	cron    *cron.Cron
	logger  zerolog.Logger
	mu      sync.RWMutex
	entry   cron.EntryID
	active  *intervalSchedule
	version int
	running bool

	// runMu keeps scheduled runs from overlapping.
	runMu sync.Mutex
}

// NewScheduler creates a new backup scheduler.
func NewScheduler(source ScheduleSource, runner Runner, config SchedulerConfig, logger zerolog.Logger) *Scheduler {
	if config.Location == nil {
		config.Location = time.Local
	}
	return &Scheduler{
		source: source,
		runner: runner,
		config: config,
		cron:   cron.New(cron.WithLocation(config.Location)),
		logger: logger.With().Str("component", "backup_scheduler").Logger(),
	}
}

// Start loads the schedule and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("scheduler already running")
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info().Str("location", s.config.Location.String()).Msg("starting backup scheduler")

	if err := s.Reload(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to load backup schedule")
	}

	s.cron.Start()

	if s.config.RefreshInterval > 0 {
		go s.refreshLoop(ctx)
	}

	s.logger.Info().Msg("backup scheduler started")
	return nil
}

// Stop stops the scheduler. The returned context is done once a running
// backup has finished.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}

	s.running = false
	s.logger.Info().Msg("stopping backup scheduler")
	return s.cron.Stop()
}

// Reload replaces the cron entry with the currently saved schedule. A
// disabled schedule leaves no entry.
func (s *Scheduler) Reload(ctx context.Context) error {
	schedule, err := s.source.GetBackupSchedule(ctx)
	if err != nil {
		return fmt.Errorf("get backup schedule: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil && schedule.Version == s.version && s.cron.Entry(s.entry).Valid() {
		return nil
	}

	if s.active != nil {
		s.cron.Remove(s.entry)
		s.active = nil
	}
	s.version = schedule.Version

	if !schedule.Enabled() {
		s.logger.Info().Int("version", schedule.Version).Msg("backup schedule disabled")
		return nil
	}

	interval := &intervalSchedule{schedule: schedule, loc: s.config.Location}
	s.entry = s.cron.Schedule(interval, cron.FuncJob(s.executeBackup))
	s.active = interval

	next := interval.Next(time.Now())
	s.logger.Info().
		Int("version", schedule.Version).
		Int("interval_days", schedule.IntervalDays).
		Str("backup_time", schedule.BackupTime).
		Time("next_run", next).
		Msg("backup schedule loaded")

	return nil
}

// executeBackup runs one scheduled backup unless another is still running.
func (s *Scheduler) executeBackup() {
	if !s.runMu.TryLock() {
		s.logger.Warn().Msg("previous scheduled backup still running, skipping")
		return
	}
	defer s.runMu.Unlock()

	run, err := s.runner.RunScheduled(context.Background())
	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled backup failed")
		return
	}
	if run == nil {
		return
	}
	s.logger.Info().
		Str("run_id", run.ID.String()).
		Str("status", string(run.Status)).
		Msg("scheduled backup finished")
}

// refreshLoop periodically reloads the schedule so changes saved by other
// processes are picked up.
func (s *Scheduler) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.RLock()
			running := s.running
			s.mu.RUnlock()

			if !running {
				return
			}

			if err := s.Reload(ctx); err != nil {
				s.logger.Error().Err(err).Msg("failed to reload backup schedule")
			}
		}
	}
}

// NextRun returns the next time the loaded schedule fires.
func (s *Scheduler) NextRun() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.active == nil {
		return time.Time{}, false
	}
	next := s.active.Next(time.Now())
	return next, !next.IsZero()
}
