package backup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kunkoder/Cor1/internal/models"
	"github.com/rs/zerolog"
)

type mockScheduleSource struct {
	mu       sync.Mutex
	schedule *models.BackupSchedule
	err      error
}

func (m *mockScheduleSource) GetBackupSchedule(_ context.Context) (*models.BackupSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	s := *m.schedule
	return &s, nil
}

func (m *mockScheduleSource) set(s *models.BackupSchedule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedule = s
}

type mockRunner struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (m *mockRunner) RunScheduled(_ context.Context) (*models.BackupRun, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.release != nil {
		<-m.release
	}
	return models.NewBackupRun(models.BackupTriggerScheduled, "/backups", nil, nil), nil
}

func enabledSchedule(version int) *models.BackupSchedule {
	return &models.BackupSchedule{
		IntervalDays: 2,
		BackupTime:   "02:00",
		StartDate:    "2024-03-01",
		Folder:       "/backups",
		Kinds:        []models.BackupKind{models.BackupKindUser},
		Version:      version,
	}
}

func testSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{Location: time.UTC}
}

func TestScheduler_StartStop(t *testing.T) {
	source := &mockScheduleSource{schedule: models.DefaultBackupSchedule()}
	s := NewScheduler(source, &mockRunner{}, testSchedulerConfig(), zerolog.Nop())

	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("failed to start scheduler: %v", err)
	}
	if err := s.Start(ctx); err == nil {
		t.Error("expected error when starting an already running scheduler")
	}

	stopCtx := s.Stop()
	<-stopCtx.Done()

	again := s.Stop()
	select {
	case <-again.Done():
	default:
		t.Error("expected stopping a stopped scheduler to return a done context")
	}
}

func TestScheduler_Reload(t *testing.T) {
	source := &mockScheduleSource{schedule: models.DefaultBackupSchedule()}
	s := NewScheduler(source, &mockRunner{}, testSchedulerConfig(), zerolog.Nop())
	ctx := context.Background()

	if err := s.Reload(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.NextRun(); ok {
		t.Error("expected no next run for a disabled schedule")
	}

	source.set(enabledSchedule(1))
	if err := s.Reload(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	next, ok := s.NextRun()
	if !ok {
		t.Fatal("expected a next run")
	}
	if next.Hour() != 2 || next.Minute() != 0 {
		t.Errorf("expected 02:00, got %s", next.Format(time.RFC3339))
	}
	if !next.After(time.Now()) {
		t.Errorf("expected next run in the future, got %s", next)
	}
	if len(s.cron.Entries()) != 1 {
		t.Errorf("expected 1 cron entry, got %d", len(s.cron.Entries()))
	}

	t.Run("unchanged version keeps entry", func(t *testing.T) {
		before := s.entry
		if err := s.Reload(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.entry != before {
			t.Error("expected entry to be kept")
		}
	})

	t.Run("new version replaces entry", func(t *testing.T) {
		before := s.entry
		source.set(enabledSchedule(2))
		if err := s.Reload(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.entry == before {
			t.Error("expected entry to be replaced")
		}
		if len(s.cron.Entries()) != 1 {
			t.Errorf("expected 1 cron entry, got %d", len(s.cron.Entries()))
		}
	})

	t.Run("disabling removes entry", func(t *testing.T) {
		disabled := enabledSchedule(3)
		disabled.Folder = ""
		source.set(disabled)
		if err := s.Reload(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(s.cron.Entries()) != 0 {
			t.Errorf("expected no cron entries, got %d", len(s.cron.Entries()))
		}
	})

	t.Run("source error", func(t *testing.T) {
		source.err = errors.New("db down")
		defer func() { source.err = nil }()
		if err := s.Reload(ctx); err == nil {
			t.Error("expected error")
		}
	})
}

func TestIntervalSchedule_Next(t *testing.T) {
	sched := intervalSchedule{schedule: enabledSchedule(1), loc: time.UTC}

	tests := []struct {
		name  string
		after time.Time
		want  time.Time
	}{
		{"before start", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)},
		{"at first run", time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC), time.Date(2024, 3, 3, 2, 0, 0, 0, time.UTC)},
		{"between runs", time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC), time.Date(2024, 3, 5, 2, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sched.Next(tt.after); !got.Equal(tt.want) {
				t.Errorf("Next(%s) = %s, want %s", tt.after, got, tt.want)
			}
		})
	}

	t.Run("disabled never fires", func(t *testing.T) {
		disabled := intervalSchedule{schedule: models.DefaultBackupSchedule(), loc: time.UTC}
		if got := disabled.Next(time.Now()); !got.IsZero() {
			t.Errorf("expected zero time, got %s", got)
		}
	})
}

func TestScheduler_ExecuteBackupSkipsOverlap(t *testing.T) {
	runner := &mockRunner{release: make(chan struct{})}
	s := NewScheduler(&mockScheduleSource{schedule: enabledSchedule(1)}, runner, testSchedulerConfig(), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		s.executeBackup()
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		runner.mu.Lock()
		started := runner.calls == 1
		runner.mu.Unlock()
		if started {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first run did not start")
		case <-time.After(5 * time.Millisecond):
		}
	}

	s.executeBackup()
	close(runner.release)
	<-done

	runner.mu.Lock()
	defer runner.mu.Unlock()
	if runner.calls != 1 {
		t.Errorf("expected overlapping run to be skipped, got %d calls", runner.calls)
	}
}
