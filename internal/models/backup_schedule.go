package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidSchedule is returned when backup schedule input cannot be parsed or violates an invariant.
var ErrInvalidSchedule = errors.New("invalid backup schedule")

const (
	// DefaultBackupIntervalDays is used when no schedule has been saved yet.
	DefaultBackupIntervalDays = 7

	// BackupTimeLayout is the canonical time-of-day format.
	BackupTimeLayout = "15:04"
	// BackupDateLayout is the canonical start date format.
	BackupDateLayout = "2006-01-02"
)

// BackupSchedule is the single, system-wide backup configuration.
// Saves overwrite every field and bump Version.
type BackupSchedule struct {
	IntervalDays int          `json:"interval_days"`
	BackupTime   string       `json:"backup_time"`
	StartDate    string       `json:"start_date"`
	Folder       string       `json:"backup_folder"`
	Kinds        []BackupKind `json:"backup_types"`
	Version      int          `json:"version"`
	UpdatedAt    *time.Time   `json:"updated_at,omitempty"`
}

// DefaultBackupSchedule returns the schedule reported before anything has been saved.
func DefaultBackupSchedule() *BackupSchedule {
	return &BackupSchedule{
		IntervalDays: DefaultBackupIntervalDays,
		Kinds:        []BackupKind{},
	}
}

// BackupScheduleInput is unvalidated schedule data as submitted by a user.
type BackupScheduleInput struct {
	IntervalDays int
	BackupTime   string
	StartDate    string
	Folder       string
	Kinds        []string
}

// ParseBackupScheduleInput validates input and normalizes it into a BackupSchedule.
func ParseBackupScheduleInput(in BackupScheduleInput) (*BackupSchedule, error) {
	if in.IntervalDays < 1 {
		return nil, fmt.Errorf("%w: interval must be at least 1 day", ErrInvalidSchedule)
	}

	clock, err := parseClock(strings.TrimSpace(in.BackupTime))
	if err != nil {
		return nil, fmt.Errorf("%w: backup time %q: expected HH:MM", ErrInvalidSchedule, in.BackupTime)
	}

	start, err := time.Parse(BackupDateLayout, strings.TrimSpace(in.StartDate))
	if err != nil {
		return nil, fmt.Errorf("%w: start date %q: expected YYYY-MM-DD", ErrInvalidSchedule, in.StartDate)
	}

	folder := strings.TrimSpace(in.Folder)
	if err := ValidateFolderPath(folder); err != nil {
		return nil, err
	}

	return &BackupSchedule{
		IntervalDays: in.IntervalDays,
		BackupTime:   clock.Format(BackupTimeLayout),
		StartDate:    start.Format(BackupDateLayout),
		Folder:       folder,
		Kinds:        ParseBackupKinds(in.Kinds),
	}, nil
}

// ValidateFolderPath checks that a destination folder is syntactically usable.
// The folder does not have to exist.
func ValidateFolderPath(folder string) error {
	if folder == "" {
		return fmt.Errorf("%w: backup folder is required", ErrInvalidSchedule)
	}
	if strings.ContainsRune(folder, 0) {
		return fmt.Errorf("%w: backup folder contains a NUL byte", ErrInvalidSchedule)
	}
	return nil
}

func parseClock(s string) (time.Time, error) {
	if t, err := time.Parse(BackupTimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse("15:04:05", s)
}

// Enabled reports whether the schedule has everything needed to run unattended.
func (s *BackupSchedule) Enabled() bool {
	return s.IntervalDays >= 1 && s.BackupTime != "" && s.StartDate != "" &&
		s.Folder != "" && len(s.Kinds) > 0
}

// FirstRun returns the first scheduled run time in loc.
func (s *BackupSchedule) FirstRun(loc *time.Location) (time.Time, error) {
	clock, err := parseClock(s.BackupTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: backup time %q", ErrInvalidSchedule, s.BackupTime)
	}
	date, err := time.Parse(BackupDateLayout, s.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: start date %q", ErrInvalidSchedule, s.StartDate)
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, loc), nil
}

// NextRun returns the first scheduled run strictly after the given time.
// Runs happen at the configured time of day every IntervalDays calendar days,
// starting on StartDate. The second result is false for a disabled schedule.
func (s *BackupSchedule) NextRun(after time.Time, loc *time.Location) (time.Time, bool) {
	if !s.Enabled() {
		return time.Time{}, false
	}
	first, err := s.FirstRun(loc)
	if err != nil {
		return time.Time{}, false
	}

	after = after.In(loc)
	if first.After(after) {
		return first, true
	}

	elapsed := calendarDays(first, after)
	periods := elapsed / s.IntervalDays
	next := first.AddDate(0, 0, periods*s.IntervalDays)
	for !next.After(after) {
		next = next.AddDate(0, 0, s.IntervalDays)
	}
	return next, true
}

// calendarDays counts whole calendar days from a to b, ignoring time of day and DST shifts.
func calendarDays(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 12, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 12, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
