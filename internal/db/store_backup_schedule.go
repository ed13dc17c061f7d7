package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kunkoder/Cor1/internal/models"
)

// ErrScheduleConflict is returned when a save was based on a stale version
// of the backup schedule.
var ErrScheduleConflict = errors.New("backup schedule was modified concurrently")

// GetBackupSchedule returns the saved backup schedule. Missing or invalid
// columns fall back to defaults, and a schedule that was never saved is
// returned as DefaultBackupSchedule.
func (db *DB) GetBackupSchedule(ctx context.Context) (*models.BackupSchedule, error) {
	var (
		interval  *int
		clock     *string
		startDate *string
		folder    *string
		kinds     []string
		version   int
		updatedAt *time.Time
	)
	err := db.Pool.QueryRow(ctx, `
		SELECT interval_days,
		       to_char(backup_time, 'HH24:MI'),
		       to_char(start_date, 'YYYY-MM-DD'),
		       backup_folder,
		       backup_types,
		       version,
		       updated_at
		FROM backup_schedule
		WHERE id = 1
	`).Scan(&interval, &clock, &startDate, &folder, &kinds, &version, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return models.DefaultBackupSchedule(), nil
		}
		return nil, fmt.Errorf("get backup schedule: %w", err)
	}

	s := models.DefaultBackupSchedule()
	if interval != nil && *interval >= 1 {
		s.IntervalDays = *interval
	}
	s.BackupTime = deref(clock)
	s.StartDate = deref(startDate)
	s.Folder = deref(folder)
	s.Kinds = models.ParseBackupKinds(kinds)
	s.Version = version
	s.UpdatedAt = updatedAt
	return s, nil
}

// SaveBackupSchedule overwrites every field of the backup schedule and bumps
// its version. When expectedVersion is set and does not match the stored
// version, or another save lands between the read and the write, nothing is
// written and ErrScheduleConflict is returned. On success
// s carries the new version and update time.
func (db *DB) SaveBackupSchedule(ctx context.Context, s *models.BackupSchedule, expectedVersion *int) error {
	now := time.Now()
	return db.ExecTx(ctx, func(tx pgx.Tx) error {
		var current int
		err := tx.QueryRow(ctx, `SELECT version FROM backup_schedule WHERE id = 1 FOR UPDATE`).Scan(&current)
		if err != nil && !isNoRows(err) {
			return fmt.Errorf("lock backup schedule: %w", err)
		}
		if expectedVersion != nil && *expectedVersion != current {
			return fmt.Errorf("%w: expected version %d, found %d", ErrScheduleConflict, *expectedVersion, current)
		}

		next := current + 1
		tag, err := tx.Exec(ctx, `
			INSERT INTO backup_schedule (
				id, interval_days, backup_time, start_date,
				backup_folder, backup_types, version, updated_at
			) VALUES (
				1, $1, NULLIF($2::text, '')::time, NULLIF($3::text, '')::date,
				$4, $5, $6, $7
			)
			ON CONFLICT (id) DO UPDATE SET
				interval_days = EXCLUDED.interval_days,
				backup_time = EXCLUDED.backup_time,
				start_date = EXCLUDED.start_date,
				backup_folder = EXCLUDED.backup_folder,
				backup_types = EXCLUDED.backup_types,
				version = EXCLUDED.version,
				updated_at = EXCLUDED.updated_at
			WHERE backup_schedule.version = $8
		`,
			s.IntervalDays, s.BackupTime, s.StartDate,
			s.Folder, models.BackupKindStrings(s.Kinds), next, now, current,
		)
		if err != nil {
			return fmt.Errorf("save backup schedule: %w", err)
		}
		// No row was touched: another save created the row after it was read.
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: version changed during save", ErrScheduleConflict)
		}

		s.Version = next
		s.UpdatedAt = &now
		return nil
	})
}
