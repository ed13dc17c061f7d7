package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kunkoder/Cor1/internal/models"
)

const backupRunColumns = `
	id, trigger, status, folder, kinds, file_path, sheet_count, row_count,
	size_bytes, remote_uri, warnings, error_message, triggered_by,
	started_at, completed_at, duration_ms`

func scanBackupRun(row pgx.Row) (*models.BackupRun, error) {
	var r models.BackupRun
	var kinds []string
	err := row.Scan(
		&r.ID, &r.Trigger, &r.Status, &r.Folder, &kinds, &r.FilePath, &r.SheetCount, &r.RowCount,
		&r.SizeBytes, &r.RemoteURI, &r.Warnings, &r.ErrorMessage, &r.TriggeredBy,
		&r.StartedAt, &r.CompletedAt, &r.Duration,
	)
	if err != nil {
		return nil, err
	}
	r.Kinds = models.ParseBackupKinds(kinds)
	return &r, nil
}

func warningsOrEmpty(w []string) []string {
	if w == nil {
		return []string{}
	}
	return w
}

// CreateBackupRun creates a new backup run record.
func (db *DB) CreateBackupRun(ctx context.Context, r *models.BackupRun) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO backup_runs (`+backupRunColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		r.ID, r.Trigger, r.Status, r.Folder, models.BackupKindStrings(r.Kinds), r.FilePath, r.SheetCount, r.RowCount,
		r.SizeBytes, r.RemoteURI, warningsOrEmpty(r.Warnings), r.ErrorMessage, r.TriggeredBy,
		r.StartedAt, r.CompletedAt, r.Duration,
	)
	if err != nil {
		return fmt.Errorf("create backup run: %w", err)
	}
	return nil
}

// UpdateBackupRun updates the outcome fields of a backup run.
func (db *DB) UpdateBackupRun(ctx context.Context, r *models.BackupRun) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE backup_runs SET
			status = $2,
			file_path = $3,
			sheet_count = $4,
			row_count = $5,
			size_bytes = $6,
			remote_uri = $7,
			warnings = $8,
			error_message = $9,
			completed_at = $10,
			duration_ms = $11
		WHERE id = $1
	`,
		r.ID, r.Status, r.FilePath, r.SheetCount, r.RowCount, r.SizeBytes,
		r.RemoteURI, warningsOrEmpty(r.Warnings), r.ErrorMessage, r.CompletedAt, r.Duration,
	)
	if err != nil {
		return fmt.Errorf("update backup run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("backup run", r.ID)
	}
	return nil
}

// GetBackupRunByID returns a backup run by ID.
func (db *DB) GetBackupRunByID(ctx context.Context, id uuid.UUID) (*models.BackupRun, error) {
	r, err := scanBackupRun(db.Pool.QueryRow(ctx, `SELECT `+backupRunColumns+` FROM backup_runs WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("backup run", id)
		}
		return nil, fmt.Errorf("get backup run: %w", err)
	}
	return r, nil
}

// ListBackupRuns returns a page of backup runs and the total count. A zero
// limit returns every run.
func (db *DB) ListBackupRuns(ctx context.Context, q models.BackupRunQuery) ([]*models.BackupRun, int, error) {
	var total int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM backup_runs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count backup runs: %w", err)
	}

	sortBy := q.SortBy
	if !models.IsValidBackupRunSortField(sortBy) {
		sortBy = models.BackupRunSortStartedAt
	}
	dir := "DESC"
	if q.Asc {
		dir = "ASC"
	}
	query := `SELECT ` + backupRunColumns + ` FROM backup_runs
		ORDER BY ` + string(sortBy) + ` ` + dir + ` NULLS LAST, started_at DESC`

	var rows pgx.Rows
	var err error
	if q.Limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		rows, err = db.Pool.Query(ctx, query, q.Limit, q.Offset)
	} else {
		rows, err = db.Pool.Query(ctx, query)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("list backup runs: %w", err)
	}
	defer rows.Close()

	runs := []*models.BackupRun{}
	for rows.Next() {
		r, err := scanBackupRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan backup run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate backup runs: %w", err)
	}
	return runs, total, nil
}

// GetLatestBackupRun returns the most recently started run.
func (db *DB) GetLatestBackupRun(ctx context.Context) (*models.BackupRun, error) {
	r, err := scanBackupRun(db.Pool.QueryRow(ctx,
		`SELECT `+backupRunColumns+` FROM backup_runs ORDER BY started_at DESC LIMIT 1`))
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("backup run", "latest")
		}
		return nil, fmt.Errorf("get latest backup run: %w", err)
	}
	return r, nil
}

// DeleteBackupRun deletes a backup run record.
func (db *DB) DeleteBackupRun(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM backup_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete backup run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("backup run", id)
	}
	return nil
}
