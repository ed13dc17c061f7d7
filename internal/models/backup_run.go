package models

import (
	"time"

	"github.com/google/uuid"
)

// BackupRunStatus represents the status of a backup export run.
type BackupRunStatus string

const (
	// BackupRunStatusRunning indicates the export is in progress.
	BackupRunStatusRunning BackupRunStatus = "running"
	// BackupRunStatusCompleted indicates the workbook was written.
	BackupRunStatusCompleted BackupRunStatus = "completed"
	// BackupRunStatusFailed indicates the export could not be written.
	BackupRunStatusFailed BackupRunStatus = "failed"
)

// BackupTrigger records what started a run.
type BackupTrigger string

const (
	BackupTriggerManual    BackupTrigger = "manual"
	BackupTriggerScheduled BackupTrigger = "scheduled"
)

// BackupRun is the history record of one export to a backup workbook.
type BackupRun struct {
	ID           uuid.UUID       `json:"id"`
	Trigger      BackupTrigger   `json:"trigger"`
	Status       BackupRunStatus `json:"status"`
	Folder       string          `json:"folder"`
	Kinds        []BackupKind    `json:"kinds"`
	FilePath     string          `json:"file_path,omitempty"`
	SheetCount   int             `json:"sheet_count"`
	RowCount     int             `json:"row_count"`
	SizeBytes    *int64          `json:"size_bytes,omitempty"`
	RemoteURI    string          `json:"remote_uri,omitempty"`
	Warnings     []string        `json:"warnings,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	TriggeredBy  *uuid.UUID      `json:"triggered_by,omitempty"`
	StartedAt    time.Time       `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	Duration     *int64          `json:"duration_ms,omitempty"`
}

// NewBackupRun creates a running record for an export of kinds into folder.
func NewBackupRun(trigger BackupTrigger, folder string, kinds []BackupKind, triggeredBy *uuid.UUID) *BackupRun {
	return &BackupRun{
		ID:          uuid.New(),
		Trigger:     trigger,
		Status:      BackupRunStatusRunning,
		Folder:      folder,
		Kinds:       kinds,
		TriggeredBy: triggeredBy,
		StartedAt:   time.Now(),
	}
}

// Complete marks the run as completed successfully.
func (r *BackupRun) Complete(filePath string, sheets, rows int, sizeBytes int64) {
	now := time.Now()
	r.Status = BackupRunStatusCompleted
	r.FilePath = filePath
	r.SheetCount = sheets
	r.RowCount = rows
	r.SizeBytes = &sizeBytes
	r.CompletedAt = &now
	durationMs := now.Sub(r.StartedAt).Milliseconds()
	r.Duration = &durationMs
}

// Fail marks the run as failed.
func (r *BackupRun) Fail(errorMessage string) {
	now := time.Now()
	r.Status = BackupRunStatusFailed
	r.ErrorMessage = errorMessage
	r.CompletedAt = &now
	durationMs := now.Sub(r.StartedAt).Milliseconds()
	r.Duration = &durationMs
}

// AddWarning appends a non-fatal problem encountered during the run.
func (r *BackupRun) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// IsSuccessful returns true if the run completed successfully.
func (r *BackupRun) IsSuccessful() bool {
	return r.Status == BackupRunStatusCompleted
}

// BackupRunSortField is a column the run history can be ordered by.
type BackupRunSortField string

const (
	BackupRunSortStartedAt BackupRunSortField = "started_at"
	BackupRunSortStatus    BackupRunSortField = "status"
	BackupRunSortSize      BackupRunSortField = "size_bytes"
)

// IsValidBackupRunSortField reports whether f can be used to order run history.
func IsValidBackupRunSortField(f BackupRunSortField) bool {
	switch f {
	case BackupRunSortStartedAt, BackupRunSortStatus, BackupRunSortSize:
		return true
	}
	return false
}

// BackupRunQuery selects a page of run history.
type BackupRunQuery struct {
	Limit  int
	Offset int
	SortBy BackupRunSortField
	Asc    bool
}
