package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kunkoder/Cor1/internal/api/middleware"
	"github.com/kunkoder/Cor1/internal/backup"
	"github.com/kunkoder/Cor1/internal/db"
	"github.com/kunkoder/Cor1/internal/export"
	"github.com/kunkoder/Cor1/internal/models"
	"github.com/rs/zerolog"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// BackupService defines the backup operations exposed over HTTP.
type BackupService interface {
	GetSchedule(ctx context.Context) (*models.BackupSchedule, error)
	SaveSchedule(ctx context.Context, in models.BackupScheduleInput, expectedVersion *int) (*models.BackupSchedule, error)
	RunNow(ctx context.Context, folder string, kinds []models.BackupKind, triggeredBy *uuid.UUID) (*models.BackupRun, error)
	History(ctx context.Context, q models.BackupRunQuery) ([]*models.BackupRun, int, error)
	GetRun(ctx context.Context, id uuid.UUID) (*models.BackupRun, error)
	RunFile(ctx context.Context, id uuid.UUID) (*models.BackupRun, string, error)
	DeleteRun(ctx context.Context, id uuid.UUID) error
}

// NextRunProvider reports when the loaded backup schedule fires next.
type NextRunProvider interface {
	NextRun() (time.Time, bool)
}

// BackupScheduleRequest is the request body for saving the backup schedule.
type BackupScheduleRequest struct {
	IntervalDays int    `json:"interval_days"`
	BackupTime   string `json:"backup_time"`
	StartDate    string `json:"start_date"`
	Folder       string `json:"backup_folder"`
	// Kinds may be a JSON array of kind tags or a single comma-separated string.
	Kinds json.RawMessage `json:"backup_types,omitempty" swaggertype:"array,string"`
	// Version, when set, must match the stored version for the save to succeed.
	Version *int `json:"version,omitempty"`
}

// BackupRunRequest is the request body for an immediate backup. Kinds may be
// a JSON array of kind tags or a single comma-separated string.
type BackupRunRequest struct {
	Folder string          `json:"folder"`
	Kinds  json.RawMessage `json:"kinds,omitempty" swaggertype:"array,string"`
}

// BackupScheduleResponse is the saved schedule and its next run.
type BackupScheduleResponse struct {
	Schedule *models.BackupSchedule `json:"schedule"`
	NextRun  *time.Time             `json:"next_run,omitempty"`
}

// BackupHistoryResponse is a page of run history.
type BackupHistoryResponse struct {
	Runs  []*models.BackupRun `json:"runs"`
	Total int                 `json:"total"`
}

// BackupHandler handles backup schedule, run and history endpoints.
type BackupHandler struct {
	service   BackupService
	scheduler NextRunProvider
	logger    zerolog.Logger
}

// NewBackupHandler creates a new BackupHandler. scheduler may be nil.
func NewBackupHandler(service BackupService, scheduler NextRunProvider, logger zerolog.Logger) *BackupHandler {
	return &BackupHandler{
		service:   service,
		scheduler: scheduler,
		logger:    logger.With().Str("component", "backup_handler").Logger(),
	}
}

// RegisterRoutes registers backup routes on the given router group. All of
// them require the SUPERADMIN role.
func (h *BackupHandler) RegisterRoutes(r *gin.RouterGroup) {
	b := r.Group("/backup")
	b.Use(middleware.RequireRoles(models.RoleSuperAdmin))
	{
		b.GET("/config", h.GetConfig)
		b.PUT("/config", h.SaveConfig)
		b.POST("/run", h.Run)
		b.GET("/history", h.History)
		b.GET("/history/:id", h.GetRun)
		b.GET("/history/:id/download", h.Download)
		b.DELETE("/history/:id", h.DeleteRun)
	}
}

// GetConfig returns the backup schedule. Before anything is saved the
// defaults are returned.
// @Summary Get backup schedule
// @Tags Backup
// @Produce json
// @Success 200 {object} BackupScheduleResponse
// @Router /api/v1/backup/config [get]
func (h *BackupHandler) GetConfig(c *gin.Context) {
	schedule, err := h.service.GetSchedule(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to get backup schedule")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get backup schedule"})
		return
	}
	c.JSON(http.StatusOK, h.scheduleResponse(schedule))
}

// SaveConfig validates and overwrites the backup schedule.
// @Summary Save backup schedule
// @Tags Backup
// @Accept json
// @Produce json
// @Param request body BackupScheduleRequest true "Schedule"
// @Success 200 {object} BackupScheduleResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/backup/config [put]
func (h *BackupHandler) SaveConfig(c *gin.Context) {
	var req BackupScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tags, _, err := parseKindTags(req.Kinds)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule, err := h.service.SaveSchedule(c.Request.Context(), models.BackupScheduleInput{
		IntervalDays: req.IntervalDays,
		BackupTime:   req.BackupTime,
		StartDate:    req.StartDate,
		Folder:       req.Folder,
		Kinds:        tags,
	}, req.Version)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidSchedule):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, db.ErrScheduleConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "backup schedule was changed by someone else, reload and try again"})
		default:
			h.logger.Error().Err(err).Msg("failed to save backup schedule")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save backup schedule"})
		}
		return
	}

	c.JSON(http.StatusOK, h.scheduleResponse(schedule))
}

func (h *BackupHandler) scheduleResponse(schedule *models.BackupSchedule) BackupScheduleResponse {
	resp := BackupScheduleResponse{Schedule: schedule}
	if h.scheduler != nil {
		if next, ok := h.scheduler.NextRun(); ok {
			resp.NextRun = &next
		}
	}
	return resp
}

// parseKindTags reads a kinds field sent either as a JSON array of tags or
// as one comma-separated string. present is false for a missing or null value.
func parseKindTags(raw json.RawMessage) (tags []string, present bool, err error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, false, nil
	}
	var list string
	if err := json.Unmarshal(raw, &list); err == nil {
		if strings.TrimSpace(list) == "" {
			return []string{}, true, nil
		}
		return strings.Split(list, ","), true, nil
	}
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, false, errors.New("kinds must be an array of strings or a comma-separated string")
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, true, nil
}

// parseRunKinds returns the kinds for a manual run, or nil when the request
// leaves them to the saved schedule.
func parseRunKinds(raw json.RawMessage) ([]models.BackupKind, error) {
	tags, present, err := parseKindTags(raw)
	if err != nil || !present {
		return nil, err
	}
	return models.ParseBackupKinds(tags), nil
}

// Run exports the requested kinds immediately. A missing folder or kinds
// falls back to the saved schedule.
// @Summary Run a backup now
// @Tags Backup
// @Accept json
// @Produce json
// @Param request body BackupRunRequest true "Run request"
// @Success 201 {object} models.BackupRun
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/backup/run [post]
func (h *BackupHandler) Run(c *gin.Context) {
	user := middleware.RequireUser(c)
	if user == nil {
		return
	}

	// An empty body runs with the saved schedule's folder and kinds.
	var req BackupRunRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kinds, err := parseRunKinds(req.Kinds)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run, err := h.service.RunNow(c.Request.Context(), strings.TrimSpace(req.Folder), kinds, &user.ID)
	if err != nil {
		var ioErr *export.IOError
		switch {
		case errors.Is(err, backup.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &ioErr):
			h.logger.Error().Err(err).Str("path", ioErr.Path).Msg("backup could not be written")
			c.JSON(http.StatusInternalServerError, gin.H{"error": ioErr.Error(), "run": run})
		default:
			h.logger.Error().Err(err).Msg("backup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "backup failed", "run": run})
		}
		return
	}

	c.JSON(http.StatusCreated, run)
}

// History returns a page of backup runs, newest first by default.
// @Summary List backup runs
// @Tags Backup
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Param sort query string false "started_at, status or size_bytes"
// @Param order query string false "asc or desc"
// @Success 200 {object} BackupHistoryResponse
// @Router /api/v1/backup/history [get]
func (h *BackupHandler) History(c *gin.Context) {
	q := models.BackupRunQuery{
		Limit:  defaultHistoryLimit,
		SortBy: models.BackupRunSortStartedAt,
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		q.Limit = min(n, maxHistoryLimit)
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
		q.Offset = n
	}
	if v := c.Query("sort"); v != "" {
		field := models.BackupRunSortField(v)
		if !models.IsValidBackupRunSortField(field) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort field"})
			return
		}
		q.SortBy = field
	}
	switch strings.ToLower(c.Query("order")) {
	case "", "desc":
	case "asc":
		q.Asc = true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order"})
		return
	}

	runs, total, err := h.service.History(c.Request.Context(), q)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list backup runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list backup runs"})
		return
	}
	if runs == nil {
		runs = []*models.BackupRun{}
	}

	c.JSON(http.StatusOK, BackupHistoryResponse{Runs: runs, Total: total})
}

// GetRun returns a single backup run.
// @Summary Get a backup run
// @Tags Backup
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} models.BackupRun
// @Failure 404 {object} map[string]string
// @Router /api/v1/backup/history/{id} [get]
func (h *BackupHandler) GetRun(c *gin.Context) {
	id, ok := parseIDParam(c, "backup run")
	if !ok {
		return
	}

	run, err := h.service.GetRun(c.Request.Context(), id)
	if err != nil {
		h.runError(c, id, err, "failed to get backup run")
		return
	}
	c.JSON(http.StatusOK, run)
}

// Download serves the workbook written by a completed run.
// @Summary Download a backup workbook
// @Tags Backup
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Run ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /api/v1/backup/history/{id}/download [get]
func (h *BackupHandler) Download(c *gin.Context) {
	id, ok := parseIDParam(c, "backup run")
	if !ok {
		return
	}

	_, path, err := h.service.RunFile(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, backup.ErrFileUnavailable) {
			c.JSON(http.StatusGone, gin.H{"error": "backup file is no longer available"})
			return
		}
		h.runError(c, id, err, "failed to get backup file")
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}

// DeleteRun deletes a run and its workbook.
// @Summary Delete a backup run
// @Tags Backup
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/backup/history/{id} [delete]
func (h *BackupHandler) DeleteRun(c *gin.Context) {
	id, ok := parseIDParam(c, "backup run")
	if !ok {
		return
	}

	if err := h.service.DeleteRun(c.Request.Context(), id); err != nil {
		h.runError(c, id, err, "failed to delete backup run")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "backup run deleted"})
}

func (h *BackupHandler) runError(c *gin.Context, id uuid.UUID, err error, msg string) {
	if isNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "backup run not found"})
		return
	}
	h.logger.Error().Err(err).Str("run_id", id.String()).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
