package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kunkoder/Cor1/internal/models"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"
)

// diskUsedPercentLimit is the usage above which the backup disk is unhealthy.
const diskUsedPercentLimit = 95.0

// diskUsage is replaced in tests.
var diskUsage = disk.UsageWithContext

// HealthStatus represents the health status of a component.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheckResult represents the result of a health check.
type HealthCheckResult struct {
	Status   HealthStatus   `json:"status"`
	Duration string         `json:"duration,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status HealthStatus                  `json:"status"`
	Checks map[string]*HealthCheckResult `json:"checks,omitempty"`
	Error  string                        `json:"error,omitempty"`
}

// DatabaseHealthChecker defines the interface for database health checking.
type DatabaseHealthChecker interface {
	Ping(ctx context.Context) error
	Health() map[string]any
}

// ScheduleReader reads the saved backup schedule.
type ScheduleReader interface {
	GetBackupSchedule(ctx context.Context) (*models.BackupSchedule, error)
}

// HealthHandler handles health-related HTTP endpoints.
type HealthHandler struct {
	db       DatabaseHealthChecker
	schedule ScheduleReader
	logger   zerolog.Logger
}

// NewHealthHandler creates a new HealthHandler. schedule may be nil, in which
// case the backup disk is not checked.
func NewHealthHandler(db DatabaseHealthChecker, schedule ScheduleReader, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		db:       db,
		schedule: schedule,
		logger:   logger.With().Str("component", "health_handler").Logger(),
	}
}

// RegisterPublicRoutes registers health check routes that don't require authentication.
func (h *HealthHandler) RegisterPublicRoutes(r *gin.Engine) {
	health := r.Group("/health")
	{
		health.GET("", h.Overall)
		health.GET("/db", h.Database)
	}
}

// Overall returns the overall server health status.
// @Summary Server health
// @Description Checks the database and the disk holding the backup folder
// @Tags Monitoring
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Overall(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbResult := h.checkDatabase(ctx)
	diskResult := h.checkBackupDisk(ctx)
	response := &HealthResponse{
		Status: HealthStatusHealthy,
		Checks: map[string]*HealthCheckResult{
			"database":    dbResult,
			"backup_disk": diskResult,
		},
	}

	if dbResult.Status == HealthStatusUnhealthy || diskResult.Status == HealthStatusUnhealthy {
		response.Status = HealthStatusUnhealthy
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Database returns the database health status.
// @Summary Database health
// @Tags Monitoring
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health/db [get]
func (h *HealthHandler) Database(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result := h.checkDatabase(ctx)
	response := &HealthResponse{
		Status: result.Status,
		Checks: map[string]*HealthCheckResult{
			"database": result,
		},
	}

	if result.Status == HealthStatusUnhealthy {
		response.Error = result.Error
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) *HealthCheckResult {
	start := time.Now()
	result := &HealthCheckResult{Status: HealthStatusHealthy}

	if h.db == nil {
		result.Status = HealthStatusUnhealthy
		result.Error = "database not configured"
		result.Duration = time.Since(start).String()
		return result
	}

	err := h.db.Ping(ctx)
	result.Duration = time.Since(start).String()
	if err != nil {
		result.Status = HealthStatusUnhealthy
		result.Error = "database ping failed"
		h.logger.Warn().Err(err).Msg("database health check failed")
		return result
	}

	result.Details = h.db.Health()
	return result
}

// checkBackupDisk reports free space on the volume holding the backup
// folder. No folder configured is healthy.
func (h *HealthHandler) checkBackupDisk(ctx context.Context) *HealthCheckResult {
	start := time.Now()
	result := &HealthCheckResult{Status: HealthStatusHealthy}
	defer func() { result.Duration = time.Since(start).String() }()

	if h.schedule == nil {
		result.Details = map[string]any{"configured": false}
		return result
	}
	schedule, err := h.schedule.GetBackupSchedule(ctx)
	if err != nil {
		// The database check reports store failures.
		result.Details = map[string]any{"configured": false}
		return result
	}
	if schedule.Folder == "" {
		result.Details = map[string]any{"configured": false}
		return result
	}

	usage, err := diskUsage(ctx, schedule.Folder)
	if err != nil {
		result.Status = HealthStatusUnhealthy
		result.Error = "backup folder is not accessible"
		h.logger.Warn().Err(err).Str("folder", schedule.Folder).Msg("backup disk health check failed")
		return result
	}

	result.Details = map[string]any{
		"configured":   true,
		"folder":       schedule.Folder,
		"free_bytes":   usage.Free,
		"total_bytes":  usage.Total,
		"used_percent": usage.UsedPercent,
	}
	if usage.UsedPercent >= diskUsedPercentLimit {
		result.Status = HealthStatusUnhealthy
		result.Error = "backup disk is almost full"
	}
	return result
}
