package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kunkoder/Cor1/internal/models"
	"github.com/rs/zerolog"
)

// DashboardStore defines the data access for the overview page.
type DashboardStore interface {
	GetDashboardSummary(ctx context.Context) (*models.DashboardSummary, error)
	GetLatestBackupRun(ctx context.Context) (*models.BackupRun, error)
}

// DashboardResponse is the overview page payload.
type DashboardResponse struct {
	Summary    *models.DashboardSummary `json:"summary"`
	LastBackup *models.BackupRun        `json:"last_backup,omitempty"`
}

// DashboardHandler handles the dashboard endpoint.
type DashboardHandler struct {
	store  DashboardStore
	logger zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(store DashboardStore, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		store:  store,
		logger: logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// RegisterRoutes registers dashboard routes on the given router group.
func (h *DashboardHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.Get)
}

// Get returns headline counts and the most recent backup run.
// GET /api/v1/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	summary, err := h.store.GetDashboardSummary(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to get dashboard summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get dashboard summary"})
		return
	}

	resp := DashboardResponse{Summary: summary}
	last, err := h.store.GetLatestBackupRun(ctx)
	switch {
	case err == nil:
		resp.LastBackup = last
	case isNotFound(err):
	default:
		// The summary is still useful without the last run.
		h.logger.Warn().Err(err).Msg("failed to get latest backup run")
	}

	c.JSON(http.StatusOK, resp)
}
