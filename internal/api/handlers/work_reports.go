package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kunkoder/Cor1/internal/api/middleware"
	"github.com/kunkoder/Cor1/internal/models"
	"github.com/rs/zerolog"
)

// WorkReportStore defines the interface for work report persistence operations.
type WorkReportStore interface {
	CodeChecker
	ListWorkReports(ctx context.Context) ([]*models.WorkReport, error)
	GetWorkReportByID(ctx context.Context, id uuid.UUID) (*models.WorkReport, error)
	CreateWorkReport(ctx context.Context, w *models.WorkReport) error
	UpdateWorkReport(ctx context.Context, w *models.WorkReport) error
	DeleteWorkReport(ctx context.Context, id uuid.UUID) error
}

// WorkReportsHandler handles work report endpoints.
type WorkReportsHandler struct {
	store  WorkReportStore
	logger zerolog.Logger
}

// NewWorkReportsHandler creates a new WorkReportsHandler.
func NewWorkReportsHandler(store WorkReportStore, logger zerolog.Logger) *WorkReportsHandler {
	return &WorkReportsHandler{
		store:  store,
		logger: logger.With().Str("component", "work_reports_handler").Logger(),
	}
}

// RegisterRoutes registers work report routes on the given router group.
func (h *WorkReportsHandler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/work-reports")
	{
		reports.GET("", h.List)
		reports.GET("/:id", h.Get)

		writers := reports.Group("", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleEngineer))
		writers.POST("", h.Create)
		writers.PUT("/:id", h.Update)
		writers.DELETE("/:id", h.Delete)
	}
}

// List returns all work reports with their technicians.
// GET /api/v1/work-reports
func (h *WorkReportsHandler) List(c *gin.Context) {
	reports, err := h.store.ListWorkReports(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list work reports")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list work reports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"work_reports": reports})
}

// Get returns a work report by ID.
// GET /api/v1/work-reports/:id
func (h *WorkReportsHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "work report")
	if !ok {
		return
	}

	report, err := h.store.GetWorkReportByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, h.logger, err, "work report", "failed to get work report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// Create files a work report.
// POST /api/v1/work-reports
func (h *WorkReportsHandler) Create(c *gin.Context) {
	user := middleware.RequireUser(c)
	if user == nil {
		return
	}

	var req models.WorkReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := models.NewWorkReport("")
	if err := req.Apply(report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if rejectDuplicateCode(c, h.store, "work_reports", report.Code, nil, h.logger) {
		return
	}

	if err := h.store.CreateWorkReport(c.Request.Context(), report); err != nil {
		writeStoreError(c, h.logger, err, "work report", "failed to create work report")
		return
	}

	h.logger.Info().
		Str("work_report_id", report.ID.String()).
		Str("code", report.Code).
		Str("user_id", user.ID.String()).
		Msg("work report created")
	c.JSON(http.StatusCreated, report)
}

// Update overwrites a work report, including its technician list.
// PUT /api/v1/work-reports/:id
func (h *WorkReportsHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "work report")
	if !ok {
		return
	}

	var req models.WorkReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.store.GetWorkReportByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, h.logger, err, "work report", "failed to get work report")
		return
	}
	if err := req.Apply(report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if rejectDuplicateCode(c, h.store, "work_reports", report.Code, &id, h.logger) {
		return
	}

	if err := h.store.UpdateWorkReport(c.Request.Context(), report); err != nil {
		writeStoreError(c, h.logger, err, "work report", "failed to update work report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// Delete removes a work report.
// DELETE /api/v1/work-reports/:id
func (h *WorkReportsHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "work report")
	if !ok {
		return
	}

	if err := h.store.DeleteWorkReport(c.Request.Context(), id); err != nil {
		writeStoreError(c, h.logger, err, "work report", "failed to delete work report")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "work report deleted"})
}
