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

// ComplaintStore defines the interface for complaint persistence operations.
type ComplaintStore interface {
	CodeChecker
	ListComplaints(ctx context.Context) ([]*models.Complaint, error)
	GetComplaintByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	CreateComplaint(ctx context.Context, c *models.Complaint) error
	UpdateComplaint(ctx context.Context, c *models.Complaint) error
	DeleteComplaint(ctx context.Context, id uuid.UUID) error
}

// ComplaintsHandler handles complaint endpoints.
type ComplaintsHandler struct {
	store  ComplaintStore
	logger zerolog.Logger
}

// NewComplaintsHandler creates a new ComplaintsHandler.
func NewComplaintsHandler(store ComplaintStore, logger zerolog.Logger) *ComplaintsHandler {
	return &ComplaintsHandler{
		store:  store,
		logger: logger.With().Str("component", "complaints_handler").Logger(),
	}
}

// RegisterRoutes registers complaint routes on the given router group.
// Engineers may write complaints as well as admins.
func (h *ComplaintsHandler) RegisterRoutes(r *gin.RouterGroup) {
	complaints := r.Group("/complaints")
	{
		complaints.GET("", h.List)
		complaints.GET("/:id", h.Get)

		writers := complaints.Group("", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleEngineer))
		writers.POST("", h.Create)
		writers.PUT("/:id", h.Update)
		writers.DELETE("/:id", h.Delete)
	}
}

// List returns all complaints.
// GET /api/v1/complaints
func (h *ComplaintsHandler) List(c *gin.Context) {
	complaints, err := h.store.ListComplaints(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list complaints")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list complaints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

// Get returns a complaint by ID.
// GET /api/v1/complaints/:id
func (h *ComplaintsHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "complaint")
	if !ok {
		return
	}

	complaint, err := h.store.GetComplaintByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, h.logger, err, "complaint", "failed to get complaint")
		return
	}
	c.JSON(http.StatusOK, complaint)
}

// Create files a complaint. The reporter defaults to the signed-in user.
// POST /api/v1/complaints
func (h *ComplaintsHandler) Create(c *gin.Context) {
	user := middleware.RequireUser(c)
	if user == nil {
		return
	}

	var req models.ComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ReporterID == nil {
		req.ReporterID = &user.ID
	}

	complaint := models.NewComplaint("", "")
	if err := req.Apply(complaint); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if rejectDuplicateCode(c, h.store, "complaints", complaint.Code, nil, h.logger) {
		return
	}

	if err := h.store.CreateComplaint(c.Request.Context(), complaint); err != nil {
		writeStoreError(c, h.logger, err, "complaint", "failed to create complaint")
		return
	}

	h.logger.Info().
		Str("complaint_id", complaint.ID.String()).
		Str("code", complaint.Code).
		Str("user_id", user.ID.String()).
		Msg("complaint created")
	c.JSON(http.StatusCreated, complaint)
}

// Update overwrites a complaint.
// PUT /api/v1/complaints/:id
func (h *ComplaintsHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "complaint")
	if !ok {
		return
	}

	var req models.ComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := h.store.GetComplaintByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, h.logger, err, "complaint", "failed to get complaint")
		return
	}
	if err := req.Apply(complaint); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if rejectDuplicateCode(c, h.store, "complaints", complaint.Code, &id, h.logger) {
		return
	}

	if err := h.store.UpdateComplaint(c.Request.Context(), complaint); err != nil {
		writeStoreError(c, h.logger, err, "complaint", "failed to update complaint")
		return
	}
	c.JSON(http.StatusOK, complaint)
}

// Delete removes a complaint.
// DELETE /api/v1/complaints/:id
func (h *ComplaintsHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "complaint")
	if !ok {
		return
	}

	if err := h.store.DeleteComplaint(c.Request.Context(), id); err != nil {
		writeStoreError(c, h.logger, err, "complaint", "failed to delete complaint")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "complaint deleted"})
}
