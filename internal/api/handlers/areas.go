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

// AreaStore defines the interface for area persistence operations.
type AreaStore interface {
	CodeChecker
	ListAreas(ctx context.Context) ([]*models.Area, error)
	GetAreaByID(ctx context.Context, id uuid.UUID) (*models.Area, error)
	CreateArea(ctx context.Context, a *models.Area) error
	UpdateArea(ctx context.Context, a *models.Area) error
	DeleteArea(ctx context.Context, id uuid.UUID) error
}

// AreasHandler handles area endpoints.
type AreasHandler struct {
	store  AreaStore
	logger zerolog.Logger
}

// NewAreasHandler creates a new AreasHandler.
func NewAreasHandler(store AreaStore, logger zerolog.Logger) *AreasHandler {
	return &AreasHandler{
		store:  store,
		logger: logger.With().Str("component", "areas_handler").Logger(),
	}
}

// RegisterRoutes registers area routes on the given router group.
func (h *AreasHandler) RegisterRoutes(r *gin.RouterGroup) {
	areas := r.Group("/areas")
	{
		areas.GET("", h.List)
		areas.GET("/:id", h.Get)

		admin := areas.Group("", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin))
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}

// List returns all areas.
// GET /api/v1/areas
func (h *AreasHandler) List(c *gin.Context) {
	areas, err := h.store.ListAreas(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list areas")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list areas"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"areas": areas})
}

// Get returns an area by ID.
// GET /api/v1/areas/:id
func (h *AreasHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "area")
	if !ok {
		return
	}

	area, err := h.store.GetAreaByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, h.logger, err, "area", "failed to get area")
		return
	}
	c.JSON(http.StatusOK, area)
}

// Create creates an area.
// POST /api/v1/areas
func (h *AreasHandler) Create(c *gin.Context) {
	var req models.AreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	area := models.NewArea("", "")
	req.Apply(area)
	if rejectDuplicateCode(c, h.store, "areas", area.Code, nil, h.logger) {
		return
	}

	if err := h.store.CreateArea(c.Request.Context(), area); err != nil {
		writeStoreError(c, h.logger, err, "area", "failed to create area")
		return
	}
	c.JSON(http.StatusCreated, area)
}

// Update overwrites an area.
// PUT /api/v1/areas/:id
func (h *AreasHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "area")
	if !ok {
		return
	}

	var req models.AreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	area, err := h.store.GetAreaByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, h.logger, err, "area", "failed to get area")
		return
	}
	req.Apply(area)
	if rejectDuplicateCode(c, h.store, "areas", area.Code, &id, h.logger) {
		return
	}

	if err := h.store.UpdateArea(c.Request.Context(), area); err != nil {
		writeStoreError(c, h.logger, err, "area", "failed to update area")
		return
	}
	c.JSON(http.StatusOK, area)
}

// Delete removes an area.
// DELETE /api/v1/areas/:id
func (h *AreasHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "area")
	if !ok {
		return
	}

	if err := h.store.DeleteArea(c.Request.Context(), id); err != nil {
		writeStoreError(c, h.logger, err, "area", "failed to delete area")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "area deleted"})
}
