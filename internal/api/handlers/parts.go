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

// PartStore defines the interface for spare part persistence operations.
type PartStore interface {
	CodeChecker
	ListParts(ctx context.Context) ([]*models.Part, error)
	GetPartByID(ctx context.Context, id uuid.UUID) (*models.Part, error)
	CreatePart(ctx context.Context, p *models.Part) error
	UpdatePart(ctx context.Context, p *models.Part) error
	DeletePart(ctx context.Context, id uuid.UUID) error
}

// PartsHandler handles spare part endpoints.
type PartsHandler struct {
	store  PartStore
	logger zerolog.Logger
}

// NewPartsHandler creates a new PartsHandler.
func NewPartsHandler(store PartStore, logger zerolog.Logger) *PartsHandler {
	return &PartsHandler{
		store:  store,
		logger: logger.With().Str("component", "parts_handler").Logger(),
	}
}

// RegisterRoutes registers part routes on the given router group.
func (h *PartsHandler) RegisterRoutes(r *gin.RouterGroup) {
	parts := r.Group("/parts")
	{
		parts.GET("", h.List)
		parts.GET("/:id", h.Get)

		admin := parts.Group("", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin))
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}

// List returns all parts.
// GET /api/v1/parts
func (h *PartsHandler) List(c *gin.Context) {
	parts, err := h.store.ListParts(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list parts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list parts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"parts": parts})
}

// Get returns a part by ID.
// GET /api/v1/parts/:id
func (h *PartsHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "part")
	if !ok {
		return
	}

	part, err := h.store.GetPartByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, h.logger, err, "part", "failed to get part")
		return
	}
	c.JSON(http.StatusOK, part)
}

// Create creates a part.
// POST /api/v1/parts
func (h *PartsHandler) Create(c *gin.Context) {
	var req models.PartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	part := models.NewPart("", "")
	req.Apply(part)
	if rejectDuplicateCode(c, h.store, "parts", part.Code, nil, h.logger) {
		return
	}

	if err := h.store.CreatePart(c.Request.Context(), part); err != nil {
		writeStoreError(c, h.logger, err, "part", "failed to create part")
		return
	}
	c.JSON(http.StatusCreated, part)
}

// Update overwrites a part.
// PUT /api/v1/parts/:id
func (h *PartsHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "part")
	if !ok {
		return
	}

	var req models.PartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	part, err := h.store.GetPartByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, h.logger, err, "part", "failed to get part")
		return
	}
	req.Apply(part)
	if rejectDuplicateCode(c, h.store, "parts", part.Code, &id, h.logger) {
		return
	}

	if err := h.store.UpdatePart(c.Request.Context(), part); err != nil {
		writeStoreError(c, h.logger, err, "part", "failed to update part")
		return
	}
	c.JSON(http.StatusOK, part)
}

// Delete removes a part.
// DELETE /api/v1/parts/:id
func (h *PartsHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "part")
	if !ok {
		return
	}

	if err := h.store.DeletePart(c.Request.Context(), id); err != nil {
		writeStoreError(c, h.logger, err, "part", "failed to delete part")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "part deleted"})
}
