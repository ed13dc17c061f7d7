package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kunkoder/Cor1/internal/api/middleware"
	"github.com/kunkoder/Cor1/internal/models"
	"github.com/rs/zerolog"
)

// maxStatsIDs bounds the number of ids accepted by the stats endpoint.
const maxStatsIDs = 200

// EquipmentStore defines the interface for equipment persistence operations.
type EquipmentStore interface {
	CodeChecker
	ListEquipment(ctx context.Context) ([]*models.Equipment, error)
	GetEquipmentByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error)
	CreateEquipment(ctx context.Context, e *models.Equipment) error
	UpdateEquipment(ctx context.Context, e *models.Equipment) error
	DeleteEquipment(ctx context.Context, id uuid.UUID) error
	GetEquipmentStats(ctx context.Context, ids []uuid.UUID) ([]*models.EquipmentStats, error)
}

// EquipmentHandler handles equipment endpoints.
type EquipmentHandler struct {
	store  EquipmentStore
	logger zerolog.Logger
}

// NewEquipmentHandler creates a new EquipmentHandler.
func NewEquipmentHandler(store EquipmentStore, logger zerolog.Logger) *EquipmentHandler {
	return &EquipmentHandler{
		store:  store,
		logger: logger.With().Str("component", "equipment_handler").Logger(),
	}
}

// RegisterRoutes registers equipment routes on the given router group.
func (h *EquipmentHandler) RegisterRoutes(r *gin.RouterGroup) {
	equipment := r.Group("/equipment")
	{
		equipment.GET("", h.List)
		equipment.GET("/stats", h.Stats)
		equipment.GET("/:id", h.Get)

		admin := equipment.Group("", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin))
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}

// List returns all equipment.
// GET /api/v1/equipment
func (h *EquipmentHandler) List(c *gin.Context) {
	equipment, err := h.store.ListEquipment(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list equipment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list equipment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipment": equipment})
}

// Get returns equipment by ID.
// GET /api/v1/equipment/:id
func (h *EquipmentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "equipment")
	if !ok {
		return
	}

	equipment, err := h.store.GetEquipmentByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, h.logger, err, "equipment", "failed to get equipment")
		return
	}
	c.JSON(http.StatusOK, equipment)
}

// Create creates equipment.
// POST /api/v1/equipment
func (h *EquipmentHandler) Create(c *gin.Context) {
	var req models.EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	equipment := models.NewEquipment("", "")
	if err := req.Apply(equipment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if rejectDuplicateCode(c, h.store, "equipment", equipment.Code, nil, h.logger) {
		return
	}

	if err := h.store.CreateEquipment(c.Request.Context(), equipment); err != nil {
		writeStoreError(c, h.logger, err, "equipment", "failed to create equipment")
		return
	}
	c.JSON(http.StatusCreated, equipment)
}

// Update overwrites equipment.
// PUT /api/v1/equipment/:id
func (h *EquipmentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "equipment")
	if !ok {
		return
	}

	var req models.EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	equipment, err := h.store.GetEquipmentByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, h.logger, err, "equipment", "failed to get equipment")
		return
	}
	if err := req.Apply(equipment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if rejectDuplicateCode(c, h.store, "equipment", equipment.Code, &id, h.logger) {
		return
	}

	if err := h.store.UpdateEquipment(c.Request.Context(), equipment); err != nil {
		writeStoreError(c, h.logger, err, "equipment", "failed to update equipment")
		return
	}
	c.JSON(http.StatusOK, equipment)
}

// Delete removes equipment.
// DELETE /api/v1/equipment/:id
func (h *EquipmentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "equipment")
	if !ok {
		return
	}

	if err := h.store.DeleteEquipment(c.Request.Context(), id); err != nil {
		writeStoreError(c, h.logger, err, "equipment", "failed to delete equipment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "equipment deleted"})
}

// parseIDList parses a comma-separated list of UUIDs, ignoring blanks.
func parseIDList(s string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Stats returns open and pending work counts for the given equipment.
// GET /api/v1/equipment/stats?ids=<uuid>,<uuid>
func (h *EquipmentHandler) Stats(c *gin.Context) {
	ids, err := parseIDList(c.Query("ids"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid equipment ID in ids"})
		return
	}
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids is required"})
		return
	}
	if len(ids) > maxStatsIDs {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many ids"})
		return
	}

	stats, err := h.store.GetEquipmentStats(c.Request.Context(), ids)
	if err != nil {
		h.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to get equipment stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get equipment stats"})
		return
	}
	if stats == nil {
		stats = []*models.EquipmentStats{}
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
