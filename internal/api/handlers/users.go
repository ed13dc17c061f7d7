package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kunkoder/Cor1/internal/api/middleware"
	"github.com/kunkoder/Cor1/internal/auth"
	"github.com/kunkoder/Cor1/internal/models"
	"github.com/rs/zerolog"
)

// UserStore defines the interface for user persistence operations.
type UserStore interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	EmployeeIDExists(ctx context.Context, employeeID string, excludeID *uuid.UUID) (bool, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UsersHandler handles user management endpoints.
type UsersHandler struct {
	store  UserStore
	logger zerolog.Logger
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(store UserStore, logger zerolog.Logger) *UsersHandler {
	return &UsersHandler{
		store:  store,
		logger: logger.With().Str("component", "users_handler").Logger(),
	}
}

// RegisterRoutes registers user routes on the given router group. Reads are
// open to any signed-in user; writes need SUPERADMIN or ADMIN.
func (h *UsersHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("", h.List)
		users.GET("/:id", h.Get)

		admin := users.Group("", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin))
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}

// List returns all users.
// GET /api/v1/users
func (h *UsersHandler) List(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Get returns a user by ID.
// GET /api/v1/users/:id
func (h *UsersHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "user")
	if !ok {
		return
	}

	user, err := h.store.GetUserByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, h.logger, err, "user", "failed to get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Create creates a user. A password is required.
// POST /api/v1/users
func (h *UsersHandler) Create(c *gin.Context) {
	var req models.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := models.NewUser("", "", "")
	if err := req.Apply(user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.rejectDuplicateEmployeeID(c, user.EmployeeID, nil) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}
	user.PasswordHash = hash

	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		writeStoreError(c, h.logger, err, "user", "failed to create user")
		return
	}

	h.logger.Info().Str("user_id", user.ID.String()).Str("employee_id", user.EmployeeID).Msg("user created")
	c.JSON(http.StatusCreated, user)
}

// Update overwrites a user. An empty password keeps the current one.
// PUT /api/v1/users/:id
func (h *UsersHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "user")
	if !ok {
		return
	}

	var req models.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.GetUserByID(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, h.logger, err, "user", "failed to get user")
		return
	}
	if err := req.Apply(user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.rejectDuplicateEmployeeID(c, user.EmployeeID, &id) {
		return
	}

	if req.Password != "" {
		if err := auth.ValidatePassword(req.Password); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to hash password")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
			return
		}
		user.PasswordHash = hash
	}

	if err := h.store.UpdateUser(c.Request.Context(), user); err != nil {
		writeStoreError(c, h.logger, err, "user", "failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete removes a user. Users cannot delete themselves.
// DELETE /api/v1/users/:id
func (h *UsersHandler) Delete(c *gin.Context) {
	current := middleware.RequireUser(c)
	if current == nil {
		return
	}
	id, ok := parseIDParam(c, "user")
	if !ok {
		return
	}
	if id == current.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}

	if err := h.store.DeleteUser(c.Request.Context(), id); err != nil {
		writeStoreError(c, h.logger, err, "user", "failed to delete user")
		return
	}

	h.logger.Info().Str("user_id", id.String()).Str("deleted_by", current.ID.String()).Msg("user deleted")
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (h *UsersHandler) rejectDuplicateEmployeeID(c *gin.Context, employeeID string, excludeID *uuid.UUID) bool {
	exists, err := h.store.EmployeeIDExists(c.Request.Context(), employeeID, excludeID)
	if err != nil {
		h.logger.Error().Err(err).Str("employee_id", employeeID).Msg("failed to check employee ID")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check employee ID"})
		return true
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "employee ID already exists"})
		return true
	}
	return false
}
