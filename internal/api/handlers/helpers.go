package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kunkoder/Cor1/internal/db"
	"github.com/kunkoder/Cor1/internal/models"
	"github.com/rs/zerolog"
)

// Postgres error codes surfaced to clients.
const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

// parseIDParam parses the :id path parameter, writing a 400 response when it
// is not a UUID.
func parseIDParam(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + what + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

func isNotFound(err error) bool {
	return errors.Is(err, db.ErrNotFound)
}

// CodeChecker reports whether a code is already used in a table.
type CodeChecker interface {
	CodeExists(ctx context.Context, table, code string, excludeID *uuid.UUID) (bool, error)
}

// rejectDuplicateCode writes a 409 response when code is already used in
// table, or a 500 when the lookup fails. It returns true if a response was
// written.
func rejectDuplicateCode(c *gin.Context, store CodeChecker, table, code string, excludeID *uuid.UUID, logger zerolog.Logger) bool {
	exists, err := store.CodeExists(c.Request.Context(), table, code, excludeID)
	if err != nil {
		logger.Error().Err(err).Str("table", table).Str("code", code).Msg("failed to check code")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check code"})
		return true
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "code already exists"})
		return true
	}
	return false
}

// writeStoreError maps a store error to 404, 400 or 500.
func writeStoreError(c *gin.Context, logger zerolog.Logger, err error, what, msg string) {
	if isNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	if errors.Is(err, models.ErrInvalidRequest) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolation:
			c.JSON(http.StatusBadRequest, gin.H{"error": "referenced record does not exist or is still in use"})
			return
		case uniqueViolation:
			c.JSON(http.StatusConflict, gin.H{"error": "record already exists"})
			return
		}
	}
	logger.Error().Err(err).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
