package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kunkoder/Cor1/internal/models"
)

// ListAreas returns all areas ordered by code.
func (db *DB) ListAreas(ctx context.Context) ([]*models.Area, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, code, name, description, created_at, updated_at
		FROM areas
		ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	defer rows.Close()

	var areas []*models.Area
	for rows.Next() {
		var a models.Area
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Description, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan area: %w", err)
		}
		areas = append(areas, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate areas: %w", err)
	}
	return areas, nil
}

// GetAreaByID returns an area by ID.
func (db *DB) GetAreaByID(ctx context.Context, id uuid.UUID) (*models.Area, error) {
	var a models.Area
	err := db.Pool.QueryRow(ctx, `
		SELECT id, code, name, description, created_at, updated_at
		FROM areas
		WHERE id = $1
	`, id).Scan(&a.ID, &a.Code, &a.Name, &a.Description, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("area", id)
		}
		return nil, fmt.Errorf("get area: %w", err)
	}
	return &a, nil
}

// CreateArea creates a new area.
func (db *DB) CreateArea(ctx context.Context, a *models.Area) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO areas (id, code, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.Code, a.Name, a.Description, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create area: %w", err)
	}
	return nil
}

// UpdateArea updates an existing area.
func (db *DB) UpdateArea(ctx context.Context, a *models.Area) error {
	a.UpdatedAt = time.Now()
	tag, err := db.Pool.Exec(ctx, `
		UPDATE areas SET code = $2, name = $3, description = $4, updated_at = $5
		WHERE id = $1
	`, a.ID, a.Code, a.Name, a.Description, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update area: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("area", a.ID)
	}
	return nil
}

// DeleteArea deletes an area. Equipment and reports referencing it keep
// their rows with the area cleared.
func (db *DB) DeleteArea(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM areas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete area: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("area", id)
	}
	return nil
}
