package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kunkoder/Cor1/internal/models"
)

// ListParts returns all parts ordered by code.
func (db *DB) ListParts(ctx context.Context) ([]*models.Part, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, code, name, description, category, unit, min_stock, created_at, updated_at
		FROM parts
		ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()

	var parts []*models.Part
	for rows.Next() {
		var p models.Part
		if err := rows.Scan(
			&p.ID, &p.Code, &p.Name, &p.Description, &p.Category, &p.Unit,
			&p.MinStock, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		parts = append(parts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parts: %w", err)
	}
	return parts, nil
}

// GetPartByID returns a part by ID.
func (db *DB) GetPartByID(ctx context.Context, id uuid.UUID) (*models.Part, error) {
	var p models.Part
	err := db.Pool.QueryRow(ctx, `
		SELECT id, code, name, description, category, unit, min_stock, created_at, updated_at
		FROM parts
		WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.Category, &p.Unit,
		&p.MinStock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("part", id)
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return &p, nil
}

// CreatePart creates a new part.
func (db *DB) CreatePart(ctx context.Context, p *models.Part) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO parts (id, code, name, description, category, unit, min_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.Code, p.Name, p.Description, p.Category, p.Unit, p.MinStock, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create part: %w", err)
	}
	return nil
}

// UpdatePart updates an existing part.
func (db *DB) UpdatePart(ctx context.Context, p *models.Part) error {
	p.UpdatedAt = time.Now()
	tag, err := db.Pool.Exec(ctx, `
		UPDATE parts SET
			code = $2, name = $3, description = $4, category = $5,
			unit = $6, min_stock = $7, updated_at = $8
		WHERE id = $1
	`, p.ID, p.Code, p.Name, p.Description, p.Category, p.Unit, p.MinStock, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update part: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("part", p.ID)
	}
	return nil
}

// DeletePart deletes a part.
func (db *DB) DeletePart(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM parts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete part: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("part", id)
	}
	return nil
}
