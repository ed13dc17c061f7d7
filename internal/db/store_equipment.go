package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kunkoder/Cor1/internal/models"
)

const equipmentSelect = `
	SELECT e.id, e.code, e.name, e.description, e.status, e.category,
	       e.created_at, e.updated_at,
	       a.id, a.code, a.name
	FROM equipment e
	LEFT JOIN areas a ON a.id = e.area_id`

func scanEquipment(row pgx.Row) (*models.Equipment, error) {
	var e models.Equipment
	var area nullRef
	err := row.Scan(
		&e.ID, &e.Code, &e.Name, &e.Description, &e.Status, &e.Category,
		&e.CreatedAt, &e.UpdatedAt,
		&area.ID, &area.Code, &area.Name,
	)
	if err != nil {
		return nil, err
	}
	e.Area = area.area()
	return &e, nil
}

// ListEquipment returns all equipment ordered by code.
func (db *DB) ListEquipment(ctx context.Context) ([]*models.Equipment, error) {
	rows, err := db.Pool.Query(ctx, equipmentSelect+` ORDER BY e.code`)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer rows.Close()

	var list []*models.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equipment: %w", err)
	}
	return list, nil
}

// GetEquipmentByID returns equipment by ID.
func (db *DB) GetEquipmentByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	e, err := scanEquipment(db.Pool.QueryRow(ctx, equipmentSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("equipment", id)
		}
		return nil, fmt.Errorf("get equipment: %w", err)
	}
	return e, nil
}

// GetEquipmentByCode returns equipment by its code, ignoring case.
func (db *DB) GetEquipmentByCode(ctx context.Context, code string) (*models.Equipment, error) {
	e, err := scanEquipment(db.Pool.QueryRow(ctx, equipmentSelect+` WHERE LOWER(e.code) = LOWER($1)`, code))
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("equipment", code)
		}
		return nil, fmt.Errorf("get equipment by code: %w", err)
	}
	return e, nil
}

// CreateEquipment creates new equipment.
func (db *DB) CreateEquipment(ctx context.Context, e *models.Equipment) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO equipment (id, code, name, description, area_id, status, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ID, e.Code, e.Name, e.Description, areaID(e.Area), e.Status, e.Category, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create equipment: %w", err)
	}
	return nil
}

// UpdateEquipment updates existing equipment.
func (db *DB) UpdateEquipment(ctx context.Context, e *models.Equipment) error {
	e.UpdatedAt = time.Now()
	tag, err := db.Pool.Exec(ctx, `
		UPDATE equipment SET
			code = $2, name = $3, description = $4, area_id = $5,
			status = $6, category = $7, updated_at = $8
		WHERE id = $1
	`, e.ID, e.Code, e.Name, e.Description, areaID(e.Area), e.Status, e.Category, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update equipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("equipment", e.ID)
	}
	return nil
}

// DeleteEquipment deletes equipment.
func (db *DB) DeleteEquipment(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete equipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("equipment", id)
	}
	return nil
}

// GetEquipmentStats returns, per requested equipment, the number of work
// reports and complaints still open (OPEN or PENDING) and how many of those
// are PENDING. Unknown IDs are absent from the result.
func (db *DB) GetEquipmentStats(ctx context.Context, ids []uuid.UUID) ([]*models.EquipmentStats, error) {
	if len(ids) == 0 {
		return []*models.EquipmentStats{}, nil
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT e.id,
		       COUNT(DISTINCT wr.id),
		       COUNT(DISTINCT CASE WHEN wr.status = 'PENDING' THEN wr.id END),
		       COUNT(DISTINCT c.id),
		       COUNT(DISTINCT CASE WHEN c.status = 'PENDING' THEN c.id END)
		FROM equipment e
		LEFT JOIN work_reports wr ON wr.equipment_id = e.id AND wr.status IN ('OPEN', 'PENDING')
		LEFT JOIN complaints c ON c.equipment_id = e.id AND c.status IN ('OPEN', 'PENDING')
		WHERE e.id = ANY($1)
		GROUP BY e.id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("get equipment stats: %w", err)
	}
	defer rows.Close()

	stats := []*models.EquipmentStats{}
	for rows.Next() {
		var s models.EquipmentStats
		if err := rows.Scan(
			&s.EquipmentID, &s.OpenWorkReports, &s.PendingWorkReports,
			&s.OpenComplaints, &s.PendingComplaints,
		); err != nil {
			return nil, fmt.Errorf("scan equipment stats: %w", err)
		}
		stats = append(stats, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equipment stats: %w", err)
	}
	return stats, nil
}
