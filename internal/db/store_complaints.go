package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kunkoder/Cor1/internal/models"
)

const complaintSelect = `
	SELECT c.id, c.code, c.title, c.description, c.status, c.priority,
	       c.created_at, c.updated_at,
	       rep.id, rep.employee_id, rep.name,
	       asg.id, asg.employee_id, asg.name,
	       a.id, a.code, a.name,
	       e.id, e.code, e.name
	FROM complaints c
	LEFT JOIN users rep ON rep.id = c.reporter_id
	LEFT JOIN users asg ON asg.id = c.assignee_id
	LEFT JOIN areas a ON a.id = c.area_id
	LEFT JOIN equipment e ON e.id = c.equipment_id`

func scanComplaint(row pgx.Row) (*models.Complaint, error) {
	var c models.Complaint
	var reporter, assignee, area, equipment nullRef
	err := row.Scan(
		&c.ID, &c.Code, &c.Title, &c.Description, &c.Status, &c.Priority,
		&c.CreatedAt, &c.UpdatedAt,
		&reporter.ID, &reporter.Code, &reporter.Name,
		&assignee.ID, &assignee.Code, &assignee.Name,
		&area.ID, &area.Code, &area.Name,
		&equipment.ID, &equipment.Code, &equipment.Name,
	)
	if err != nil {
		return nil, err
	}
	c.Reporter = reporter.user()
	c.Assignee = assignee.user()
	c.Area = area.area()
	c.Equipment = equipment.equipment()
	return &c, nil
}

// ListComplaints returns all complaints, newest first.
func (db *DB) ListComplaints(ctx context.Context) ([]*models.Complaint, error) {
	rows, err := db.Pool.Query(ctx, complaintSelect+` ORDER BY c.created_at DESC, c.code`)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	var complaints []*models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		complaints = append(complaints, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate complaints: %w", err)
	}
	return complaints, nil
}

// GetComplaintByID returns a complaint by ID.
func (db *DB) GetComplaintByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	c, err := scanComplaint(db.Pool.QueryRow(ctx, complaintSelect+` WHERE c.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("complaint", id)
		}
		return nil, fmt.Errorf("get complaint: %w", err)
	}
	return c, nil
}

// CreateComplaint creates a new complaint.
func (db *DB) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO complaints (
			id, code, title, description, reporter_id, assignee_id,
			area_id, equipment_id, status, priority, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		c.ID, c.Code, c.Title, c.Description, userID(c.Reporter), userID(c.Assignee),
		areaID(c.Area), equipmentID(c.Equipment), c.Status, c.Priority, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create complaint: %w", err)
	}
	return nil
}

// UpdateComplaint updates an existing complaint. The reporter is fixed at
// creation.
func (db *DB) UpdateComplaint(ctx context.Context, c *models.Complaint) error {
	c.UpdatedAt = time.Now()
	tag, err := db.Pool.Exec(ctx, `
		UPDATE complaints SET
			code = $2, title = $3, description = $4, assignee_id = $5,
			area_id = $6, equipment_id = $7, status = $8, priority = $9,
			updated_at = $10
		WHERE id = $1
	`,
		c.ID, c.Code, c.Title, c.Description, userID(c.Assignee),
		areaID(c.Area), equipmentID(c.Equipment), c.Status, c.Priority, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update complaint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("complaint", c.ID)
	}
	return nil
}

// DeleteComplaint deletes a complaint.
func (db *DB) DeleteComplaint(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete complaint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("complaint", id)
	}
	return nil
}
