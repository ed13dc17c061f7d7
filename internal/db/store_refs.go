package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kunkoder/Cor1/internal/models"
)

// Nullable columns of a joined reference row.
type nullRef struct {
	ID   *uuid.UUID
	Code *string
	Name *string
}

func (r nullRef) area() *models.AreaRef {
	if r.ID == nil {
		return nil
	}
	return &models.AreaRef{ID: *r.ID, Code: deref(r.Code), Name: deref(r.Name)}
}

func (r nullRef) equipment() *models.EquipmentRef {
	if r.ID == nil {
		return nil
	}
	return &models.EquipmentRef{ID: *r.ID, Code: deref(r.Code), Name: deref(r.Name)}
}

// user treats Code as the employee ID.
func (r nullRef) user() *models.UserRef {
	if r.ID == nil {
		return nil
	}
	return &models.UserRef{ID: *r.ID, EmployeeID: deref(r.Code), Name: deref(r.Name)}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func areaID(a *models.AreaRef) *uuid.UUID {
	if a == nil {
		return nil
	}
	return &a.ID
}

func equipmentID(e *models.EquipmentRef) *uuid.UUID {
	if e == nil {
		return nil
	}
	return &e.ID
}

func userID(u *models.UserRef) *uuid.UUID {
	if u == nil {
		return nil
	}
	return &u.ID
}

// codeTables are the tables with a case-insensitively unique code column.
var codeTables = map[string]bool{
	"areas":        true,
	"equipment":    true,
	"parts":        true,
	"complaints":   true,
	"work_reports": true,
}

// CodeExists reports whether table already has a row with code, ignoring
// case. excludeID skips the row being updated.
func (db *DB) CodeExists(ctx context.Context, table, code string, excludeID *uuid.UUID) (bool, error) {
	if !codeTables[table] {
		return false, fmt.Errorf("code lookup on unknown table %q", table)
	}
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM `+table+`
			WHERE LOWER(code) = LOWER($1) AND ($2::uuid IS NULL OR id <> $2)
		)
	`, code, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check %s code: %w", table, err)
	}
	return exists, nil
}
