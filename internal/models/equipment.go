package models

import (
	"time"

	"github.com/google/uuid"
)

// EquipmentStatus is the operating state of a piece of equipment.
type EquipmentStatus string

const (
	// EquipmentStatusActive is running equipment.
	EquipmentStatusActive EquipmentStatus = "ACTIVE"
	// EquipmentStatusInactive is equipment taken out of service.
	EquipmentStatusInactive EquipmentStatus = "INACTIVE"
	// EquipmentStatusUnderMaintenance is equipment currently being worked on.
	EquipmentStatusUnderMaintenance EquipmentStatus = "UNDER_MAINTENANCE"
)

// IsValidEquipmentStatus reports whether s is a known equipment status.
func IsValidEquipmentStatus(s EquipmentStatus) bool {
	switch s {
	case EquipmentStatusActive, EquipmentStatusInactive, EquipmentStatusUnderMaintenance:
		return true
	}
	return false
}

// Equipment is a maintained machine or asset.
type Equipment struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Area        *AreaRef        `json:"area,omitempty"`
	Status      EquipmentStatus `json:"status"`
	Category    string          `json:"category,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewEquipment creates a new active Equipment.
func NewEquipment(code, name string) *Equipment {
	now := time.Now()
	return &Equipment{
		ID:        uuid.New(),
		Code:      code,
		Name:      name,
		Status:    EquipmentStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// EquipmentRef is the subset of an equipment embedded in other records.
type EquipmentRef struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
}

// EquipmentStats counts the open and pending work on one piece of equipment.
type EquipmentStats struct {
	EquipmentID        uuid.UUID `json:"equipment_id"`
	OpenWorkReports    int64     `json:"open_work_reports"`
	PendingWorkReports int64     `json:"pending_work_reports"`
	OpenComplaints     int64     `json:"open_complaints"`
	PendingComplaints  int64     `json:"pending_complaints"`
}
