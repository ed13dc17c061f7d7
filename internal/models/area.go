package models

import (
	"time"

	"github.com/google/uuid"
)

// Area is a physical plant area that equipment belongs to.
type Area struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewArea creates a new Area.
func NewArea(code, name string) *Area {
	now := time.Now()
	return &Area{
		ID:        uuid.New(),
		Code:      code,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AreaRef is the subset of an area embedded in other records.
type AreaRef struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
}
