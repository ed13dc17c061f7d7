package models

import (
	"time"

	"github.com/google/uuid"
)

// Part is a spare part kept in stock.
type Part struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	MinStock    *int      `json:"min_stock,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewPart creates a new Part.
func NewPart(code, name string) *Part {
	now := time.Now()
	return &Part{
		ID:        uuid.New(),
		Code:      code,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
