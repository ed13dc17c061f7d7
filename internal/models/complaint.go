package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkStatus is the lifecycle state shared by complaints and work reports.
type WorkStatus string

const (
	// WorkStatusOpen is newly raised work.
	WorkStatusOpen WorkStatus = "OPEN"
	// WorkStatusPending is work waiting on parts or people.
	WorkStatusPending WorkStatus = "PENDING"
	// WorkStatusClosed is finished work.
	WorkStatusClosed WorkStatus = "CLOSED"
)

// IsValidWorkStatus reports whether s is a known work status.
func IsValidWorkStatus(s WorkStatus) bool {
	switch s {
	case WorkStatusOpen, WorkStatusPending, WorkStatusClosed:
		return true
	}
	return false
}

// Priority ranks how urgently a complaint needs attention.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

// IsValidPriority reports whether p is a known priority.
func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Complaint is a reported problem with a piece of equipment.
type Complaint struct {
	ID          uuid.UUID     `json:"id"`
	Code        string        `json:"code"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Reporter    *UserRef      `json:"reporter,omitempty"`
	Assignee    *UserRef      `json:"assignee,omitempty"`
	Area        *AreaRef      `json:"area,omitempty"`
	Equipment   *EquipmentRef `json:"equipment,omitempty"`
	Status      WorkStatus    `json:"status"`
	Priority    Priority      `json:"priority"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewComplaint creates a new open Complaint.
func NewComplaint(code, title string) *Complaint {
	now := time.Now()
	return &Complaint{
		ID:        uuid.New(),
		Code:      code,
		Title:     title,
		Status:    WorkStatusOpen,
		Priority:  PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
