package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidRequest is returned when a create or update request fails
// validation beyond what binding tags check.
var ErrInvalidRequest = errors.New("invalid request")

// parseOptionalDate parses a YYYY-MM-DD date, returning nil for an empty string.
func parseOptionalDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(BackupDateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q: expected YYYY-MM-DD", ErrInvalidRequest, field, s)
	}
	return &t, nil
}

// UserRequest is the request body for creating or updating a user.
type UserRequest struct {
	Name        string     `json:"name" binding:"required,max=255"`
	EmployeeID  string     `json:"employee_id" binding:"required,max=64"`
	Email       string     `json:"email" binding:"required,email"`
	Password    string     `json:"password,omitempty"`
	Roles       []RoleName `json:"roles" binding:"required,min=1"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	Designation string     `json:"designation,omitempty"`
	JoinDate    string     `json:"join_date,omitempty"`
	Nationality string     `json:"nationality,omitempty"`
}

// Apply validates the request and copies it onto u. The password is left to
// the caller, which hashes it.
func (r UserRequest) Apply(u *User) error {
	for _, role := range r.Roles {
		if !IsValidRoleName(role) {
			return fmt.Errorf("%w: unknown role %q", ErrInvalidRequest, role)
		}
	}
	joinDate, err := parseOptionalDate("join date", r.JoinDate)
	if err != nil {
		return err
	}
	u.Name = strings.TrimSpace(r.Name)
	u.EmployeeID = strings.TrimSpace(r.EmployeeID)
	u.Email = strings.TrimSpace(r.Email)
	u.SetRoles(r.Roles)
	u.PhoneNumber = r.PhoneNumber
	u.Designation = r.Designation
	u.JoinDate = joinDate
	u.Nationality = r.Nationality
	return nil
}

// AreaRequest is the request body for creating or updating an area.
type AreaRequest struct {
	Code        string `json:"code" binding:"required,max=64"`
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description,omitempty"`
}

// Apply copies the request onto a.
func (r AreaRequest) Apply(a *Area) {
	a.Code = strings.TrimSpace(r.Code)
	a.Name = strings.TrimSpace(r.Name)
	a.Description = r.Description
}

// EquipmentRequest is the request body for creating or updating equipment.
type EquipmentRequest struct {
	Code        string          `json:"code" binding:"required,max=64"`
	Name        string          `json:"name" binding:"required,max=255"`
	Description string          `json:"description,omitempty"`
	AreaID      *uuid.UUID      `json:"area_id,omitempty"`
	Status      EquipmentStatus `json:"status,omitempty"`
	Category    string          `json:"category,omitempty"`
}

// Apply validates the request and copies it onto e. An empty status keeps
// the current one.
func (r EquipmentRequest) Apply(e *Equipment) error {
	if r.Status != "" {
		if !IsValidEquipmentStatus(r.Status) {
			return fmt.Errorf("%w: unknown equipment status %q", ErrInvalidRequest, r.Status)
		}
		e.Status = r.Status
	}
	e.Code = strings.TrimSpace(r.Code)
	e.Name = strings.TrimSpace(r.Name)
	e.Description = r.Description
	e.Category = r.Category
	e.Area = nil
	if r.AreaID != nil {
		e.Area = &AreaRef{ID: *r.AreaID}
	}
	return nil
}

// PartRequest is the request body for creating or updating a part.
type PartRequest struct {
	Code        string `json:"code" binding:"required,max=64"`
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Unit        string `json:"unit,omitempty"`
	MinStock    *int   `json:"min_stock,omitempty" binding:"omitempty,min=0"`
}

// Apply copies the request onto p.
func (r PartRequest) Apply(p *Part) {
	p.Code = strings.TrimSpace(r.Code)
	p.Name = strings.TrimSpace(r.Name)
	p.Description = r.Description
	p.Category = r.Category
	p.Unit = r.Unit
	p.MinStock = r.MinStock
}

// ComplaintRequest is the request body for creating or updating a complaint.
type ComplaintRequest struct {
	Code        string     `json:"code" binding:"required,max=64"`
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description,omitempty"`
	ReporterID  *uuid.UUID `json:"reporter_id,omitempty"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	AreaID      *uuid.UUID `json:"area_id,omitempty"`
	EquipmentID *uuid.UUID `json:"equipment_id,omitempty"`
	Status      WorkStatus `json:"status,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
}

// Apply validates the request and copies it onto c. An empty status or
// priority keeps the current value.
func (r ComplaintRequest) Apply(c *Complaint) error {
	if r.Status != "" {
		if !IsValidWorkStatus(r.Status) {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, r.Status)
		}
		c.Status = r.Status
	}
	if r.Priority != "" {
		if !IsValidPriority(r.Priority) {
			return fmt.Errorf("%w: unknown priority %q", ErrInvalidRequest, r.Priority)
		}
		c.Priority = r.Priority
	}
	c.Code = strings.TrimSpace(r.Code)
	c.Title = strings.TrimSpace(r.Title)
	c.Description = r.Description
	c.Reporter = userRef(r.ReporterID)
	c.Assignee = userRef(r.AssigneeID)
	c.Area = nil
	if r.AreaID != nil {
		c.Area = &AreaRef{ID: *r.AreaID}
	}
	c.Equipment = nil
	if r.EquipmentID != nil {
		c.Equipment = &EquipmentRef{ID: *r.EquipmentID}
	}
	return nil
}

// WorkReportRequest is the request body for creating or updating a work report.
type WorkReportRequest struct {
	Code          string      `json:"code" binding:"required,max=64"`
	ReportDate    string      `json:"report_date,omitempty"`
	Shift         Shift       `json:"shift,omitempty"`
	AreaID        *uuid.UUID  `json:"area_id,omitempty"`
	EquipmentID   *uuid.UUID  `json:"equipment_id,omitempty"`
	Category      string      `json:"category,omitempty"`
	Problem       string      `json:"problem,omitempty"`
	Solution      string      `json:"solution,omitempty"`
	StartTime     *time.Time  `json:"start_time,omitempty"`
	StopTime      *time.Time  `json:"stop_time,omitempty"`
	TechnicianIDs []uuid.UUID `json:"technician_ids,omitempty"`
	SupervisorID  *uuid.UUID  `json:"supervisor_id,omitempty"`
	Status        WorkStatus  `json:"status,omitempty"`
	Scope         string      `json:"scope,omitempty"`
	WorkType      string      `json:"work_type,omitempty"`
	Remark        string      `json:"remark,omitempty"`
}

// Apply validates the request and copies it onto w. Technicians keep the
// order given and duplicates are dropped.
func (r WorkReportRequest) Apply(w *WorkReport) error {
	reportDate, err := parseOptionalDate("report date", r.ReportDate)
	if err != nil {
		return err
	}
	switch r.Shift {
	case "", ShiftDay, ShiftNight:
	default:
		return fmt.Errorf("%w: unknown shift %q", ErrInvalidRequest, r.Shift)
	}
	if r.Status != "" {
		if !IsValidWorkStatus(r.Status) {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, r.Status)
		}
		w.Status = r.Status
	}
	if r.StartTime != nil && r.StopTime != nil && r.StopTime.Before(*r.StartTime) {
		return fmt.Errorf("%w: stop time is before start time", ErrInvalidRequest)
	}

	w.Code = strings.TrimSpace(r.Code)
	w.ReportDate = reportDate
	w.Shift = r.Shift
	w.Area = nil
	if r.AreaID != nil {
		w.Area = &AreaRef{ID: *r.AreaID}
	}
	w.Equipment = nil
	if r.EquipmentID != nil {
		w.Equipment = &EquipmentRef{ID: *r.EquipmentID}
	}
	w.Category = r.Category
	w.Problem = r.Problem
	w.Solution = r.Solution
	w.StartTime = r.StartTime
	w.StopTime = r.StopTime
	w.TotalTimeMinutes = nil
	w.ComputeTotalTime()
	w.Supervisor = userRef(r.SupervisorID)
	w.Scope = r.Scope
	w.WorkType = r.WorkType
	w.Remark = r.Remark

	seen := make(map[uuid.UUID]bool, len(r.TechnicianIDs))
	w.Technicians = make([]UserRef, 0, len(r.TechnicianIDs))
	for _, id := range r.TechnicianIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		w.Technicians = append(w.Technicians, UserRef{ID: id})
	}
	return nil
}

func userRef(id *uuid.UUID) *UserRef {
	if id == nil {
		return nil
	}
	return &UserRef{ID: *id}
}
