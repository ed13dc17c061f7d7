package models

import (
	"time"

	"github.com/google/uuid"
)

// Shift is the working shift a report was filed in.
type Shift string

const (
	ShiftDay   Shift = "DAY"
	ShiftNight Shift = "NIGHT"
)

// WorkReport records maintenance work done on a piece of equipment.
type WorkReport struct {
	ID               uuid.UUID     `json:"id"`
	Code             string        `json:"code"`
	ReportDate       *time.Time    `json:"report_date,omitempty"`
	Shift            Shift         `json:"shift,omitempty"`
	Area             *AreaRef      `json:"area,omitempty"`
	Equipment        *EquipmentRef `json:"equipment,omitempty"`
	Category         string        `json:"category,omitempty"`
	Problem          string        `json:"problem,omitempty"`
	Solution         string        `json:"solution,omitempty"`
	StartTime        *time.Time    `json:"start_time,omitempty"`
	StopTime         *time.Time    `json:"stop_time,omitempty"`
	TotalTimeMinutes *int          `json:"total_time_minutes,omitempty"`
	Technicians      []UserRef     `json:"technicians"`
	Supervisor       *UserRef      `json:"supervisor,omitempty"`
	Status           WorkStatus    `json:"status"`
	Scope            string        `json:"scope,omitempty"`
	WorkType         string        `json:"work_type,omitempty"`
	Remark           string        `json:"remark,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// NewWorkReport creates a new open WorkReport.
func NewWorkReport(code string) *WorkReport {
	now := time.Now()
	return &WorkReport{
		ID:          uuid.New(),
		Code:        code,
		Status:      WorkStatusOpen,
		Technicians: []UserRef{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ComputeTotalTime sets TotalTimeMinutes from the start and stop times when both are known.
func (w *WorkReport) ComputeTotalTime() {
	if w.StartTime == nil || w.StopTime == nil || w.StopTime.Before(*w.StartTime) {
		return
	}
	minutes := int(w.StopTime.Sub(*w.StartTime).Minutes())
	w.TotalTimeMinutes = &minutes
}
