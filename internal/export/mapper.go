package export

import (
	"strings"

	"github.com/google/uuid"
	"github.com/kunkoder/Cor1/internal/models"
)

// Column is one named extraction rule of a Mapper.
type Column[T any] struct {
	Name    string
	Extract func(T) Value
}

// Cell is a column name paired with the value mapped for it.
type Cell struct {
	Column string
	Value  Value
}

// MappedRow is the ordered cells produced from one record.
type MappedRow []Cell

// Columns returns the column names of the row in order.
func (r MappedRow) Columns() []string {
	names := make([]string, len(r))
	for i, c := range r {
		names[i] = c.Column
	}
	return names
}

// Mapper flattens records of type T into rows with a fixed column order.
type Mapper[T any] struct {
	columns []Column[T]
}

// NewMapper returns a mapper producing cols in the given order.
func NewMapper[T any](cols ...Column[T]) *Mapper[T] {
	return &Mapper[T]{columns: cols}
}

// Header returns the column names in order.
func (m *Mapper[T]) Header() []string {
	names := make([]string, len(m.columns))
	for i, c := range m.columns {
		names[i] = c.Name
	}
	return names
}

// Map converts rec into a row. It never fails; a cell whose extraction
// panics is Absent.
func (m *Mapper[T]) Map(rec T) MappedRow {
	row := make(MappedRow, len(m.columns))
	for i, c := range m.columns {
		row[i] = Cell{Column: c.Name, Value: Get(rec, c.Extract)}
	}
	return row
}

func col[T any](name string, extract func(T) Value) Column[T] {
	return Column[T]{Name: name, Extract: extract}
}

// ID renders a record identifier, Absent for the nil UUID.
func ID(id uuid.UUID) Value {
	if id == uuid.Nil {
		return Absent
	}
	return Text(id.String())
}

// Labelled renders "name (code)". The result is always present, so a
// missing reference renders as " ()".
func Labelled(name, code Value) Value {
	return Value{text: name.String() + " (" + code.String() + ")", present: true}
}

func userRefLabel(ref *models.UserRef) Value {
	return Labelled(Text(ref.Name), Text(ref.EmployeeID))
}

func labelledUser[T any](rec T, parent func(T) *models.UserRef) Value {
	return Labelled(
		Nested(rec, parent, func(u *models.UserRef) Value { return Text(u.Name) }),
		Nested(rec, parent, func(u *models.UserRef) Value { return Text(u.EmployeeID) }),
	)
}

// UserMapper maps users to the Users sheet.
func UserMapper() *Mapper[*models.User] {
	return NewMapper(
		col("ID", func(u *models.User) Value { return ID(u.ID) }),
		col("Name", func(u *models.User) Value { return Text(u.Name) }),
		col("Employee ID", func(u *models.User) Value { return Text(u.EmployeeID) }),
		col("Email", func(u *models.User) Value { return Text(u.Email) }),
		col("Role", func(u *models.User) Value {
			names := make([]string, 0, len(u.Roles))
			for _, r := range u.Roles {
				names = append(names, string(r.Name))
			}
			return Text(strings.Join(names, ", "))
		}),
		col("Phone", func(u *models.User) Value { return Text(u.PhoneNumber) }),
		col("Designation", func(u *models.User) Value { return Text(u.Designation) }),
		col("Join Date", func(u *models.User) Value { return Date(u.JoinDate) }),
		col("Nationality", func(u *models.User) Value { return Text(u.Nationality) }),
	)
}

// AreaMapper maps areas to the Areas sheet.
func AreaMapper() *Mapper[*models.Area] {
	return NewMapper(
		col("ID", func(a *models.Area) Value { return ID(a.ID) }),
		col("Code", func(a *models.Area) Value { return Text(a.Code) }),
		col("Name", func(a *models.Area) Value { return Text(a.Name) }),
	)
}

// EquipmentMapper maps equipment to the Equipments sheet.
func EquipmentMapper() *Mapper[*models.Equipment] {
	area := func(e *models.Equipment) *models.AreaRef { return e.Area }
	return NewMapper(
		col("ID", func(e *models.Equipment) Value { return ID(e.ID) }),
		col("Code", func(e *models.Equipment) Value { return Text(e.Code) }),
		col("Name", func(e *models.Equipment) Value { return Text(e.Name) }),
		col("Description", func(e *models.Equipment) Value { return Text(e.Description) }),
		col("Area Code", func(e *models.Equipment) Value {
			return Nested(e, area, func(a *models.AreaRef) Value { return Text(a.Code) })
		}),
		col("Status", func(e *models.Equipment) Value { return Text(string(e.Status)) }),
		col("Category", func(e *models.Equipment) Value { return Text(e.Category) }),
	)
}

// PartMapper maps parts to the Parts sheet.
func PartMapper() *Mapper[*models.Part] {
	return NewMapper(
		col("ID", func(p *models.Part) Value { return ID(p.ID) }),
		col("Code", func(p *models.Part) Value { return Text(p.Code) }),
		col("Name", func(p *models.Part) Value { return Text(p.Name) }),
		col("Description", func(p *models.Part) Value { return Text(p.Description) }),
		col("Category", func(p *models.Part) Value { return Text(p.Category) }),
		col("Unit", func(p *models.Part) Value { return Text(p.Unit) }),
		col("Min Stock", func(p *models.Part) Value { return OptInt(p.MinStock) }),
	)
}

// ComplaintMapper maps complaints to the Complaints sheet.
func ComplaintMapper() *Mapper[*models.Complaint] {
	reporter := func(c *models.Complaint) *models.UserRef { return c.Reporter }
	assignee := func(c *models.Complaint) *models.UserRef { return c.Assignee }
	area := func(c *models.Complaint) *models.AreaRef { return c.Area }
	equipment := func(c *models.Complaint) *models.EquipmentRef { return c.Equipment }
	return NewMapper(
		col("ID", func(c *models.Complaint) Value { return ID(c.ID) }),
		col("Code", func(c *models.Complaint) Value { return Text(c.Code) }),
		col("Title", func(c *models.Complaint) Value { return Text(c.Title) }),
		col("Description", func(c *models.Complaint) Value { return Text(c.Description) }),
		col("Reporter", func(c *models.Complaint) Value { return labelledUser(c, reporter) }),
		col("Assignee", func(c *models.Complaint) Value { return labelledUser(c, assignee) }),
		col("Area", func(c *models.Complaint) Value {
			return Nested(c, area, func(a *models.AreaRef) Value { return Text(a.Name) })
		}),
		col("Equipment", func(c *models.Complaint) Value {
			return Nested(c, equipment, func(e *models.EquipmentRef) Value { return Text(e.Name) })
		}),
		col("Status", func(c *models.Complaint) Value { return Text(string(c.Status)) }),
		col("Priority", func(c *models.Complaint) Value { return Text(string(c.Priority)) }),
		col("Created At", func(c *models.Complaint) Value { return Timestamp(c.CreatedAt) }),
	)
}

// WorkReportMapper maps work reports to the WorkReports sheet.
func WorkReportMapper() *Mapper[*models.WorkReport] {
	area := func(w *models.WorkReport) *models.AreaRef { return w.Area }
	equipment := func(w *models.WorkReport) *models.EquipmentRef { return w.Equipment }
	supervisor := func(w *models.WorkReport) *models.UserRef { return w.Supervisor }
	return NewMapper(
		col("ID", func(w *models.WorkReport) Value { return ID(w.ID) }),
		col("Code", func(w *models.WorkReport) Value { return Text(w.Code) }),
		col("Report Date", func(w *models.WorkReport) Value { return Date(w.ReportDate) }),
		col("Shift", func(w *models.WorkReport) Value { return Text(string(w.Shift)) }),
		col("Area", func(w *models.WorkReport) Value {
			return Labelled(
				Nested(w, area, func(a *models.AreaRef) Value { return Text(a.Name) }),
				Nested(w, area, func(a *models.AreaRef) Value { return Text(a.Code) }),
			)
		}),
		col("Equipment", func(w *models.WorkReport) Value {
			return Labelled(
				Nested(w, equipment, func(e *models.EquipmentRef) Value { return Text(e.Name) }),
				Nested(w, equipment, func(e *models.EquipmentRef) Value { return Text(e.Code) }),
			)
		}),
		col("Category", func(w *models.WorkReport) Value { return Text(w.Category) }),
		col("Problem", func(w *models.WorkReport) Value { return Text(w.Problem) }),
		col("Solution", func(w *models.WorkReport) Value { return Text(w.Solution) }),
		col("Start Time", func(w *models.WorkReport) Value { return TimeOfDay(w.StartTime) }),
		col("Stop Time", func(w *models.WorkReport) Value { return TimeOfDay(w.StopTime) }),
		col("Total Time Minutes", func(w *models.WorkReport) Value { return OptInt(w.TotalTimeMinutes) }),
		col("Technicians", func(w *models.WorkReport) Value {
			labels := make([]string, 0, len(w.Technicians))
			for i := range w.Technicians {
				labels = append(labels, userRefLabel(&w.Technicians[i]).String())
			}
			return Text(strings.Join(labels, ", "))
		}),
		col("Supervisor", func(w *models.WorkReport) Value { return labelledUser(w, supervisor) }),
		col("Status", func(w *models.WorkReport) Value { return Text(string(w.Status)) }),
		col("Scope", func(w *models.WorkReport) Value { return Text(w.Scope) }),
		col("Work Type", func(w *models.WorkReport) Value { return Text(w.WorkType) }),
		col("Remark", func(w *models.WorkReport) Value { return Text(w.Remark) }),
	)
}
