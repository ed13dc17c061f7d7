package export

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kunkoder/Cor1/internal/models"
)

func cellValue(t *testing.T, row MappedRow, column string) string {
	t.Helper()
	for _, c := range row {
		if c.Column == column {
			return c.Value.String()
		}
	}
	t.Fatalf("column %q not in row %v", column, row.Columns())
	return ""
}

func TestMapperHeaders(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{"users", UserMapper().Header(), []string{"ID", "Name", "Employee ID", "Email", "Role", "Phone", "Designation", "Join Date", "Nationality"}},
		{"areas", AreaMapper().Header(), []string{"ID", "Code", "Name"}},
		{"equipment", EquipmentMapper().Header(), []string{"ID", "Code", "Name", "Description", "Area Code", "Status", "Category"}},
		{"parts", PartMapper().Header(), []string{"ID", "Code", "Name", "Description", "Category", "Unit", "Min Stock"}},
		{"complaints", ComplaintMapper().Header(), []string{"ID", "Code", "Title", "Description", "Reporter", "Assignee", "Area", "Equipment", "Status", "Priority", "Created At"}},
		{"work reports", WorkReportMapper().Header(), []string{"ID", "Code", "Report Date", "Shift", "Area", "Equipment", "Category", "Problem", "Solution", "Start Time", "Stop Time", "Total Time Minutes", "Technicians", "Supervisor", "Status", "Scope", "Work Type", "Remark"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.header, tt.want) {
				t.Errorf("expected header %v, got %v", tt.want, tt.header)
			}
		})
	}
}

func TestUserMapper(t *testing.T) {
	join := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	u := models.NewUser("Ana", "E-100", "ana@example.com", models.RoleViewer, models.RoleAdmin)
	u.JoinDate = &join

	row := UserMapper().Map(u)
	if got := cellValue(t, row, "Role"); got != "ADMIN, VIEWER" {
		t.Errorf("expected roles 'ADMIN, VIEWER', got %q", got)
	}
	if got := cellValue(t, row, "Join Date"); got != "2021-06-01" {
		t.Errorf("expected join date 2021-06-01, got %q", got)
	}
	if got := cellValue(t, row, "ID"); got != u.ID.String() {
		t.Errorf("expected id %s, got %q", u.ID, got)
	}
	if !row[5].Value.IsAbsent() {
		t.Errorf("expected absent phone, got %q", row[5].Value)
	}
}

func TestWorkReportMapper_Technicians(t *testing.T) {
	w := models.NewWorkReport("WR-7")
	w.Technicians = []models.UserRef{
		{ID: uuid.New(), Name: "A", EmployeeID: "1"},
		{ID: uuid.New(), Name: "B", EmployeeID: "2"},
	}

	row := WorkReportMapper().Map(w)
	if got := cellValue(t, row, "Technicians"); got != "A (1), B (2)" {
		t.Errorf("expected 'A (1), B (2)', got %q", got)
	}
}

func TestWorkReportMapper_Composites(t *testing.T) {
	start := time.Date(2024, 3, 5, 8, 15, 0, 0, time.UTC)
	stop := time.Date(2024, 3, 5, 9, 45, 0, 0, time.UTC)
	w := models.NewWorkReport("WR-8")
	w.Area = &models.AreaRef{Code: "A1", Name: "Boiler"}
	w.StartTime = &start
	w.StopTime = &stop
	w.ComputeTotalTime()

	row := WorkReportMapper().Map(w)
	checks := map[string]string{
		"Area":               "Boiler (A1)",
		"Equipment":          " ()",
		"Supervisor":         " ()",
		"Start Time":         "08:15",
		"Stop Time":          "09:45",
		"Total Time Minutes": "90",
		"Technicians":        "",
		"Status":             "OPEN",
	}
	for column, want := range checks {
		if got := cellValue(t, row, column); got != want {
			t.Errorf("%s: expected %q, got %q", column, want, got)
		}
	}
}

func TestComplaintMapper_MissingReferences(t *testing.T) {
	c := models.NewComplaint("C-1", "Leak")
	c.CreatedAt = time.Date(2024, 3, 5, 14, 7, 22, 0, time.UTC)
	c.Reporter = &models.UserRef{Name: "Ana", EmployeeID: "E-100"}

	row := ComplaintMapper().Map(c)
	if got := cellValue(t, row, "Reporter"); got != "Ana (E-100)" {
		t.Errorf("expected 'Ana (E-100)', got %q", got)
	}
	if got := cellValue(t, row, "Assignee"); got != " ()" {
		t.Errorf("expected ' ()', got %q", got)
	}
	if got := cellValue(t, row, "Area"); got != "" {
		t.Errorf("expected empty area, got %q", got)
	}
	if got := cellValue(t, row, "Created At"); got != "2024-03-05T14:07:22" {
		t.Errorf("expected 2024-03-05T14:07:22, got %q", got)
	}
}

func TestEquipmentMapper_NilArea(t *testing.T) {
	e := models.NewEquipment("EQ-1", "Pump")
	row := EquipmentMapper().Map(e)
	if got := cellValue(t, row, "Area Code"); got != "" {
		t.Errorf("expected empty area code, got %q", got)
	}

	e.Area = &models.AreaRef{Code: "A9"}
	row = EquipmentMapper().Map(e)
	if got := cellValue(t, row, "Area Code"); got != "A9" {
		t.Errorf("expected A9, got %q", got)
	}
}

func TestMapper_NilRecordDegradesToEmpty(t *testing.T) {
	row := PartMapper().Map(nil)
	if len(row) != 7 {
		t.Fatalf("expected 7 cells, got %d", len(row))
	}
	for _, c := range row {
		if !c.Value.IsAbsent() {
			t.Errorf("%s: expected absent, got %q", c.Column, c.Value)
		}
	}
}

func TestMapper_Idempotent(t *testing.T) {
	c := models.NewComplaint("C-2", "Noise")
	c.Equipment = &models.EquipmentRef{Code: "EQ-2", Name: "Fan"}
	m := ComplaintMapper()

	first := m.Map(c)
	second := m.Map(c)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical rows, got %v and %v", first, second)
	}
}

func TestNested_ShortCircuitsOnNilParent(t *testing.T) {
	called := false
	parent := func(c *models.Complaint) *models.UserRef { return c.Reporter }
	v := Nested(models.NewComplaint("C-3", "x"), parent, func(*models.UserRef) Value {
		called = true
		return Text("unexpected")
	})
	if called {
		t.Error("child accessor should not be called for a nil parent")
	}
	if !v.IsAbsent() {
		t.Errorf("expected absent, got %q", v)
	}
}

func TestGet_RecoversPanics(t *testing.T) {
	v := Get(0, func(int) Value { panic("boom") })
	if !v.IsAbsent() {
		t.Errorf("expected absent, got %q", v)
	}
}

func TestValueHelpers(t *testing.T) {
	if !Text("").IsAbsent() {
		t.Error("empty text should be absent")
	}
	if Int(0).String() != "0" || Int(0).IsAbsent() {
		t.Error("zero int should be present")
	}
	if !OptInt(nil).IsAbsent() {
		t.Error("nil int should be absent")
	}
	if !Date(nil).IsAbsent() || !Timestamp(time.Time{}).IsAbsent() {
		t.Error("missing times should be absent")
	}
	if !ID(uuid.Nil).IsAbsent() {
		t.Error("nil uuid should be absent")
	}
}
