package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/kunkoder/Cor1/internal/models"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

type mockStore struct {
	users       []*models.User
	areas       []*models.Area
	equipment   []*models.Equipment
	parts       []*models.Part
	complaints  []*models.Complaint
	workReports []*models.WorkReport

	areasErr error
	calls    []string
}

func (m *mockStore) ListUsers(_ context.Context) ([]*models.User, error) {
	m.calls = append(m.calls, "users")
	return m.users, nil
}

func (m *mockStore) ListAreas(_ context.Context) ([]*models.Area, error) {
	m.calls = append(m.calls, "areas")
	if m.areasErr != nil {
		return nil, m.areasErr
	}
	return m.areas, nil
}

func (m *mockStore) ListEquipment(_ context.Context) ([]*models.Equipment, error) {
	m.calls = append(m.calls, "equipment")
	return m.equipment, nil
}

func (m *mockStore) ListParts(_ context.Context) ([]*models.Part, error) {
	m.calls = append(m.calls, "parts")
	return m.parts, nil
}

func (m *mockStore) ListComplaints(_ context.Context) ([]*models.Complaint, error) {
	m.calls = append(m.calls, "complaints")
	return m.complaints, nil
}

func (m *mockStore) ListWorkReports(_ context.Context) ([]*models.WorkReport, error) {
	m.calls = append(m.calls, "work_reports")
	return m.workReports, nil
}

var fixedTime = time.Date(2024, 3, 5, 14, 7, 22, 0, time.UTC)

func newTestExporter(store Store) *Exporter {
	e := NewExporter(store, zerolog.Nop())
	e.now = func() time.Time { return fixedTime }
	return e
}

func populatedStore() *mockStore {
	minStock := 4
	part := models.NewPart("P-1", "Bearing")
	part.MinStock = &minStock
	return &mockStore{
		users: []*models.User{
			models.NewUser("Ana", "E-100", "ana@example.com", models.RoleAdmin),
			models.NewUser("Ben", "E-101", "ben@example.com"),
		},
		areas: []*models.Area{models.NewArea("A1", "Boiler")},
		parts: []*models.Part{part, models.NewPart("P-2", "Seal")},
	}
}

func openWorkbook(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestFileName(t *testing.T) {
	if got := FileName(fixedTime); got != "icbs_backup_20240305_140722.xlsx" {
		t.Errorf("expected icbs_backup_20240305_140722.xlsx, got %s", got)
	}
}

func TestExporter_Run_KindFiltering(t *testing.T) {
	dir := t.TempDir()
	store := populatedStore()

	result, err := newTestExporter(store).Run(context.Background(), dir, []models.BackupKind{models.BackupKindPart, models.BackupKindUser})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantPath := filepath.Join(dir, "icbs_backup_20240305_140722.xlsx")
	if result.Path != wantPath {
		t.Errorf("expected path %s, got %s", wantPath, result.Path)
	}
	if !reflect.DeepEqual(store.calls, []string{"users", "parts"}) {
		t.Errorf("expected fetches [users parts], got %v", store.calls)
	}

	f := openWorkbook(t, result.Path)
	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"Users", "Parts"}) {
		t.Errorf("expected sheets [Users Parts], got %v", got)
	}
	if result.RowCount() != 4 {
		t.Errorf("expected 4 rows, got %d", result.RowCount())
	}
}

func TestExporter_Run_SheetContents(t *testing.T) {
	dir := t.TempDir()
	store := populatedStore()

	result, err := newTestExporter(store).Run(context.Background(), dir, models.CanonicalBackupKinds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := openWorkbook(t, result.Path)
	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"Users", "Areas", "Parts"}) {
		t.Fatalf("expected sheets [Users Areas Parts], got %v", got)
	}

	rows, err := f.GetRows("Parts")
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) != 1+len(store.parts) {
		t.Fatalf("expected %d rows, got %d", 1+len(store.parts), len(rows))
	}
	if !reflect.DeepEqual(rows[0], PartMapper().Header()) {
		t.Errorf("expected header %v, got %v", PartMapper().Header(), rows[0])
	}
	if rows[1][1] != "P-1" || rows[1][6] != "4" {
		t.Errorf("unexpected first part row: %v", rows[1])
	}

	// The second part has no description, category, unit or min stock.
	for _, ref := range []string{"D3", "E3", "F3", "G3"} {
		cellType, err := f.GetCellType("Parts", ref)
		if err != nil {
			t.Fatalf("failed to read cell type: %v", err)
		}
		if cellType != excelize.CellTypeUnset {
			t.Errorf("expected blank cell at %s, got type %v", ref, cellType)
		}
	}

	users, err := f.GetRows("Users")
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	header := users[0]
	for i, row := range users[1:] {
		if len(row) > len(header) {
			t.Errorf("row %d has %d cells, header has %d", i+1, len(row), len(header))
		}
	}
	if users[1][4] != "ADMIN" {
		t.Errorf("expected role ADMIN, got %q", users[1][4])
	}
}

func TestExporter_Run_EmptyKindsOmitted(t *testing.T) {
	dir := t.TempDir()
	store := &mockStore{areas: []*models.Area{models.NewArea("A1", "Boiler")}}

	result, err := newTestExporter(store).Run(context.Background(), dir, models.CanonicalBackupKinds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Sheets) != 1 || result.Sheets[0].Name != "Areas" {
		t.Errorf("expected only Areas, got %+v", result.Sheets)
	}

	f := openWorkbook(t, result.Path)
	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"Areas"}) {
		t.Errorf("expected sheets [Areas], got %v", got)
	}
}

func TestExporter_Run_NothingToExport(t *testing.T) {
	dir := t.TempDir()

	result, err := newTestExporter(&mockStore{}).Run(context.Background(), dir, models.CanonicalBackupKinds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Sheets) != 0 {
		t.Errorf("expected no sheets, got %+v", result.Sheets)
	}

	f := openWorkbook(t, result.Path)
	for _, name := range f.GetSheetList() {
		for _, k := range models.CanonicalBackupKinds() {
			if name == k.SheetName() {
				t.Errorf("unexpected sheet %s", name)
			}
		}
	}
}

func TestExporter_Run_FetchFailureSkipsKind(t *testing.T) {
	dir := t.TempDir()
	store := populatedStore()
	store.areasErr = errors.New("connection reset")

	result, err := newTestExporter(store).Run(context.Background(), dir, models.CanonicalBackupKinds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Kind != models.BackupKindArea {
		t.Fatalf("expected AREA skipped, got %+v", result.Skipped)
	}

	f := openWorkbook(t, result.Path)
	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"Users", "Parts"}) {
		t.Errorf("expected sheets [Users Parts], got %v", got)
	}
}

func TestExporter_Run_CreatesFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "backups")

	result, err := newTestExporter(populatedStore()).Run(context.Background(), dir, []models.BackupKind{models.BackupKindArea})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(result.Path); err != nil {
		t.Errorf("expected file to exist: %v", err)
	}
}

func TestExporter_Run_IOError(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	_, err := newTestExporter(populatedStore()).Run(context.Background(), filepath.Join(blocker, "sub"), models.CanonicalBackupKinds())
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %v", err)
	}
	if ioErr.Op != "create folder" {
		t.Errorf("expected create folder op, got %s", ioErr.Op)
	}
}

func TestExporter_Run_WriteError(t *testing.T) {
	dir := t.TempDir()
	// A directory where the workbook should go makes the save fail.
	if err := os.Mkdir(filepath.Join(dir, FileName(fixedTime)), 0750); err != nil {
		t.Fatalf("failed to create blocking directory: %v", err)
	}

	_, err := newTestExporter(populatedStore()).Run(context.Background(), dir, models.CanonicalBackupKinds())
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %v", err)
	}
	if ioErr.Op != "write workbook" {
		t.Errorf("expected write workbook op, got %s", ioErr.Op)
	}
	if ioErr.Path != filepath.Join(dir, FileName(fixedTime)) {
		t.Errorf("unexpected path %s", ioErr.Path)
	}
}

func TestExporter_Run_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestExporter(populatedStore()).Run(ctx, t.TempDir(), models.CanonicalBackupKinds())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
