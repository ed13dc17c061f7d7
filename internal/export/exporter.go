package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kunkoder/Cor1/internal/models"
	"github.com/rs/zerolog"
)

// FileNameLayout is the timestamp layout embedded in backup file names.
const FileNameLayout = "20060102_150405"

// Store defines the read access the exporter needs, one fetch-all per kind.
type Store interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	ListAreas(ctx context.Context) ([]*models.Area, error)
	ListEquipment(ctx context.Context) ([]*models.Equipment, error)
	ListParts(ctx context.Context) ([]*models.Part, error)
	ListComplaints(ctx context.Context) ([]*models.Complaint, error)
	ListWorkReports(ctx context.Context) ([]*models.WorkReport, error)
}

// IOError reports that the destination folder or workbook file could not be
// written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// SkippedKind is a requested kind left out of the workbook because its
// records could not be fetched.
type SkippedKind struct {
	Kind   models.BackupKind `json:"kind"`
	Reason string            `json:"reason"`
}

// SheetSummary describes one sheet written to the workbook.
type SheetSummary struct {
	Kind models.BackupKind `json:"kind"`
	Name string            `json:"name"`
	Rows int               `json:"rows"`
}

// Result describes a written backup workbook.
type Result struct {
	Path    string         `json:"path"`
	Sheets  []SheetSummary `json:"sheets"`
	Skipped []SkippedKind  `json:"skipped,omitempty"`
}

// RowCount returns the number of data rows across all sheets.
func (r *Result) RowCount() int {
	n := 0
	for _, s := range r.Sheets {
		n += s.Rows
	}
	return n
}

// sheetSource fetches one kind's records and builds its sheet.
type sheetSource func(ctx context.Context, store Store) (*Sheet, bool, error)

func source[T any](kind models.BackupKind, fetch func(Store, context.Context) ([]T, error), mapper func() *Mapper[T]) sheetSource {
	return func(ctx context.Context, store Store) (*Sheet, bool, error) {
		records, err := fetch(store, ctx)
		if err != nil {
			return nil, false, err
		}
		sheet, ok := BuildSheet(kind.SheetName(), records, mapper())
		return sheet, ok, nil
	}
}

var sources = map[models.BackupKind]sheetSource{
	models.BackupKindUser:       source(models.BackupKindUser, Store.ListUsers, UserMapper),
	models.BackupKindArea:       source(models.BackupKindArea, Store.ListAreas, AreaMapper),
	models.BackupKindEquipment:  source(models.BackupKindEquipment, Store.ListEquipment, EquipmentMapper),
	models.BackupKindPart:       source(models.BackupKindPart, Store.ListParts, PartMapper),
	models.BackupKindComplaint:  source(models.BackupKindComplaint, Store.ListComplaints, ComplaintMapper),
	models.BackupKindWorkReport: source(models.BackupKindWorkReport, Store.ListWorkReports, WorkReportMapper),
}

// Exporter writes entity tables into xlsx backup workbooks.
type Exporter struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewExporter creates a new Exporter.
func NewExporter(store Store, logger zerolog.Logger) *Exporter {
	return &Exporter{
		store:  store,
		logger: logger.With().Str("component", "backup_exporter").Logger(),
		now:    time.Now,
	}
}

// FileName returns the backup file name for a workbook generated at t.
func FileName(t time.Time) string {
	return "icbs_backup_" + t.Format(FileNameLayout) + ".xlsx"
}

// Run exports the requested kinds into a new workbook under folder, creating
// the folder if needed. Kinds are written in canonical order; empty kinds get
// no sheet. A kind whose fetch fails is skipped with a warning. Each kind is
// read independently, so the workbook is not a consistent snapshot across
// tables.
func (e *Exporter) Run(ctx context.Context, folder string, kinds []models.BackupKind) (*Result, error) {
	if err := os.MkdirAll(folder, 0750); err != nil {
		return nil, &IOError{Op: "create folder", Path: folder, Err: err}
	}

	requested := make(map[models.BackupKind]bool, len(kinds))
	for _, k := range kinds {
		requested[k] = true
	}

	result := &Result{Sheets: []SheetSummary{}}
	var sheets []*Sheet
	for _, kind := range models.CanonicalBackupKinds() {
		if !requested[kind] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sheet, ok, err := sources[kind](ctx, e.store)
		if err != nil {
			e.logger.Warn().Err(err).Str("kind", string(kind)).Msg("skipping kind, fetch failed")
			result.Skipped = append(result.Skipped, SkippedKind{Kind: kind, Reason: err.Error()})
			continue
		}
		if !ok {
			e.logger.Debug().Str("kind", string(kind)).Msg("no records, sheet omitted")
			continue
		}
		sheets = append(sheets, sheet)
		result.Sheets = append(result.Sheets, SheetSummary{Kind: kind, Name: sheet.Name, Rows: len(sheet.Rows)})
	}

	path := filepath.Join(folder, FileName(e.now()))
	if err := writeWorkbook(path, sheets); err != nil {
		return nil, &IOError{Op: "write workbook", Path: path, Err: err}
	}
	result.Path = path

	e.logger.Info().
		Str("path", path).
		Int("sheets", len(result.Sheets)).
		Int("rows", result.RowCount()).
		Int("skipped", len(result.Skipped)).
		Msg("backup workbook written")

	return result, nil
}
