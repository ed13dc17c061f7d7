package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kunkoder/Cor1/internal/models"
)

const workReportSelect = `
	SELECT w.id, w.code, w.report_date, w.shift, w.category, w.problem, w.solution,
	       w.start_time, w.stop_time, w.total_time_minutes, w.status,
	       w.scope, w.work_type, w.remark, w.created_at, w.updated_at,
	       a.id, a.code, a.name,
	       e.id, e.code, e.name,
	       sup.id, sup.employee_id, sup.name
	FROM work_reports w
	LEFT JOIN areas a ON a.id = w.area_id
	LEFT JOIN equipment e ON e.id = w.equipment_id
	LEFT JOIN users sup ON sup.id = w.supervisor_id`

func scanWorkReport(row pgx.Row) (*models.WorkReport, error) {
	var w models.WorkReport
	var area, equipment, supervisor nullRef
	err := row.Scan(
		&w.ID, &w.Code, &w.ReportDate, &w.Shift, &w.Category, &w.Problem, &w.Solution,
		&w.StartTime, &w.StopTime, &w.TotalTimeMinutes, &w.Status,
		&w.Scope, &w.WorkType, &w.Remark, &w.CreatedAt, &w.UpdatedAt,
		&area.ID, &area.Code, &area.Name,
		&equipment.ID, &equipment.Code, &equipment.Name,
		&supervisor.ID, &supervisor.Code, &supervisor.Name,
	)
	if err != nil {
		return nil, err
	}
	w.Area = area.area()
	w.Equipment = equipment.equipment()
	w.Supervisor = supervisor.user()
	w.Technicians = []models.UserRef{}
	return &w, nil
}

// ListWorkReports returns all work reports, newest report date first, with
// their technicians.
func (db *DB) ListWorkReports(ctx context.Context) ([]*models.WorkReport, error) {
	rows, err := db.Pool.Query(ctx, workReportSelect+` ORDER BY w.report_date DESC NULLS LAST, w.code`)
	if err != nil {
		return nil, fmt.Errorf("list work reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.WorkReport
	for rows.Next() {
		w, err := scanWorkReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work report: %w", err)
		}
		reports = append(reports, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate work reports: %w", err)
	}

	if err := db.loadTechnicians(ctx, reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// GetWorkReportByID returns a work report by ID.
func (db *DB) GetWorkReportByID(ctx context.Context, id uuid.UUID) (*models.WorkReport, error) {
	w, err := scanWorkReport(db.Pool.QueryRow(ctx, workReportSelect+` WHERE w.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, notFound("work report", id)
		}
		return nil, fmt.Errorf("get work report: %w", err)
	}
	if err := db.loadTechnicians(ctx, []*models.WorkReport{w}); err != nil {
		return nil, err
	}
	return w, nil
}

func (db *DB) loadTechnicians(ctx context.Context, reports []*models.WorkReport) error {
	if len(reports) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*models.WorkReport, len(reports))
	ids := make([]uuid.UUID, len(reports))
	for i, w := range reports {
		byID[w.ID] = w
		ids[i] = w.ID
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT t.work_report_id, u.id, u.name, u.employee_id
		FROM work_report_technicians t
		JOIN users u ON u.id = t.user_id
		WHERE t.work_report_id = ANY($1)
		ORDER BY t.work_report_id, t.position
	`, ids)
	if err != nil {
		return fmt.Errorf("list work report technicians: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var reportID uuid.UUID
		var ref models.UserRef
		if err := rows.Scan(&reportID, &ref.ID, &ref.Name, &ref.EmployeeID); err != nil {
			return fmt.Errorf("scan work report technician: %w", err)
		}
		if w, ok := byID[reportID]; ok {
			w.Technicians = append(w.Technicians, ref)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate work report technicians: %w", err)
	}
	return nil
}

// CreateWorkReport creates a new work report and its technician list.
func (db *DB) CreateWorkReport(ctx context.Context, w *models.WorkReport) error {
	w.ComputeTotalTime()
	return db.ExecTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO work_reports (
				id, code, report_date, shift, area_id, equipment_id, category,
				problem, solution, start_time, stop_time, total_time_minutes,
				supervisor_id, status, scope, work_type, remark, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7,
				$8, $9, $10, $11, $12,
				$13, $14, $15, $16, $17, $18, $19
			)
		`,
			w.ID, w.Code, w.ReportDate, w.Shift, areaID(w.Area), equipmentID(w.Equipment), w.Category,
			w.Problem, w.Solution, w.StartTime, w.StopTime, w.TotalTimeMinutes,
			userID(w.Supervisor), w.Status, w.Scope, w.WorkType, w.Remark, w.CreatedAt, w.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("create work report: %w", err)
		}
		return replaceTechnicians(ctx, tx, w)
	})
}

// UpdateWorkReport updates an existing work report and replaces its
// technician list.
func (db *DB) UpdateWorkReport(ctx context.Context, w *models.WorkReport) error {
	w.UpdatedAt = time.Now()
	w.ComputeTotalTime()
	return db.ExecTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE work_reports SET
				code = $2, report_date = $3, shift = $4, area_id = $5, equipment_id = $6,
				category = $7, problem = $8, solution = $9, start_time = $10,
				stop_time = $11, total_time_minutes = $12, supervisor_id = $13,
				status = $14, scope = $15, work_type = $16, remark = $17, updated_at = $18
			WHERE id = $1
		`,
			w.ID, w.Code, w.ReportDate, w.Shift, areaID(w.Area), equipmentID(w.Equipment),
			w.Category, w.Problem, w.Solution, w.StartTime,
			w.StopTime, w.TotalTimeMinutes, userID(w.Supervisor),
			w.Status, w.Scope, w.WorkType, w.Remark, w.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update work report: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return notFound("work report", w.ID)
		}
		return replaceTechnicians(ctx, tx, w)
	})
}

func replaceTechnicians(ctx context.Context, tx pgx.Tx, w *models.WorkReport) error {
	if _, err := tx.Exec(ctx, `DELETE FROM work_report_technicians WHERE work_report_id = $1`, w.ID); err != nil {
		return fmt.Errorf("clear work report technicians: %w", err)
	}
	for i, t := range w.Technicians {
		if _, err := tx.Exec(ctx, `
			INSERT INTO work_report_technicians (work_report_id, user_id, position)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, w.ID, t.ID, i); err != nil {
			return fmt.Errorf("add work report technician: %w", err)
		}
	}
	return nil
}

// DeleteWorkReport deletes a work report.
func (db *DB) DeleteWorkReport(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM work_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete work report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("work report", id)
	}
	return nil
}
