package db

import (
	"context"
	"fmt"

	"github.com/kunkoder/Cor1/internal/models"
)

// GetDashboardSummary returns the headline counts for the overview page.
func (db *DB) GetDashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	var s models.DashboardSummary
	err := db.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM areas),
			(SELECT COUNT(*) FROM equipment),
			(SELECT COUNT(*) FROM parts),
			(SELECT COUNT(*) FROM complaints),
			(SELECT COUNT(*) FROM complaints WHERE status = 'OPEN'),
			(SELECT COUNT(*) FROM complaints WHERE status = 'PENDING'),
			(SELECT COUNT(*) FROM work_reports),
			(SELECT COUNT(*) FROM work_reports WHERE status = 'OPEN'),
			(SELECT COUNT(*) FROM work_reports WHERE status = 'PENDING')
	`).Scan(
		&s.Users, &s.Areas, &s.Equipment, &s.Parts,
		&s.Complaints, &s.OpenComplaints, &s.PendingComplaints,
		&s.WorkReports, &s.OpenWorkReports, &s.PendingWorkReports,
	)
	if err != nil {
		return nil, fmt.Errorf("get dashboard summary: %w", err)
	}
	return &s, nil
}
