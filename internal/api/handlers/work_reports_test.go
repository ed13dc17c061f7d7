package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kunkoder/Cor1/internal/db"
	"github.com/kunkoder/Cor1/internal/models"
	"github.com/rs/zerolog"
)

type mockWorkReportStore struct {
	mockCodes
	reports map[uuid.UUID]*models.WorkReport
	created *models.WorkReport
	updated *models.WorkReport
}

func newMockWorkReportStore(reports ...*models.WorkReport) *mockWorkReportStore {
	m := &mockWorkReportStore{
		mockCodes: mockCodes{codes: map[string]uuid.UUID{}},
		reports:   map[uuid.UUID]*models.WorkReport{},
	}
	for _, w := range reports {
		m.reports[w.ID] = w
		m.codes[strings.ToLower(w.Code)] = w.ID
	}
	return m
}

func (m *mockWorkReportStore) ListWorkReports(_ context.Context) ([]*models.WorkReport, error) {
	var out []*models.WorkReport
	for _, w := range m.reports {
		out = append(out, w)
	}
	return out, nil
}

func (m *mockWorkReportStore) GetWorkReportByID(_ context.Context, id uuid.UUID) (*models.WorkReport, error) {
	if w, ok := m.reports[id]; ok {
		copied := *w
		return &copied, nil
	}
	return nil, fmt.Errorf("work report %s: %w", id, db.ErrNotFound)
}

func (m *mockWorkReportStore) CreateWorkReport(_ context.Context, w *models.WorkReport) error {
	m.created = w
	return nil
}

func (m *mockWorkReportStore) UpdateWorkReport(_ context.Context, w *models.WorkReport) error {
	m.updated = w
	return nil
}

func (m *mockWorkReportStore) DeleteWorkReport(_ context.Context, id uuid.UUID) error {
	if _, ok := m.reports[id]; !ok {
		return fmt.Errorf("work report %s: %w", id, db.ErrNotFound)
	}
	return nil
}

func TestWorkReportsHandler_Create(t *testing.T) {
	engineer := testUser(models.RoleEngineer)
	start := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	tech1, tech2 := uuid.New(), uuid.New()

	t.Run("engineer can file a report", func(t *testing.T) {
		store := newMockWorkReportStore()
		r := setupTestRouter(NewWorkReportsHandler(store, zerolog.Nop()), engineer)
		w := doRequest(r, http.MethodPost, "/api/v1/work-reports", map[string]any{
			"code":           "WR-1",
			"report_date":    "2024-03-05",
			"shift":          "DAY",
			"start_time":     start,
			"stop_time":      start.Add(95 * time.Minute),
			"technician_ids": []string{tech1.String(), tech2.String(), tech1.String()},
		})
		assertStatus(t, w, http.StatusCreated)

		got := store.created
		if got.TotalTimeMinutes == nil || *got.TotalTimeMinutes != 95 {
			t.Errorf("expected 95 minutes, got %v", got.TotalTimeMinutes)
		}
		if len(got.Technicians) != 2 || got.Technicians[0].ID != tech1 || got.Technicians[1].ID != tech2 {
			t.Errorf("unexpected technicians %+v", got.Technicians)
		}
		if got.Status != models.WorkStatusOpen {
			t.Errorf("expected OPEN, got %s", got.Status)
		}
		if store.table != "work_reports" {
			t.Errorf("expected code check against work_reports, got %q", store.table)
		}
	})

	t.Run("stop before start", func(t *testing.T) {
		r := setupTestRouter(NewWorkReportsHandler(newMockWorkReportStore(), zerolog.Nop()), engineer)
		w := doRequest(r, http.MethodPost, "/api/v1/work-reports", map[string]any{
			"code":       "WR-2",
			"start_time": start,
			"stop_time":  start.Add(-time.Hour),
		})
		assertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("bad shift", func(t *testing.T) {
		r := setupTestRouter(NewWorkReportsHandler(newMockWorkReportStore(), zerolog.Nop()), engineer)
		w := doRequest(r, http.MethodPost, "/api/v1/work-reports", map[string]any{"code": "WR-3", "shift": "EVENING"})
		assertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("bad report date", func(t *testing.T) {
		r := setupTestRouter(NewWorkReportsHandler(newMockWorkReportStore(), zerolog.Nop()), engineer)
		w := doRequest(r, http.MethodPost, "/api/v1/work-reports", map[string]any{"code": "WR-4", "report_date": "05/03/2024"})
		assertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("viewer forbidden", func(t *testing.T) {
		r := setupTestRouter(NewWorkReportsHandler(newMockWorkReportStore(), zerolog.Nop()), testUser(models.RoleViewer))
		w := doRequest(r, http.MethodPost, "/api/v1/work-reports", map[string]any{"code": "WR-5"})
		assertStatus(t, w, http.StatusForbidden)
	})
}

func TestWorkReportsHandler_UpdateReplacesTechnicians(t *testing.T) {
	existing := models.NewWorkReport("WR-1")
	existing.Technicians = []models.UserRef{{ID: uuid.New()}, {ID: uuid.New()}}
	store := newMockWorkReportStore(existing)
	tech := uuid.New()

	r := setupTestRouter(NewWorkReportsHandler(store, zerolog.Nop()), testUser(models.RoleAdmin))
	w := doRequest(r, http.MethodPut, "/api/v1/work-reports/"+existing.ID.String(), map[string]any{
		"code":           "WR-1",
		"status":         "CLOSED",
		"technician_ids": []string{tech.String()},
	})
	assertStatus(t, w, http.StatusOK)

	if len(store.updated.Technicians) != 1 || store.updated.Technicians[0].ID != tech {
		t.Errorf("unexpected technicians %+v", store.updated.Technicians)
	}
	if store.updated.Status != models.WorkStatusClosed {
		t.Errorf("expected CLOSED, got %s", store.updated.Status)
	}
}

func TestWorkReportsHandler_GetAndDelete(t *testing.T) {
	existing := models.NewWorkReport("WR-1")
	r := setupTestRouter(NewWorkReportsHandler(newMockWorkReportStore(existing), zerolog.Nop()), testUser(models.RoleEngineer))

	assertStatus(t, doRequest(r, http.MethodGet, "/api/v1/work-reports/"+existing.ID.String(), nil), http.StatusOK)
	assertStatus(t, doRequest(r, http.MethodGet, "/api/v1/work-reports/"+uuid.NewString(), nil), http.StatusNotFound)
	assertStatus(t, doRequest(r, http.MethodDelete, "/api/v1/work-reports/"+existing.ID.String(), nil), http.StatusOK)
	assertStatus(t, doRequest(r, http.MethodDelete, "/api/v1/work-reports/"+uuid.NewString(), nil), http.StatusNotFound)
}
