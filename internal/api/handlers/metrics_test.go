package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kunkoder/Cor1/internal/metrics"
	"github.com/kunkoder/Cor1/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type mockSummaryStore struct {
	summary *models.DashboardSummary
	err     error
	calls   int
}

func (m *mockSummaryStore) GetDashboardSummary(_ context.Context) (*models.DashboardSummary, error) {
	m.calls++
	return m.summary, m.err
}

func setupMetricsRouter(h *MetricsHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterPublicRoutes(r)
	return r
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewPrometheusMetrics(reg)
	if err != nil {
		t.Fatalf("failed to register metrics: %v", err)
	}
	m.RecordBackup(string(models.BackupRunStatusCompleted))

	store := &mockSummaryStore{summary: &models.DashboardSummary{Users: 3, WorkReports: 12}}
	collector := metrics.NewCollector(store, m, zerolog.Nop())

	w := doRequest(setupMetricsRouter(NewMetricsHandler(reg, collector, zerolog.Nop())), http.MethodGet, "/metrics", nil)
	assertStatus(t, w, http.StatusOK)

	body := w.Body.String()
	for _, want := range []string{
		`cor1_backup_runs_total{status="completed"} 1`,
		`cor1_entities{kind="USER"} 3`,
		`cor1_entities{kind="WORK_REPORT"} 12`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in output:\n%s", want, body)
		}
	}
	if store.calls != 1 {
		t.Errorf("expected one refresh, got %d", store.calls)
	}
}

func TestMetricsHandler_RefreshFailureStillServes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewPrometheusMetrics(reg)
	if err != nil {
		t.Fatalf("failed to register metrics: %v", err)
	}
	m.SetLastSuccess(1709647642)

	collector := metrics.NewCollector(&mockSummaryStore{err: errors.New("db down")}, m, zerolog.Nop())
	w := doRequest(setupMetricsRouter(NewMetricsHandler(reg, collector, zerolog.Nop())), http.MethodGet, "/metrics", nil)
	assertStatus(t, w, http.StatusOK)

	if !strings.Contains(w.Body.String(), "cor1_backup_last_success_timestamp_seconds 1.709647642e+09") {
		t.Errorf("expected last success gauge in output:\n%s", w.Body.String())
	}
}
