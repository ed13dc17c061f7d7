package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kunkoder/Cor1/internal/models"
	"github.com/rs/zerolog"
)

// Store defines the data access needed to refresh entity gauges.
type Store interface {
	GetDashboardSummary(ctx context.Context) (*models.DashboardSummary, error)
}

// Collector refreshes entity count gauges from the database, at most once
// per cache period.
type Collector struct {
	store   Store
	metrics *PrometheusMetrics
	logger  zerolog.Logger

	mu            sync.Mutex
	lastCollected time.Time
	cacheExpiry   time.Duration
}

// NewCollector creates a new Collector.
func NewCollector(store Store, m *PrometheusMetrics, logger zerolog.Logger) *Collector {
	return &Collector{
		store:       store,
		metrics:     m,
		logger:      logger.With().Str("component", "metrics_collector").Logger(),
		cacheExpiry: 15 * time.Second,
	}
}

// Refresh updates the entity gauges unless they were refreshed recently.
func (c *Collector) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastCollected.IsZero() && time.Since(c.lastCollected) < c.cacheExpiry {
		return nil
	}

	summary, err := c.store.GetDashboardSummary(ctx)
	if err != nil {
		return fmt.Errorf("get dashboard summary: %w", err)
	}

	counts := map[models.BackupKind]int64{
		models.BackupKindUser:       summary.Users,
		models.BackupKindArea:       summary.Areas,
		models.BackupKindEquipment:  summary.Equipment,
		models.BackupKindPart:       summary.Parts,
		models.BackupKindComplaint:  summary.Complaints,
		models.BackupKindWorkReport: summary.WorkReports,
	}
	for kind, n := range counts {
		c.metrics.SetEntityCount(string(kind), n)
	}

	c.lastCollected = time.Now()
	c.logger.Debug().Msg("entity gauges refreshed")
	return nil
}
