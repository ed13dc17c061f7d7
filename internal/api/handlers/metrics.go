package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// GaugeRefresher updates gauges that are read from the database on scrape.
type GaugeRefresher interface {
	Refresh(ctx context.Context) error
}

// MetricsHandler handles the Prometheus scrape endpoint.
type MetricsHandler struct {
	refresher GaugeRefresher
	exposer   http.Handler
	logger    zerolog.Logger
}

// NewMetricsHandler creates a new MetricsHandler serving gatherer. refresher
// may be nil.
func NewMetricsHandler(gatherer prometheus.Gatherer, refresher GaugeRefresher, logger zerolog.Logger) *MetricsHandler {
	return &MetricsHandler{
		refresher: refresher,
		exposer:   promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		logger:    logger.With().Str("component", "metrics_handler").Logger(),
	}
}

// RegisterPublicRoutes registers metrics routes that don't require authentication.
func (h *MetricsHandler) RegisterPublicRoutes(r *gin.Engine) {
	r.GET("/metrics", h.Metrics)
}

// Metrics returns metrics in Prometheus exposition format. A failed gauge
// refresh is logged and the last values are served.
// @Summary Prometheus metrics endpoint
// @Description Returns metrics in Prometheus exposition format for scraping
// @Tags Monitoring
// @Produce text/plain
// @Success 200 {string} string "Prometheus metrics"
// @Router /metrics [get]
func (h *MetricsHandler) Metrics(c *gin.Context) {
	if h.refresher != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		if err := h.refresher.Refresh(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("failed to refresh entity gauges")
		}
		cancel()
	}
	h.exposer.ServeHTTP(c.Writer, c.Request)
}
