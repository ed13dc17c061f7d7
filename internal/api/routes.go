// Package api provides the HTTP API for the Cor1 maintenance server.
package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kunkoder/Cor1/internal/api/handlers"
	"github.com/kunkoder/Cor1/internal/api/middleware"
	"github.com/kunkoder/Cor1/internal/auth"
	"github.com/kunkoder/Cor1/internal/backup"
	"github.com/kunkoder/Cor1/internal/config"
	"github.com/kunkoder/Cor1/internal/db"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/kunkoder/Cor1/docs/api"
)

// Config holds configuration for the API router.
type Config struct {
	// AllowedOrigins for CORS. Empty means all origins allowed outside production.
	AllowedOrigins []string
	Environment    config.Environment
	// RateLimitRequests is the number of requests allowed per period.
	RateLimitRequests int64
	RateLimitPeriod   time.Duration
	// Redis, when set, backs the rate limiter so limits hold across instances.
	Redis *redis.Client
}

// DefaultConfig returns a Config with sensible defaults for development.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins:    []string{},
		Environment:       config.EnvDevelopment,
		RateLimitRequests: 100,
		RateLimitPeriod:   time.Minute,
	}
}

// Deps are the services the router wires into handlers.
type Deps struct {
	DB        *db.DB
	Sessions  *auth.SessionStore
	Backup    *backup.Service
	Scheduler *backup.Scheduler
	// Gatherer serves /metrics; Refresher updates DB-backed gauges on scrape.
	Gatherer  prometheus.Gatherer
	Refresher handlers.GaugeRefresher
}

// Router wraps a Gin engine with configured middleware and routes.
type Router struct {
	Engine *gin.Engine
	logger zerolog.Logger
}

// NewRouter creates a new Router with the given dependencies.
func NewRouter(cfg Config, deps Deps, logger zerolog.Logger) (*Router, error) {
	if deps.DB == nil || deps.Sessions == nil || deps.Backup == nil {
		return nil, errors.New("router requires a database, session store and backup service")
	}

	r := &Router{
		Engine: gin.New(),
		logger: logger.With().Str("component", "router").Logger(),
	}

	r.Engine.Use(gin.Recovery())
	r.Engine.Use(middleware.RequestLogger(logger))
	r.Engine.Use(middleware.CORS(cfg.AllowedOrigins, cfg.Environment, logger))

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitPeriod, cfg.Redis)
	if err != nil {
		return nil, err
	}
	r.Engine.Use(rateLimiter)

	// Public endpoints
	handlers.NewHealthHandler(deps.DB, deps.DB, logger).RegisterPublicRoutes(r.Engine)

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	handlers.NewMetricsHandler(gatherer, deps.Refresher, logger).RegisterPublicRoutes(r.Engine)

	r.Engine.GET("/api/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL("/api/docs/doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	authGroup := r.Engine.Group("/auth")
	handlers.NewAuthHandler(deps.DB, deps.Sessions, logger).RegisterRoutes(authGroup)

	// API v1 routes (session required)
	apiV1 := r.Engine.Group("/api/v1")
	apiV1.Use(middleware.AuthMiddleware(deps.Sessions, logger))
	apiV1.Use(middleware.UserVerifyMiddleware(deps.DB, deps.Sessions, logger))

	handlers.NewDashboardHandler(deps.DB, logger).RegisterRoutes(apiV1)
	handlers.NewUsersHandler(deps.DB, logger).RegisterRoutes(apiV1)
	handlers.NewAreasHandler(deps.DB, logger).RegisterRoutes(apiV1)
	handlers.NewEquipmentHandler(deps.DB, logger).RegisterRoutes(apiV1)
	handlers.NewPartsHandler(deps.DB, logger).RegisterRoutes(apiV1)
	handlers.NewComplaintsHandler(deps.DB, logger).RegisterRoutes(apiV1)
	handlers.NewWorkReportsHandler(deps.DB, logger).RegisterRoutes(apiV1)

	var nextRun handlers.NextRunProvider
	if deps.Scheduler != nil {
		nextRun = deps.Scheduler
	}
	handlers.NewBackupHandler(deps.Backup, nextRun, logger).RegisterRoutes(apiV1)

	r.logger.Info().Msg("API router initialized")
	return r, nil
}
