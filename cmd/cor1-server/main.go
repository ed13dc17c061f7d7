// Package main is the entrypoint for the Cor1 maintenance server.
//
// @title           Cor1 Maintenance API
// @version         1.0
// @description     Maintenance reporting with scheduled spreadsheet backups.
//
// @BasePath  /
//
// @securityDefinitions.apikey SessionAuth
// @in cookie
// @name cor1_session
// @description Session cookie set by /auth/login
//
// @tag.name Auth
// @tag.description Employee login and session endpoints
// @tag.name Backup
// @tag.description Backup schedule, manual runs and run history
// @tag.name Monitoring
// @tag.description Health and Prometheus metrics
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/kunkoder/Cor1/internal/api"
	"github.com/kunkoder/Cor1/internal/auth"
	"github.com/kunkoder/Cor1/internal/backup"
	"github.com/kunkoder/Cor1/internal/config"
	"github.com/kunkoder/Cor1/internal/db"
	"github.com/kunkoder/Cor1/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadServerConfig()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("version", Version).Logger()
	if cfg.Environment != config.EnvProduction {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("Invalid configuration")
		return 1
	}

	logger.Info().
		Str("commit", Commit).
		Str("build_date", BuildDate).
		Str("env", string(cfg.Environment)).
		Str("timezone", cfg.Location.String()).
		Msg("Starting Cor1 server")

	database, err := db.New(ctx, db.DefaultConfig(cfg.DatabaseURL), logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to connect to database")
		return 1
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to run database migrations")
		return 1
	}

	sessionCfg := auth.DefaultSessionConfig([]byte(cfg.SessionSecret), cfg.IsProduction())
	sessionCfg.MaxAge = cfg.SessionMaxAge
	sessions, err := auth.NewSessionStore(sessionCfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize session store")
		return 1
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMetrics, err := metrics.NewPrometheusMetrics(registry)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to register metrics")
		return 1
	}

	var mirror backup.Mirror
	if s3 := cfg.BackupS3; s3.Bucket != "" {
		s3Mirror, err := backup.NewS3Mirror(ctx, backup.OffsiteConfig{
			Endpoint:        s3.Endpoint,
			Region:          s3.Region,
			Bucket:          s3.Bucket,
			Prefix:          s3.Prefix,
			AccessKeyID:     s3.AccessKeyID,
			SecretAccessKey: s3.SecretAccessKey,
			UseSSL:          s3.UseSSL,
		}, logger)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to initialize offsite mirror")
			return 1
		}
		mirror = s3Mirror
		logger.Info().Str("bucket", s3.Bucket).Msg("Offsite backup mirror enabled")
	}

	backupService := backup.NewService(database, mirror, promMetrics, logger)

	schedulerCfg := backup.DefaultSchedulerConfig()
	schedulerCfg.Location = cfg.Location
	backupScheduler := backup.NewScheduler(database, backupService, schedulerCfg, logger)
	backupService.OnScheduleSaved(func(ctx context.Context) {
		if err := backupScheduler.Reload(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to reload backup schedule")
		}
	})

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error().Err(err).Msg("Invalid REDIS_URL")
			return 1
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error().Err(err).Msg("Failed to connect to Redis")
			return 1
		}
	}

	routerCfg := api.Config{
		AllowedOrigins:    cfg.CORSOrigins,
		Environment:       cfg.Environment,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitPeriod:   cfg.RateLimitPeriod,
		Redis:             redisClient,
	}
	router, err := api.NewRouter(routerCfg, api.Deps{
		DB:        database,
		Sessions:  sessions,
		Backup:    backupService,
		Scheduler: backupScheduler,
		Gatherer:  registry,
		Refresher: metrics.NewCollector(database, promMetrics, logger),
	}, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize router")
		return 1
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Manual backups are written synchronously within the request.
		WriteTimeout: 5 * time.Minute,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if err := backupScheduler.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to start backup scheduler")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down server")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("HTTP server error")
		exitCode = 1
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown error")
		exitCode = 1
	}

	// Let a scheduled backup that is already writing finish.
	select {
	case <-backupScheduler.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn().Msg("Backup still running at shutdown")
	}

	logger.Info().Msg("Server stopped")
	return exitCode
}
