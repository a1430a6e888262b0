package main

import (
	// Standard library
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	// External dependencies
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Internal packages
	"github.com/recapd/recapd/cmd/server/internal/api"
	"github.com/recapd/recapd/cmd/server/internal/catalog"
	"github.com/recapd/recapd/cmd/server/internal/config"
	"github.com/recapd/recapd/cmd/server/internal/detection"
	"github.com/recapd/recapd/cmd/server/internal/middleware"
	"github.com/recapd/recapd/cmd/server/internal/provider"
	"github.com/recapd/recapd/pkg/logger"
	"github.com/recapd/recapd/pkg/metrics"
)

// HealthCheckResponse is the liveness probe payload.
type HealthCheckResponse struct {
	Status    string         `json:"status"`
	Service   string         `json:"service"`
	Version   string         `json:"version"`
	Uptime    string         `json:"uptime"`
	Timestamp time.Time      `json:"timestamp"`
	Env       string         `json:"env"`
	Catalog   catalog.Counts `json:"catalog"`
}

func main() {
	logInstance, err := logger.Init(logger.Config{
		Level:       os.Getenv("LOG_LEVEL"),
		Environment: os.Getenv("ENV"),
		WithSource:  !strings.EqualFold(os.Getenv("ENV"), "prod"),
		File:        os.Getenv("LOG_FILE"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	appLogger := logInstance.With("component", "web-server")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := config.ValidateConfig(cfg); err != nil {
		appLogger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	appLogger.Info("configuration loaded", "env", cfg.Server.Env, "port", cfg.Server.Port)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Load the definition catalog. Individual malformed documents are
	// skipped inside Load; only a completely unreadable catalog is
	// fatal here.
	store := catalog.NewStore(cfg.Data.WorkspacesDir, cfg.Data.ModulesDir, logInstance.With("component", "catalog"))
	counts, err := store.Load()
	if err != nil {
		appLogger.Error("catalog load failed", "error", err)
		os.Exit(1)
	}
	metrics.SetCatalogEntities(counts.Workspaces, counts.Modules, counts.Combinations)
	appLogger.Info("catalog ready",
		"workspaces", counts.Workspaces,
		"modules", counts.Modules,
		"combinations", counts.Combinations,
	)

	// Initialize the classification engine
	engine := detection.NewEngine(store, cfg.Detection.InternalDomains, cfg.Detection.DefaultWorkspace,
		logInstance.With("component", "detection"))
	appLogger.Info("detection engine ready",
		"internal_domains", len(cfg.Detection.InternalDomains),
		"default_workspace", cfg.Detection.DefaultWorkspace,
	)

	// Initialize the generative-model provider. When it is unavailable
	// the detect endpoint still works; only analyze is disabled.
	var submitter provider.Submitter
	gem, err := provider.NewGemini(context.Background(), cfg.Provider.APIKey, provider.Options{
		Timeout:           time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
		MaxConcurrent:     int64(cfg.Provider.MaxConcurrent),
		LightweightModel:  cfg.Provider.LightweightModel,
		StandardModel:     cfg.Provider.StandardModel,
		LargeContextModel: cfg.Provider.LargeContextModel,
	})
	if err != nil {
		appLogger.Warn("provider unavailable, analyze endpoint disabled", "error", err)
	} else {
		submitter = gem
		appLogger.Info("provider ready", "timeout_s", cfg.Provider.TimeoutSeconds)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	// Health and metrics endpoints
	startTime := time.Now()
	r.GET("/health", healthCheckHandler(cfg, store, startTime))
	r.GET("/api/v1/health", healthCheckHandler(cfg, store, startTime)) // Alternative API path
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Classification endpoints
	r.POST("/api/v1/meetings/detect", api.HandleDetectMeeting(engine))
	if submitter != nil {
		r.POST("/api/v1/meetings/analyze", api.HandleAnalyzeMeeting(engine, submitter))
	}

	// Catalog inspection and administration
	r.GET("/api/v1/workspaces", api.HandleListWorkspaces(store))
	r.GET("/api/v1/modules", api.HandleListModules(store))
	r.POST("/api/v1/admin/reload", api.HandleReloadCatalog(store))

	// Create HTTP server with graceful shutdown
	serverAddr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("server starting", "addr", serverAddr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-quit
	appLogger.Info("shutdown signal received, shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	appLogger.Info("server shutdown complete")
}

// healthCheckHandler returns the liveness probe handler
func healthCheckHandler(cfg *config.Config, store *catalog.Store, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthCheckResponse{
			Status:    "healthy",
			Service:   "recapd",
			Version:   "1.0.0",
			Uptime:    time.Since(startTime).String(),
			Timestamp: time.Now(),
			Env:       cfg.Server.Env,
			Catalog:   store.Snapshot().Counts(),
		}
		c.JSON(http.StatusOK, response)
	}
}
