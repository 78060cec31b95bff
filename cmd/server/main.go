package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/okr-tracker/internal/config"
	"github.com/yukikurage/okr-tracker/internal/database"
	"github.com/yukikurage/okr-tracker/internal/logger"
	"github.com/yukikurage/okr-tracker/internal/router"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel, !cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Log.Fatalw("invalid configuration", "error", err)
	}
	if cfg.UsesDefaultSessionSecret() {
		logger.Log.Warnw("SESSION_SECRET is not set, sessions are signed with the built-in development secret")
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Log.Fatalw("failed to connect to database", "error", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Log.Errorw("failed to close database", "error", err)
		}
	}()

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Log.Fatalw("failed to run migrations", "error", err)
	}

	// Setup session store
	store, err := router.NewSessionStore(cfg)
	if err != nil {
		logger.Log.Fatalw("failed to create session store", "store", cfg.SessionStore, "error", err)
	}

	r := router.New(router.Options{
		Config:       cfg,
		DB:           database.GetDB(),
		SessionStore: store,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Log.Infow("server starting", "addr", srv.Addr, "db_driver", cfg.DBDriver, "session_store", cfg.SessionStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalw("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutdown signal received, stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("server shutdown failed", "error", err)
	}
}
