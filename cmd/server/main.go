package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/econgraph/internal/api"
	"github.com/vytor/econgraph/internal/config"
	"github.com/vytor/econgraph/internal/db"
	"github.com/vytor/econgraph/internal/deck"
	"github.com/vytor/econgraph/internal/logger"
	"github.com/vytor/econgraph/internal/repository/sqlite"
	"github.com/vytor/econgraph/internal/services"
	"github.com/vytor/econgraph/internal/status"
	"github.com/vytor/econgraph/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("EconGraph Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("deck_path=%s", cfg.DeckPath)
	log.Debug("asset_dir=%s", cfg.AssetDir)
	log.Debug("status_record=%s", cfg.StatusRecord)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("audit_worker_count=%d", cfg.AuditWorkerCount)
	log.Debug("audit_queue_size=%d", cfg.AuditQueueSize)
	log.Debug("session_ttl=%v", cfg.SessionTTL)
	log.Debug("session_sweep=%v", cfg.SessionSweep)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Load deck
	var d *deck.Deck
	if cfg.DeckPath != "" {
		d, err = deck.LoadFile(cfg.DeckPath)
	} else {
		d, err = deck.Default()
	}
	if err != nil {
		log.Error("failed to load deck: %v", err)
		os.Exit(1)
	}
	log.Info("deck loaded: %d graphs", d.Len())

	ctx, cancel := context.WithCancel(context.Background())

	// Hydrate statuses once; every session shares this store.
	store := status.NewStore(sqlite.NewRecordRepository(database.DB), cfg.StatusRecord)
	store.LoadAll(ctx)

	auditPool := worker.NewPool(cfg.AuditWorkerCount, cfg.AuditQueueSize)
	auditPool.Start(ctx)
	if err := auditPool.Submit(&deck.AuditJob{Deck: d, AssetDir: cfg.AssetDir}); err != nil {
		log.Warn("failed to queue deck audit: %v", err)
	}

	sessions := services.NewSessionService(d, store, cfg.SessionTTL)
	if err := sessions.StartSweeper(cfg.SessionSweep); err != nil {
		log.Error("failed to start session sweeper: %v", err)
		os.Exit(1)
	}

	srv := &api.Server{
		Sessions: sessions,
		DB:       database,
		AssetDir: cfg.AssetDir,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping session sweeper")
	sessions.StopSweeper()

	log.Debug("stopping audit pool")
	cancel()
	auditPool.Stop()

	log.Info("===========================================")
	log.Info("EconGraph Server Stopped")
	log.Info("===========================================")
}
