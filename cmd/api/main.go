package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peluqueria-canina/internal/adapters/backup"
	"peluqueria-canina/internal/adapters/storage/sqlstore"
	"peluqueria-canina/internal/config"
	"peluqueria-canina/internal/platform/logger"
	"peluqueria-canina/internal/platform/metrics"
	"peluqueria-canina/internal/router"
)

// @title       Peluquería Canina API
// @version     1.0
// @description Turnos, clientes y caja de una peluquería canina.
// @BasePath    /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("invalid config", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
		File:   cfg.LogFile,
	})
	if zl, ok := log.(*logger.ZapLogger); ok {
		defer func() { _ = zl.Sync() }()
	}

	db, err := sqlstore.Open(sqlstore.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	if err != nil {
		log.Error("open database", map[string]any{"error": err.Error(), "driver": cfg.DBDriver})
		os.Exit(1)
	}

	app, err := router.NewRouter(router.Options{
		Config:  cfg,
		DB:      db,
		Logger:  log,
		Metrics: metrics.New(),
	})
	if err != nil {
		log.Error("build router", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	created, err := app.Users.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		log.Error("seed admin", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	if created {
		log.Warn("admin user created with configured password; change it", map[string]any{"username": cfg.AdminUsername})
	}

	if cfg.BackupSchedule != "" {
		c, err := backup.Schedule(cfg.BackupSchedule, app.Exporter, log)
		if err != nil {
			log.Error("backup schedule", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer c.Stop()
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.Handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      35 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("starting server", map[string]any{"addr": cfg.Addr(), "driver": cfg.DBDriver})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	log.Info("server stopped", nil)
}
