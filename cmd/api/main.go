// Package main is the entry point for the VisaFlow API server.
// Its sole responsibility is wiring dependencies together and starting the
// server and the alert dispatcher. No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/visaflow/internal/config"
	"github.com/pkordes/visaflow/internal/handler"
	"github.com/pkordes/visaflow/internal/metrics"
	"github.com/pkordes/visaflow/internal/middleware"
	"github.com/pkordes/visaflow/internal/notify"
	"github.com/pkordes/visaflow/internal/repo"
	"github.com/pkordes/visaflow/internal/service"
	"github.com/pkordes/visaflow/migrations"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("database connection established")

	// goose drives database/sql; borrow a connection from the same pool.
	sqlDB := stdlib.OpenDBFromPool(pool)
	applied, err := migrations.Up(ctx, sqlDB)
	if cerr := sqlDB.Close(); cerr != nil {
		logger.Warn("closing migration connection", "error", cerr)
	}
	if err != nil {
		return err
	}
	logger.Info("migrations applied", "count", applied)

	// --- Services ---------------------------------------------------------
	userRepo := repo.NewUserRepo(pool)
	tripRepo := repo.NewTripRepo(pool)
	alertRepo := repo.NewAlertRepo(pool)

	requirements, err := service.NewRequirementService(nil)
	if err != nil {
		return err
	}

	srv := handler.NewServer(logger, handler.Services{
		Users:        service.NewUserService(userRepo),
		Trips:        service.NewTripService(tripRepo, userRepo),
		Requirements: requirements,
		Alerts:       service.NewAlertService(alertRepo, tripRepo, nil),
	})

	// --- Metrics ----------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID → RealIP → Logger → Recoverer → Metrics → CORS → MaxBody.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewMetricsHandler(m))
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	dispatcher := notify.NewDispatcher(
		alertRepo,
		notify.NewLogNotifier(logger),
		logger,
		cfg.AlertPollInterval,
		notify.WithRecorder(m),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return dispatcher.Run(gctx)
	})
	g.Go(func() error {
		// Give in-flight requests up to 15 seconds once a signal arrives
		// or either goroutine above fails.
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
