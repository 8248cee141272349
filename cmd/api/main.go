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
	"go.uber.org/zap"

	"github.com/BruksfildServices01/mindbridge-api/internal/audit"
	"github.com/BruksfildServices01/mindbridge-api/internal/config"
	dbpkg "github.com/BruksfildServices01/mindbridge-api/internal/db"
	"github.com/BruksfildServices01/mindbridge-api/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/mindbridge-api/internal/infra/repository"
	"github.com/BruksfildServices01/mindbridge-api/internal/logger"
	"github.com/BruksfildServices01/mindbridge-api/internal/middleware"
	"github.com/BruksfildServices01/mindbridge-api/internal/notify"
	"github.com/BruksfildServices01/mindbridge-api/internal/routes"
	"github.com/BruksfildServices01/mindbridge-api/internal/timezone"
	ucBooking "github.com/BruksfildServices01/mindbridge-api/internal/usecase/booking"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync() //nolint:errcheck
	zap.ReplaceGlobals(lg)

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	if err := timezone.SetDefault(cfg.DefaultTimezone); err != nil {
		return err
	}

	db, err := dbpkg.NewDB(cfg, lg)
	if err != nil {
		return err
	}

	// ======================================================
	// REDIS (optional: availability cache + realtime fan-out)
	// ======================================================
	deps := ucBooking.Deps{
		Repo: infraRepo.NewBookingGormRepository(db),
		Log:  lg.Named("booking"),
	}

	inbox := notify.NewStore(db)
	sinks := []notify.Sink{inbox}

	rdb, err := cache.NewRedisClient(cfg)
	if err != nil {
		lg.Warn("redis unavailable, running without cache and realtime notifications", zap.Error(err))
	} else {
		defer rdb.Close()
		deps.Cache = cache.NewAvailabilityCache(rdb, cfg.AvailabilityCacheTTL)
		sinks = append(sinks, notify.NewPublisher(rdb, cfg.NotificationChannel))
	}

	// ======================================================
	// ASYNC SIDE EFFECTS
	// ======================================================
	auditDispatcher := audit.NewDispatcher(audit.New(db), lg.Named("audit"))
	notifier := notify.NewDispatcher(lg.Named("notify"), 256, sinks...)
	deps.Audit = auditDispatcher
	deps.Notifier = notifier

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(lg))

	routes.RegisterRoutes(r, routes.Deps{
		DB:      db,
		Config:  cfg,
		Booking: deps,
		Inbox:   inbox,
		HealthFn: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Ping()
		},
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		lg.Info("server listening", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		lg.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("http shutdown", zap.Error(err))
	}
	if err := notifier.Close(shutdownCtx); err != nil {
		lg.Warn("notification queue not drained", zap.Error(err))
	}
	if err := auditDispatcher.Close(shutdownCtx); err != nil {
		lg.Warn("audit queue not drained", zap.Error(err))
	}

	return nil
}
