package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/cache"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/config"
	v1 "github.com/dmehra2102/prod-golang-projects/rvutrack/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/repository"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/service"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/rvutrack/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}

	if err := database.Migrate(db, log); err != nil {
		return err
	}

	mc := metrics.NewCollector("rvutrack")
	jwtManager := auth.NewJWTManager(cfg.JWT)

	rvuRepo := repository.NewRVUCodeRepository(db, log)
	visitRepo := repository.NewVisitRepository(db, log)
	favoriteRepo := repository.NewFavoriteRepository(db, log)
	analyticsRepo := repository.NewAnalyticsRepository(db, log, mc)
	userRepo := repository.NewUserRepository(db, log)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, log, mc)
	defer auditSvc.Shutdown()

	rvuCache := cache.New(rvuRepo, cfg.Cache.TTL, cfg.Cache.LoadTimeout, log, mc)

	authSvc := service.NewAuthService(userRepo, visitRepo, favoriteRepo, jwtManager, auditSvc, log)
	visitSvc := service.NewVisitService(visitRepo, auditSvc, log, mc)
	favoriteSvc := service.NewFavoriteService(favoriteRepo, auditSvc, log, mc)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, log, mc)

	handlers := v1.Handlers{
		Auth:      v1.NewAuthHandler(authSvc, log),
		RVU:       v1.NewRVUHandler(rvuCache, cfg.Cache.SearchLimit, log),
		Visit:     v1.NewVisitHandler(visitSvc, log),
		Favorite:  v1.NewFavoriteHandler(favoriteSvc, log),
		Analytics: v1.NewAnalyticsHandler(analyticsSvc, log),
	}

	router := v1.NewRouter(cfg, handlers, jwtManager, db, log, mc)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Warm the reference cache so the first search never pays the load cost.
	// A failure here is logged, not fatal; the cache retries on demand.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Cache.LoadTimeout)
		defer cancel()
		if err := rvuCache.ForceRefresh(ctx); err != nil {
			log.Warn("initial rvu cache warmup failed", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
