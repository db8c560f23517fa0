package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/gpa-tracker-api/api/swagger"
	"github.com/noah-isme/gpa-tracker-api/internal/handler"
	internalmiddleware "github.com/noah-isme/gpa-tracker-api/internal/middleware"
	"github.com/noah-isme/gpa-tracker-api/internal/repository"
	"github.com/noah-isme/gpa-tracker-api/internal/service"
	"github.com/noah-isme/gpa-tracker-api/pkg/config"
	"github.com/noah-isme/gpa-tracker-api/pkg/jobs"
	"github.com/noah-isme/gpa-tracker-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/gpa-tracker-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/gpa-tracker-api/pkg/middleware/requestid"
	"github.com/noah-isme/gpa-tracker-api/pkg/storage"
)

// @title GPA Tracker API
// @version 1.0.0
// @description Semester and cumulative GPA tracking over a single persisted academic record.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store, closeStore, err := repository.OpenRecordStore(ctx, cfg, logr)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer closeStore() //nolint:errcheck

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	catalog := repository.NewUniversityRepository(nil)
	records := service.NewRecordService(store, catalog, validator.New(), metrics, logr, service.RecordServiceConfig{
		StrictGrades: cfg.Grades.Strict,
	})
	universities := service.NewUniversityService(catalog)

	exportFiles, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return fmt.Errorf("init export storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exports := service.NewExportService(records, exportFiles, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		Retention: cfg.Exports.Retention,
	}, metrics, logr, nil, nil)

	cleanup := jobs.NewPeriodic("export-cleanup", func(context.Context) error {
		_, err := exports.Cleanup(0)
		return err
	}, jobs.PeriodicConfig{Interval: time.Hour, RunOnStart: true, Logger: logr})
	cleanup.Start(ctx)
	defer cleanup.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metrics != nil {
		r.Use(internalmiddleware.Metrics(metrics))
	}

	metricsHandler := handler.NewMetricsHandler(metrics, func(ctx context.Context) error {
		_, err := records.Load(ctx)
		return err
	})
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metrics != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix),
		handler.NewRecordHandler(records),
		handler.NewUniversityHandler(universities),
		handler.NewExportHandler(exports),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func registerRoutes(api *gin.RouterGroup, records *handler.RecordHandler, universities *handler.UniversityHandler, exports *handler.ExportHandler) {
	api.GET("/universities", universities.List)
	api.GET("/universities/provinces", universities.Provinces)

	record := api.Group("/record")
	record.GET("", records.Get)
	record.DELETE("", records.Reset)
	record.POST("/university", records.SelectUniversity)
	record.PUT("/profile", records.UpdateProfile)
	record.POST("/semesters", records.AddSemester)
	record.POST("/semesters/preview", records.PreviewSemester)
	record.PUT("/semesters/:id", records.EditSemester)
	record.DELETE("/semesters/:id", records.DeleteSemester)
	record.POST("/exports", exports.Create)

	api.GET("/exports/download", exports.Download)
}
