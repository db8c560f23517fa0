package cli

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/gpa-tracker-api/internal/repository"
	"github.com/noah-isme/gpa-tracker-api/internal/service"
	"github.com/noah-isme/gpa-tracker-api/pkg/config"
	"github.com/noah-isme/gpa-tracker-api/pkg/logger"
	"github.com/noah-isme/gpa-tracker-api/pkg/storage"
)

// App bundles the services a command needs.
type App struct {
	Records      *service.RecordService
	Universities *service.UniversityService
	Exports      *service.ExportService
	ExportFiles  *storage.LocalStorage
}

// Opener builds an App and returns a closer for its resources.
type Opener func(ctx context.Context, verbose bool) (*App, func() error, error)

// OpenFromConfig wires an App from environment configuration, using the same
// record store as the API server.
func OpenFromConfig(ctx context.Context, verbose bool) (*App, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.NewCLI(cfg, verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	store, closeStore, err := repository.OpenRecordStore(ctx, cfg, logr)
	if err != nil {
		return nil, nil, fmt.Errorf("open record store: %w", err)
	}
	exportFiles, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		_ = closeStore()
		return nil, nil, fmt.Errorf("init export storage: %w", err)
	}

	catalog := repository.NewUniversityRepository(nil)
	records := service.NewRecordService(store, catalog, validator.New(), nil, logr, service.RecordServiceConfig{
		StrictGrades: cfg.Grades.Strict,
	})
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exports := service.NewExportService(records, exportFiles, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		Retention: cfg.Exports.Retention,
	}, nil, logr, nil, nil)

	closer := func() error {
		_ = logr.Sync()
		return closeStore()
	}
	return &App{
		Records:      records,
		Universities: service.NewUniversityService(catalog),
		Exports:      exports,
		ExportFiles:  exportFiles,
	}, closer, nil
}
