package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
	"github.com/noah-isme/gpa-tracker-api/pkg/cache"
	"github.com/noah-isme/gpa-tracker-api/pkg/config"
	"github.com/noah-isme/gpa-tracker-api/pkg/database"
	"github.com/noah-isme/gpa-tracker-api/pkg/storage"
)

// RecordStore persists the single academic record document.
type RecordStore interface {
	Load(ctx context.Context) (*models.AcademicRecord, error)
	Save(ctx context.Context, record *models.AcademicRecord) error
	Delete(ctx context.Context) error
}

// OpenRecordStore builds the store selected by cfg.Store.Driver. The returned
// closer releases any connection the store holds.
func OpenRecordStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (RecordStore, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	noop := func() error { return nil }

	switch cfg.Store.Driver {
	case config.StoreDriverFile, "":
		files, err := storage.NewLocalStorage(cfg.Store.FileDir)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug("record store opened", zap.String("driver", config.StoreDriverFile), zap.String("dir", cfg.Store.FileDir))
		return NewFileRecordRepository(files, cfg.Store.Key), noop, nil

	case config.StoreDriverSQLite, config.StoreDriverPostgres:
		var (
			db  *sqlx.DB
			err error
		)
		if cfg.Store.Driver == config.StoreDriverSQLite {
			db, err = database.NewSQLite(ctx, cfg.SQLite)
		} else {
			db, err = database.NewPostgres(ctx, cfg.Database)
		}
		if err != nil {
			return nil, noop, err
		}
		repo := NewSQLRecordRepository(db, cfg.Store.Key)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		logger.Debug("record store opened", zap.String("driver", cfg.Store.Driver))
		return repo, db.Close, nil

	case config.StoreDriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug("record store opened", zap.String("driver", config.StoreDriverRedis))
		return NewRedisRecordRepository(client, cfg.Store.Key, logger), client.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
