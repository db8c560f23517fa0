package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

// RedisRecordRepository keeps the record document under a single redis key.
type RedisRecordRepository struct {
	client redis.Cmdable
	key    string
	logger *zap.Logger
}

// NewRedisRecordRepository constructs a redis-backed record store.
func NewRedisRecordRepository(client redis.Cmdable, key string, logger *zap.Logger) *RedisRecordRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisRecordRepository{client: client, key: keyOrDefault(key), logger: logger}
}

// Load returns the stored record, or nil when the key is absent.
func (r *RedisRecordRepository) Load(ctx context.Context) (*models.AcademicRecord, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return decodeRecord(raw)
}

// Save stores the record without expiry.
func (r *RedisRecordRepository) Save(ctx context.Context, record *models.AcademicRecord) error {
	payload, err := encodeRecord(record)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	r.logger.Debug("record stored", zap.String("key", r.key), zap.Int("bytes", len(payload)))
	return nil
}

// Delete removes the record key.
func (r *RedisRecordRepository) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", r.key, err)
	}
	return nil
}
