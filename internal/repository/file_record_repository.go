package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
	"github.com/noah-isme/gpa-tracker-api/pkg/storage"
)

// FileRecordRepository keeps the academic record as <key>.json on local disk.
type FileRecordRepository struct {
	files *storage.LocalStorage
	name  string
}

// NewFileRecordRepository constructs a file-backed record store.
func NewFileRecordRepository(files *storage.LocalStorage, key string) *FileRecordRepository {
	return &FileRecordRepository{files: files, name: keyOrDefault(key) + ".json"}
}

// Load returns the stored record, or nil when none has been saved yet.
func (r *FileRecordRepository) Load(ctx context.Context) (*models.AcademicRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := r.files.Read(r.name)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("load record file: %w", err)
	}
	return decodeRecord(payload)
}

// Save overwrites the stored record.
func (r *FileRecordRepository) Save(ctx context.Context, record *models.AcademicRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := encodeRecord(record)
	if err != nil {
		return err
	}
	if _, err := r.files.Save(r.name, payload); err != nil {
		return fmt.Errorf("save record file: %w", err)
	}
	return nil
}

// Delete removes the stored record if present.
func (r *FileRecordRepository) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.files.Delete(r.name)
}
