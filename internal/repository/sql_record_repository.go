package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
)

// SQLRecordRepository stores the record document in a key/payload table.
// The queries are portable between postgres and sqlite.
type SQLRecordRepository struct {
	db  *sqlx.DB
	key string
}

type recordRow struct {
	Key       string    `db:"key"`
	Payload   string    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewSQLRecordRepository constructs the repository.
func NewSQLRecordRepository(db *sqlx.DB, key string) *SQLRecordRepository {
	return &SQLRecordRepository{db: db, key: keyOrDefault(key)}
}

// Migrate creates the backing table when missing.
func (r *SQLRecordRepository) Migrate(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS academic_records (
	key TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migrate academic_records: %w", err)
	}
	return nil
}

// Load returns the stored record, or nil when the key has no row.
func (r *SQLRecordRepository) Load(ctx context.Context) (*models.AcademicRecord, error) {
	query := r.db.Rebind(`SELECT key, payload, updated_at FROM academic_records WHERE key = ?`)
	var row recordRow
	if err := r.db.GetContext(ctx, &row, query, r.key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load academic record: %w", err)
	}
	return decodeRecord([]byte(row.Payload))
}

// Save upserts the record payload in a single statement.
func (r *SQLRecordRepository) Save(ctx context.Context, record *models.AcademicRecord) error {
	payload, err := encodeRecord(record)
	if err != nil {
		return err
	}
	row := recordRow{Key: r.key, Payload: string(payload), UpdatedAt: time.Now().UTC()}
	const query = `INSERT INTO academic_records (key, payload, updated_at)
VALUES (:key, :payload, :updated_at)
ON CONFLICT (key)
DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("save academic record: %w", err)
	}
	return nil
}

// Delete removes the stored record row.
func (r *SQLRecordRepository) Delete(ctx context.Context) error {
	query := r.db.Rebind(`DELETE FROM academic_records WHERE key = ?`)
	if _, err := r.db.ExecContext(ctx, query, r.key); err != nil {
		return fmt.Errorf("delete academic record: %w", err)
	}
	return nil
}
