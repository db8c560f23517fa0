package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gpa-tracker-api/pkg/config"
)

func TestOpenRecordStoreFileDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverFile, Key: "future_data", FileDir: t.TempDir()}}

	store, closer, err := OpenRecordStore(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer closer() //nolint:errcheck

	_, ok := store.(*FileRecordRepository)
	assert.True(t, ok)
}

func TestOpenRecordStoreSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Store:  config.StoreConfig{Driver: config.StoreDriverSQLite, Key: "future_data"},
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "gpa.db")},
	}

	store, closer, err := OpenRecordStore(ctx, cfg, nil)
	require.NoError(t, err)
	defer closer() //nolint:errcheck

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	record := sampleRecord()
	require.NoError(t, store.Save(ctx, record))
	record.Major = "Mathematics"
	require.NoError(t, store.Save(ctx, record))

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, record, loaded)

	require.NoError(t, store.Delete(ctx))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestOpenRecordStoreUnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "etcd"}}

	_, _, err := OpenRecordStore(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "unknown store driver")
}
