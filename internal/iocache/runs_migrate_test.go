package iocache

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/pathways/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateRuns_NoneBackend(t *testing.T) {
	_, err := MigrateRuns(schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported for NoneBackend")
}

func TestMigrateRuns_UnsupportedBackend(t *testing.T) {
	_, err := MigrateRuns("oracle", "", -1)
	assert.Error(t, err)
}

func TestMigrateRuns_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	msg, err := MigrateRuns(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.Contains(t, msg, "to version 2")
	assert.FileExists(t, dbPath)

	msg, err = MigrateRuns(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.Contains(t, msg, "No migration needed")

	msg, err = MigrateRuns(schema.SQLiteBackend, dbPath, 1)
	require.NoError(t, err)
	assert.Contains(t, msg, "from version 2 to version 1")

	msg, err = MigrateRuns(schema.SQLiteBackend, dbPath, 0)
	require.NoError(t, err)
	assert.Contains(t, msg, "to version 0")

	_, err = MigrateRuns(schema.SQLiteBackend, dbPath, 2)
	require.NoError(t, err)
}

func TestMigrateRuns_StoreUsesMigratedTables(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")
	_, err := MigrateRuns(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)

	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalRuns)
}
