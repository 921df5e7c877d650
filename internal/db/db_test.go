package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/econgraph/internal/db"
)

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "econgraph.db")
	ctx := context.Background()

	first, err := db.Open(path)
	require.NoError(t, err)
	_, err = first.ExecContext(ctx, `INSERT INTO records (name, value) VALUES (?, ?)`, "graphCardStatuses", []byte(`{}`))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := db.Open(path)
	require.NoError(t, err)
	defer second.Close()

	var applied int
	require.NoError(t, second.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)

	var value string
	require.NoError(t, second.QueryRowContext(ctx, `SELECT value FROM records WHERE name = ?`, "graphCardStatuses").Scan(&value))
	assert.Equal(t, `{}`, value)

	assert.NoError(t, second.Ping(ctx))
}

func TestOpen_InMemoryHasRecordsTable(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	defer database.Close()

	var version string
	require.NoError(t, database.QueryRowContext(ctx, `SELECT version FROM schema_migrations`).Scan(&version))
	assert.Equal(t, "0001_init.sql", version)

	_, err = database.ExecContext(ctx, `INSERT INTO records (name, value) VALUES (?, ?)`, "x", []byte(`{}`))
	assert.NoError(t, err)
}
