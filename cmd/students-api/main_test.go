package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-service/internal/config"
	"github.com/aanand-mishra/students-service/internal/storage/memory"
	"github.com/aanand-mishra/students-service/internal/storage/sqlite"
)

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()

	store, err := openStorage(ctx, &config.Config{Storage: config.Storage{Driver: config.DriverMemory}})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)

	store, err = openStorage(ctx, &config.Config{
		StoragePath: filepath.Join(t.TempDir(), "students.db"),
		Storage:     config.Storage{Driver: config.DriverSQLite},
	})
	require.NoError(t, err)
	assert.IsType(t, &sqlite.SQLite{}, store)
	require.NoError(t, store.Close())

	_, err = openStorage(ctx, &config.Config{Storage: config.Storage{Driver: "mongo"}})
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	ctx := context.Background()

	assert.False(t, setupLogger("prod").Enabled(ctx, slog.LevelDebug))
	assert.True(t, setupLogger("prod").Enabled(ctx, slog.LevelInfo))
	assert.True(t, setupLogger("staging").Enabled(ctx, slog.LevelDebug))
	assert.True(t, setupLogger("dev").Enabled(ctx, slog.LevelDebug))
}
