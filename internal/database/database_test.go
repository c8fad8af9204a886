package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/config"
)

func TestOpenSQLite(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cases.Backend = "sqlite"
	cfg.Database.Name = filepath.Join(t.TempDir(), "cases.db")

	db, err := Open(cfg, zap.NewNop())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.Equal(t, cfg.Database.MaxOpenConns, sqlDB.Stats().MaxOpenConnections)
}

func TestOpenUnsupportedDriver(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cases.Backend = "oracle"

	_, err := Open(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
