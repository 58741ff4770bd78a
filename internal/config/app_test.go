package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAppConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"SENTINEL_RUNTIME_PATH", "SENTINEL_DB_PATH", "SENTINEL_ORG_ID", "SENTINEL_STORAGE", "SENTINEL_DB_DRIVER", "SENTINEL_SITUATION_MAX_TOKENS", "SENTINEL_ENABLE_TELEGRAM"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg := NewAppConfig(context.Background())

	assert.Equal(t, filepath.Join(home, ".sentinel"), cfg.GetRuntimePath())
	assert.Equal(t, filepath.Join(home, ".sentinel", "sentinel.db"), cfg.GetDatabasePath())
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, DriverCGO, cfg.DBDriver)
	assert.Equal(t, int64(1), cfg.GetOrgID())
	assert.Equal(t, 0, cfg.GetSituationMaxTokens())
	assert.False(t, cfg.IsTelegramSelected())
}

func TestNewAppConfig_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SENTINEL_RUNTIME_PATH", dir)
	t.Setenv("SENTINEL_DB_PATH", ":memory:")
	t.Setenv("SENTINEL_ORG_ID", "42")
	t.Setenv("SENTINEL_STORAGE", StorageMemory)
	t.Setenv("SENTINEL_SITUATION_MAX_TOKENS", "64")

	cfg := NewAppConfig(context.Background())

	assert.Equal(t, dir, cfg.GetRuntimePath())
	assert.Equal(t, ":memory:", cfg.GetDatabasePath())
	assert.Equal(t, int64(42), cfg.GetOrgID())
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 64, cfg.GetSituationMaxTokens())
}

func TestNewFetchConfig_Defaults(t *testing.T) {
	cfg := NewFetchConfig(context.Background())
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestGetRuntimePath_Absolute(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SENTINEL_RUNTIME_PATH", dir)
	assert.Equal(t, dir, GetRuntimePath())
}
