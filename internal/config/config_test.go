package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFrom(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.GracePeriod)
	assert.Equal(t, SettleDelay, cfg.SettleMode)
	assert.Equal(t, 60, cfg.CleanupDays)
	assert.Equal(t, filepath.Join(dir, "nasmover.log"), cfg.LogPath)
	assert.Equal(t, filepath.Join(dir, "nasmover.db"), cfg.DBPath)
	assert.False(t, cfg.StrictRemove)
	assert.Empty(t, cfg.IgnoreList)
	assert.Error(t, cfg.ValidatePaths())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	body := []byte(`watch_root: /watch
dest_root: /dest
grace_period: 2s
settle_mode: stable
stable_checks: 4
strict_remove: true
ignore_list: ["*.part"]
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), body, 0644))

	cfg, err := LoadFrom(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "/watch", cfg.WatchRoot)
	assert.Equal(t, "/dest", cfg.DestRoot)
	assert.Equal(t, 2*time.Second, cfg.GracePeriod)
	assert.Equal(t, SettleStable, cfg.SettleMode)
	assert.Equal(t, 4, cfg.StableChecks)
	assert.True(t, cfg.StrictRemove)
	assert.Equal(t, []string{"*.part"}, cfg.IgnoreList)
	assert.NoError(t, cfg.ValidatePaths())
}

func TestLoadFromRejectsUnknownSettleMode(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("settle_mode: poll\n"), 0644))

	_, err := LoadFrom(viper.New(), dir)
	assert.ErrorContains(t, err, "invalid settle_mode")
}

func TestLoadFromEnvOverride(t *testing.T) {
	t.Setenv("NASMOVER_DEST_ROOT", "/from-env")

	cfg, err := LoadFrom(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "/from-env", cfg.DestRoot)
}
