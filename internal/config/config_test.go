package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobx/statscollector/internal/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err) // explicit path must exist

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, config.DefaultStorePath, cfg.Store.Path)
	assert.Equal(t, config.DefaultDashboardLoadLimit, cfg.Dashboard.LoadLimit)
	assert.Equal(t, config.DefaultDashboardOutputDir, cfg.Dashboard.OutputDir)
	assert.Equal(t, config.DefaultLogLevel, cfg.Log.Level)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9090"
store:
  path: /tmp/test-stats.db
dashboard:
  load_limit: 100
log:
  level: debug
  json: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "/tmp/test-stats.db", cfg.Store.Path)
	assert.Equal(t, 100, cfg.Dashboard.LoadLimit)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.True(t, cfg.Log.JSON)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"empty store path", "store:\n  path: \"\"\n"},
		{"zero load limit", "dashboard:\n  load_limit: 0\n"},
		{"unknown log level", "log:\n  level: shout\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))

			_, err := config.LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := &config.Config{
		Store:     config.StoreConfig{Path: "stats.db"},
		Dashboard: config.DashboardConfig{LoadLimit: 10},
		Log:       config.LogConfig{Level: "info"},
	}

	assert.NoError(t, cfg.Validate())
}
