package commands_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobx/statscollector/cmd/statscollector/commands"
	"github.com/gobx/statscollector/internal/dashboard"
	"github.com/gobx/statscollector/internal/runstats"
	"github.com/gobx/statscollector/internal/store"
)

func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("store:\n  path: %s\ndashboard:\n  output_dir: %s\n",
		filepath.Join(dir, "stats.db"), filepath.Join(dir, "out"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func seedStore(t *testing.T, dir string) {
	t.Helper()

	st, err := store.Open(filepath.Join(dir, "stats.db"))
	require.NoError(t, err)

	rec := &runstats.RunRecord{
		SchemaVersion: 1,
		RunID:         "0123456789abcdef",
		DeviceID:      strings.Repeat("cd", 32),
		Backend:       runstats.BackendMPS,
		OSVersion:     "macOS 15.2",
		AppVersion:    "v1",
		ElapsedSec:    30,
		TotalCount:    500,
		TotalRate:     120,
		CPURate:       60,
		GPURate:       60,
		CPUAvg:        0.4,
		GPUAvg:        0.6,
	}

	require.NoError(t, st.InsertRun(t.Context(), rec, time.Now().UTC()))
	require.NoError(t, st.Close())
}

func TestDashboardCommandWritesAssets(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir)
	seedStore(t, dir)

	cmd := commands.NewDashboardCommand()
	cmd.SetArgs([]string{"--config", configPath})

	require.NoError(t, cmd.Execute())

	outDir := filepath.Join(dir, "out")
	for _, name := range []string{
		dashboard.AssetRateCard,
		dashboard.AssetTimeSeries,
		dashboard.AssetVersionBars,
	} {
		info, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size())
	}
}

func TestDashboardCommandOutputFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir)
	seedStore(t, dir)

	override := filepath.Join(dir, "elsewhere")

	cmd := commands.NewDashboardCommand()
	cmd.SetArgs([]string{"--config", configPath, "--output", override})

	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(override, dashboard.AssetRateCard))
	assert.NoError(t, err)
}

func TestDashboardCommandEmptyStoreWritesPlaceholders(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir)

	cmd := commands.NewDashboardCommand()
	cmd.SetArgs([]string{"--config", configPath})

	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile(filepath.Join(dir, "out", dashboard.AssetRateCard))
	require.NoError(t, err)
	assert.Contains(t, string(content), runstats.MsgNoData)
}
