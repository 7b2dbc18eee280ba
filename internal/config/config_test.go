package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, cfg.Depot.Lon, cfg.SplitLongitude())
	assert.Equal(t, 2*time.Minute, cfg.PlanLockTTL)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9090"
depot:
  lat: -7.25
  lon: 112.75
region_split_lon: 112.70
default_capacity: 480
plan_lock_ttl: 45s
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DEFAULT_CAPACITY", "500")
	t.Setenv("PLAN_RATE_BURST", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, Depot{Lat: -7.25, Lon: 112.75}, cfg.Depot)
	assert.Equal(t, 112.70, cfg.SplitLongitude())
	assert.Equal(t, 500.0, cfg.DefaultCapacity)
	assert.Equal(t, 45*time.Second, cfg.PlanLockTTL)
	assert.Equal(t, 10, cfg.PlanRateBurst)
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_FILE", "")

	t.Setenv("DEPOT_LAT", "north")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("DEPOT_LAT", "")
	t.Setenv("DEFAULT_CAPACITY", "-1")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_FILE", "does-not-exist.yaml")

	_, err := Load()
	require.Error(t, err)
}

func TestGet(t *testing.T) {
	t.Setenv("PLANNER_TEST_KEY", "value")
	assert.Equal(t, "value", Get("PLANNER_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", Get("PLANNER_TEST_MISSING", "fallback"))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
