package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chtemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found.
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/internet_cables_coordinates.json", cfg.Cables.Path)
	assert.InDelta(t, 0.05, cfg.Analysis.NearThresholdDeg, 0.001)
	assert.Equal(t, 30, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, 2, cfg.Fetch.MaxRetries)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "cablewatch.db", cfg.Store.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	chtemp(t)

	yaml := `
cables:
  path: /srv/routes/baltic.json
analysis:
  near_threshold_deg: 0.1
store:
  driver: postgres
  database_url: postgres://localhost/cablewatch
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(".", "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/routes/baltic.json", cfg.Cables.Path)
	assert.InDelta(t, 0.1, cfg.Analysis.NearThresholdDeg, 0.001)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset keys keep their defaults.
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestStoreConfigDSN(t *testing.T) {
	pg := StoreConfig{Driver: "postgres", Path: "ignored.db", DatabaseURL: "postgres://localhost/cw"}
	assert.Equal(t, "postgres://localhost/cw", pg.DSN())

	lite := StoreConfig{Driver: "sqlite", Path: "cablewatch.db"}
	assert.Equal(t, "cablewatch.db", lite.DSN())
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	require.Error(t, InitLogger(LogConfig{Level: "shouting", Format: "json"}))
}
