package ioconfig_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gnames/agrietl/internal/ioconfig"
	"github.com/gnames/agrietl/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `database:
  host: db.example.org
  port: 6543
extract:
  year_start: 2010
  request_delay: 250ms
  timeout: 10s
load:
  table: analytics.metrics
run:
  retries: 0
  retry_delay: 30s
alert:
  receivers:
    - ops@example.org
log:
  level: debug
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, testYAML)

	res, err := ioconfig.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file", res.Source)
	assert.Equal(t, path, res.SourcePath)

	cfg := res.Config
	assert.Equal(t, "db.example.org", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User, "default is kept")
	assert.Equal(t, 2010, cfg.Extract.YearStart)
	assert.Equal(t, 2022, cfg.Extract.YearEnd)
	assert.Equal(t, 250*time.Millisecond, cfg.Extract.RequestDelay)
	assert.Equal(t, 10*time.Second, cfg.Extract.Timeout)
	assert.Equal(t, "analytics.metrics", cfg.Load.Table)
	assert.Equal(t, 0, cfg.Run.Retries)
	assert.Equal(t, 30*time.Second, cfg.Run.RetryDelay)
	assert.Equal(t, []string{"ops@example.org"}, cfg.Alert.Receivers)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingRetriesKeepsDefault(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")

	res, err := ioconfig.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.New().Run.Retries, res.Config.Run.Retries)
	assert.Equal(t, "warn", res.Config.Log.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, testYAML)
	t.Setenv("AGRIETL_DATABASE_HOST", "env.example.org")
	t.Setenv("AGRIETL_EXTRACT_YEAR_END", "2015")
	t.Setenv("AGRIETL_RUN_RETRY_DELAY", "5s")

	res, err := ioconfig.Load(path)
	require.NoError(t, err)

	cfg := res.Config
	assert.Equal(t, "env.example.org", cfg.Database.Host)
	assert.Equal(t, 2010, cfg.Extract.YearStart)
	assert.Equal(t, 2015, cfg.Extract.YearEnd)
	assert.Equal(t, 5*time.Second, cfg.Run.RetryDelay)
}

func TestLoadNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	res, err := ioconfig.Load(path)
	require.NoError(t, err)
	assert.Empty(t, res.SourcePath)
	assert.Equal(t, config.New().Load.Table, res.Config.Load.Table)

	t.Setenv("AGRIETL_LOAD_TABLE", "other_metrics")
	res, err = ioconfig.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "defaults+env", res.Source)
	assert.Equal(t, "other_metrics", res.Config.Load.Table)
}

func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, "database: [unclosed\n")

	_, err := ioconfig.Load(path)
	assert.Error(t, err)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "AGRIETL_DATABASE_SSL_MODE", ioconfig.EnvName("database.ssl_mode"))
	assert.Contains(t, ioconfig.EnvKeys(), "alert.receivers")
}
