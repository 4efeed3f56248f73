package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/weekalloc/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	// When
	cfg, err := LoadConfig("")

	// Then
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01", cfg.Range.Start)
	assert.Equal(t, "2028-12-31", cfg.Range.End)
	assert.Equal(t, "memory", cfg.Engine.Aggregator)
	assert.Equal(t, 4, cfg.Engine.Workers)
	assert.Equal(t, "duckdb", cfg.Sink.Platform)
	assert.Equal(t, "week_month_allocations", cfg.Sink.Table)
	assert.Equal(t, "week_month_allocations.csv", cfg.Sink.S3.Key)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 2192, cfg.Server.MaxRangeDays)

	r, err := cfg.Range.DateRange()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDateRange(), r)
}

func TestLoadConfig_ValidYAML_PopulatesAllFields(t *testing.T) {
	// Given
	path := writeFile(t, "valid.yaml", `range:
  start: 2024-01-01
  end: "2024-06-30"
engine:
  workers: 2
  aggregator: duckdb
storage:
  duckdb:
    path: /tmp/alloc.db
sink:
  platform: databricks
  table: reporting.week_month_allocations
  databricks:
    host: "example.cloud.databricks.com"
    token: "tok"
    http_path: "/sql/1.0/warehouses/wh"
    catalog: "main"
    schema: "reporting"
server:
  host: 127.0.0.1
  port: "8080"
  shutdown_timeout: 5s
  max_range_days: 366
`)

	// When
	cfg, err := LoadConfig(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", cfg.Range.Start, "unquoted YAML dates stay strings")
	assert.Equal(t, "2024-06-30", cfg.Range.End)
	assert.Equal(t, 2, cfg.Engine.Workers)
	assert.Equal(t, "duckdb", cfg.Engine.Aggregator)
	assert.Equal(t, "/tmp/alloc.db", cfg.Storage.DuckDB.Path)
	assert.Equal(t, "databricks", cfg.Sink.Platform)
	assert.Equal(t, "reporting.week_month_allocations", cfg.Sink.Table)
	assert.Equal(t, DatabricksConfig{
		Host:     "example.cloud.databricks.com",
		Token:    "tok",
		HTTPPath: "/sql/1.0/warehouses/wh",
		Catalog:  "main",
		Schema:   "reporting",
	}, cfg.Sink.Databricks)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 366, cfg.Server.MaxRangeDays)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("WEEKALLOC_SINK_PLATFORM", "snowflake")
	t.Setenv("WEEKALLOC_SINK_SNOWFLAKE_ACCOUNT", "acme-xy12345")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "snowflake", cfg.Sink.Platform)
	assert.Equal(t, "acme-xy12345", cfg.Sink.Snowflake.Account)
}

func TestLoadConfig_InvalidYAML_ReturnsError(t *testing.T) {
	path := writeFile(t, "bad.yaml", "range: [start: : bad")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile_ReturnsError(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

const profilesINI = `[fy2024]
start = 2024-01-01
end = 2024-12-31

[broken]
start = 2024-01-01

[typo]
start = 2024-01-01
end = 2024-02-30
`

func TestProfileRegistry(t *testing.T) {
	path := writeFile(t, "ranges.ini", profilesINI)
	registry, err := NewProfileRegistry(path)
	require.NoError(t, err)

	t.Run("lists profiles with keys", func(t *testing.T) {
		profiles, err := registry.GetProfiles()
		require.NoError(t, err)
		assert.Equal(t, []string{"fy2024", "broken", "typo"}, profiles)
	})

	t.Run("resolves a range", func(t *testing.T) {
		r, err := registry.GetRange("fy2024")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), r.Start)
		assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), r.End)
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, err := registry.GetRange("nope")
		assert.ErrorIs(t, err, ErrProfileNotFound)
		assert.EqualError(t, err, "profile not found: nope")
	})

	t.Run("missing end", func(t *testing.T) {
		_, err := registry.GetRange("broken")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := registry.GetRange("typo")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestRangeConfig_DateRange(t *testing.T) {
	path := writeFile(t, "ranges.ini", profilesINI)

	r, err := RangeConfig{Start: "2023-01-01", End: "2023-01-31", Profile: "fy2024", ProfileFile: path}.DateRange()
	require.NoError(t, err)
	assert.Equal(t, 2024, r.Start.Year(), "profile wins over start/end")

	_, err = RangeConfig{Profile: "fy2024"}.DateRange()
	assert.Error(t, err)

	_, err = RangeConfig{Start: "2023-01-01", End: "not-a-date"}.DateRange()
	assert.Error(t, err)
}
