package terminal

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/de-tools/weekalloc/pkg/services/allocation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	logger := zerolog.New(zerolog.NewTestWriter(t))
	cli := NewCLI(Options{Output: &out, Logger: &logger})
	cli.SetArgs(args)
	err := cli.Execute()
	return out.String(), err
}

func TestCompute_CSV(t *testing.T) {
	out, err := run(t, "compute", "--start", "2023-01-22", "--end", "2023-02-05", "--format", "csv")
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"week_start,week_end,start_month,percentage",
		"2023-01-21,2023-01-28,1,100.00",
		"2023-01-28,2023-02-04,1,57.14",
		"2023-02-01,2023-02-04,2,42.86",
		"2023-02-04,2023-02-11,2,100.00",
		"",
	}, "\n"), out)
}

func TestCompute_DuckDBAggregatorMatchesMemory(t *testing.T) {
	memory, err := run(t, "compute", "--start", "2023-11-01", "--end", "2024-02-29", "--format", "json")
	require.NoError(t, err)
	duck, err := run(t, "compute", "--start", "2023-11-01", "--end", "2024-02-29", "--format", "json", "--aggregator", "duckdb")
	require.NoError(t, err)
	assert.JSONEq(t, memory, duck)
}

func TestCompute_Errors(t *testing.T) {
	t.Run("end before start", func(t *testing.T) {
		_, err := run(t, "compute", "--start", "2024-01-02", "--end", "2024-01-01")
		var rangeErr *allocation.InvalidRangeError
		assert.True(t, errors.As(err, &rangeErr))
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := run(t, "compute", "--start", "01/02/2024")
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := run(t, "compute", "--format", "xml")
		assert.Error(t, err)
	})

	t.Run("unknown aggregator", func(t *testing.T) {
		_, err := run(t, "compute", "--aggregator", "spark")
		assert.Error(t, err)
	})
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProfiles(t *testing.T) {
	path := writeFile(t, "ranges.ini", "[q1]\nstart = 2024-01-01\nend = 2024-03-31\n\n[bad]\nstart = 2024-01-01\n")

	out, err := run(t, "profiles", "--profile-file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "q1\t2024-01-01\t2024-03-31\n")
	assert.Contains(t, out, "bad\tinvalid:")

	out, err = run(t, "compute", "--profile-file", path, "--profile", "q1", "--format", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "week_start,week_end,start_month,percentage\n2023-12-30,2024-01-06,12,100.00\n"))
}

func TestPublish_DuckDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "alloc.db")
	cfgPath := writeFile(t, "weekalloc.yaml", fmt.Sprintf(`range:
  start: "2023-01-01"
  end: "2023-03-31"
storage:
  duckdb:
    path: %q
sink:
  platform: duckdb
`, dbPath))

	out, err := run(t, "publish", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Published ")
	assert.Contains(t, out, "for 2023-01-01..2023-03-31 to duckdb")

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	// publishing again replaces rather than duplicates
	_, err = run(t, "publish", "--config", cfgPath)
	assert.NoError(t, err)
}

func TestPublish_UnknownPlatform(t *testing.T) {
	cfgPath := writeFile(t, "weekalloc.yaml", "sink:\n  platform: bigquery\n")

	_, err := run(t, "publish", "--config", cfgPath)
	assert.ErrorContains(t, err, `platform "bigquery" is not registered`)
}
