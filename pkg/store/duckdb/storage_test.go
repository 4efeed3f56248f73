package duckdb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_CreatesAllocationTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(Settings{
		DbPath: dbPath,
	})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		err := db.Close()
		if err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	weekStart := time.Date(2023, 1, 28, 0, 0, 0, 0, time.UTC)
	_, err = db.Exec(
		`INSERT INTO week_month_allocations (week_start, week_end, start_month, percentage) VALUES (?, ?, ?, ?)`,
		weekStart, weekStart.AddDate(0, 0, 7), 1, 57.14,
	)
	require.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM week_month_allocations WHERE start_month = ?", 1).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = db.Exec(
		`INSERT INTO week_month_allocations (week_start, week_end, start_month, percentage) VALUES (?, ?, ?, ?)`,
		weekStart, weekStart.AddDate(0, 0, 7), 1, 57.14,
	)
	assert.Error(t, err, "duplicate (week_start, start_month) must be rejected")
}
