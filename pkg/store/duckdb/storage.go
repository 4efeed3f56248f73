package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const DefaultAllocationTable = "week_month_allocations"

const AllocationTableSchema = `
	CREATE TABLE IF NOT EXISTS week_month_allocations (
		week_start DATE NOT NULL,
		week_end DATE NOT NULL,
		start_month INTEGER NOT NULL,
		percentage DECIMAL(5, 2) NOT NULL,
		PRIMARY KEY (week_start, start_month)
	);
`

var bootQueries = []string{
	AllocationTableSchema,
}

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
