package aggregate

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/weekalloc/pkg/models/domain"
	"github.com/de-tools/weekalloc/pkg/services/allocation"
	"github.com/rs/zerolog"
)

const createClassified = `
	CREATE OR REPLACE TEMP TABLE classified_dates (
		calendar_date DATE NOT NULL,
		week_start DATE NOT NULL,
		week_end DATE NOT NULL,
		calendar_month INTEGER NOT NULL,
		start_month INTEGER NOT NULL
	)
`

const insertClassified = `
	INSERT INTO classified_dates (calendar_date, week_start, week_end, calendar_month, start_month)
	VALUES (?, ?, ?, ?, ?)
`

const groupWeeks = `
	SELECT
		week_start,
		MAX(week_end) AS week_end,
		start_month,
		COUNT(DISTINCT calendar_month) AS month_count,
		COUNT(CASE WHEN calendar_month = start_month THEN 1 END) AS same_month_days
	FROM classified_dates
	GROUP BY week_start, start_month
	ORDER BY week_start, start_month
`

type sqlAggregator struct {
	db *sql.DB
}

// NewAggregator returns an allocation.Aggregator that runs the weekly grouping
// inside DuckDB. The staging table lives only for the duration of one call.
func NewAggregator(db *sql.DB) (allocation.Aggregator, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &sqlAggregator{db: db}, nil
}

func (a *sqlAggregator) Aggregate(ctx context.Context, dates []domain.ClassifiedDate) ([]domain.WeekAggregate, error) {
	logger := zerolog.Ctx(ctx)

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			logger.Warn().Err(err).Msg("failed to roll back aggregation transaction")
		}
	}()

	if _, err := tx.ExecContext(ctx, createClassified); err != nil {
		return nil, fmt.Errorf("create staging table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertClassified)
	if err != nil {
		return nil, fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, d := range dates {
		_, err := stmt.ExecContext(ctx, d.Date, d.WeekStart, d.WeekEnd, int(d.Month), int(d.StartMonth))
		if err != nil {
			return nil, fmt.Errorf("insert classified date: %w", err)
		}
	}

	rows, err := tx.QueryContext(ctx, groupWeeks)
	if err != nil {
		return nil, fmt.Errorf("group weeks: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close aggregation rows")
		}
	}(rows)

	aggregates := make([]domain.WeekAggregate, 0)
	for rows.Next() {
		var (
			weekStart, weekEnd                    time.Time
			startMonth, monthCount, sameMonthDays int
		)
		if err := rows.Scan(&weekStart, &weekEnd, &startMonth, &monthCount, &sameMonthDays); err != nil {
			return nil, fmt.Errorf("scan week aggregate: %w", err)
		}
		aggregates = append(aggregates, domain.WeekAggregate{
			WeekStart:     weekStart.UTC(),
			WeekEnd:       weekEnd.UTC(),
			StartMonth:    time.Month(startMonth),
			MonthCount:    monthCount,
			SameMonthDays: sameMonthDays,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate week aggregates: %w", err)
	}

	return aggregates, nil
}
