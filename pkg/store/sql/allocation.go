package sql

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/de-tools/weekalloc/pkg/models/store"
	"github.com/rs/zerolog"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*){0,2}$`)

// AllocationStore persists week/month allocation tables to any database/sql
// backend that understands `?` placeholders (DuckDB, Databricks SQL, Snowflake).
type AllocationStore interface {
	EnsureTable(ctx context.Context) error
	// Replace swaps every stored row whose week_start lies within the span of
	// records for records. Each run recomputes the table, so nothing is merged.
	Replace(ctx context.Context, records []store.AllocationRecord) error
	List(ctx context.Context) ([]store.AllocationRecord, error)
}

type Options struct {
	Table string
	// Transactional wraps Replace in a transaction when the caller has not
	// supplied one through WithTransaction. Databricks SQL has no
	// multi-statement transactions, so it runs with this disabled.
	Transactional bool
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type allocationStore struct {
	db   *sql.DB
	opts Options
}

func NewAllocationStore(db *sql.DB, opts Options) (AllocationStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if !tableNamePattern.MatchString(opts.Table) {
		return nil, fmt.Errorf("invalid table name %q", opts.Table)
	}
	return &allocationStore{
		db:   db,
		opts: opts,
	}, nil
}

func (s *allocationStore) EnsureTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			week_start DATE NOT NULL,
			week_end DATE NOT NULL,
			start_month INTEGER NOT NULL,
			percentage DECIMAL(5, 2) NOT NULL
		)`, s.opts.Table)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", s.opts.Table, err)
	}
	return nil
}

func (s *allocationStore) Replace(ctx context.Context, records []store.AllocationRecord) error {
	if len(records) == 0 {
		return nil
	}

	if tx := GetTransaction(ctx); tx != nil || !s.opts.Transactional {
		var ex execer = s.db
		if tx != nil {
			ex = tx
		}
		return s.replace(ctx, ex, records)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := s.replace(ctx, tx, records); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			zerolog.Ctx(ctx).Warn().Err(rbErr).Msg("failed to roll back allocation replace")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *allocationStore) replace(ctx context.Context, ex execer, records []store.AllocationRecord) error {
	from, to := span(records)

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE week_start >= ? AND week_start <= ?`, s.opts.Table)
	if _, err := ex.ExecContext(ctx, deleteQuery, from, to); err != nil {
		return fmt.Errorf("delete previous allocations: %w", err)
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (week_start, week_end, start_month, percentage)
		VALUES (?, ?, ?, ?)`, s.opts.Table)

	stmt, err := ex.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		_, err = stmt.ExecContext(ctx,
			record.WeekStart,
			record.WeekEnd,
			record.StartMonth,
			record.Percentage,
		)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	return nil
}

func (s *allocationStore) List(ctx context.Context) ([]store.AllocationRecord, error) {
	logger := zerolog.Ctx(ctx)

	query := fmt.Sprintf(`
		SELECT week_start, week_end, start_month, CAST(percentage AS DOUBLE)
		FROM %s
		ORDER BY week_start, start_month`, s.opts.Table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query allocations: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close allocation rows")
		}
	}(rows)

	records := make([]store.AllocationRecord, 0)
	for rows.Next() {
		var (
			weekStart, weekEnd time.Time
			startMonth         int
			percentage         float64
		)
		if err := rows.Scan(&weekStart, &weekEnd, &startMonth, &percentage); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		records = append(records, store.AllocationRecord{
			WeekStart:  weekStart,
			WeekEnd:    weekEnd,
			StartMonth: startMonth,
			Percentage: percentage,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate allocations: %w", err)
	}
	return records, nil
}

func span(records []store.AllocationRecord) (time.Time, time.Time) {
	from, to := records[0].WeekStart, records[0].WeekStart
	for _, r := range records[1:] {
		if r.WeekStart.Before(from) {
			from = r.WeekStart
		}
		if r.WeekStart.After(to) {
			to = r.WeekStart
		}
	}
	return from, to
}
