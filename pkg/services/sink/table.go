package sink

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/weekalloc/pkg/adapters"
	"github.com/de-tools/weekalloc/pkg/models/domain"
	"github.com/de-tools/weekalloc/pkg/services/config"
	"github.com/de-tools/weekalloc/pkg/store/client"
	"github.com/de-tools/weekalloc/pkg/store/duckdb"
	sqlstore "github.com/de-tools/weekalloc/pkg/store/sql"
)

const (
	PlatformDuckDB     = "duckdb"
	PlatformDatabricks = "databricks"
	PlatformSnowflake  = "snowflake"
	PlatformS3         = "s3"
)

// tableSink writes into a SQL table through an AllocationStore.
type tableSink struct {
	db    *sql.DB
	store sqlstore.AllocationStore
	// ownsDB is false when the connection is shared with other components.
	ownsDB bool
}

func newTableSink(db *sql.DB, table string, transactional, ownsDB bool) (Sink, error) {
	store, err := sqlstore.NewAllocationStore(db, sqlstore.Options{
		Table:         table,
		Transactional: transactional,
	})
	if err != nil {
		if ownsDB {
			db.Close()
		}
		return nil, err
	}
	return &tableSink{db: db, store: store, ownsDB: ownsDB}, nil
}

func (s *tableSink) Write(ctx context.Context, rows []domain.OutputRow) error {
	if err := s.store.EnsureTable(ctx); err != nil {
		return err
	}
	if err := s.store.Replace(ctx, adapters.MapDomainOutputRowsToStoreRecords(rows)); err != nil {
		return fmt.Errorf("replace allocations: %w", err)
	}
	return nil
}

func (s *tableSink) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

// DuckDBOptions configures the embedded sink. When DB is set the sink writes
// through it and leaves closing it to the caller.
type DuckDBOptions struct {
	DB       *sql.DB
	Settings duckdb.Settings
}

func NewDuckDBFactory(opts DuckDBOptions) Factory {
	return func(_ context.Context, cfg config.SinkConfig) (Sink, error) {
		if opts.DB != nil {
			return newTableSink(opts.DB, cfg.Table, true, false)
		}
		db, err := duckdb.NewDB(opts.Settings)
		if err != nil {
			return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
		}
		return newTableSink(db, cfg.Table, true, true)
	}
}

func DatabricksFactory(_ context.Context, cfg config.SinkConfig) (Sink, error) {
	db, err := client.NewDatabricksDB(client.DatabricksSettings{
		Host:       cfg.Databricks.Host,
		Token:      cfg.Databricks.Token,
		HTTPPath:   cfg.Databricks.HTTPPath,
		Catalog:    cfg.Databricks.Catalog,
		Schema:     cfg.Databricks.Schema,
		Profile:    cfg.Databricks.Profile,
		ConfigFile: cfg.Databricks.ConfigFile,
	})
	if err != nil {
		return nil, err
	}
	return newTableSink(db, cfg.Table, false, true)
}

func SnowflakeFactory(_ context.Context, cfg config.SinkConfig) (Sink, error) {
	db, err := client.NewSnowflakeDB(client.SnowflakeSettings{
		Account:   cfg.Snowflake.Account,
		User:      cfg.Snowflake.User,
		Password:  cfg.Snowflake.Password,
		Database:  cfg.Snowflake.Database,
		Schema:    cfg.Snowflake.Schema,
		Warehouse: cfg.Snowflake.Warehouse,
		Role:      cfg.Snowflake.Role,
	})
	if err != nil {
		return nil, err
	}
	return newTableSink(db, cfg.Table, true, true)
}
