package commands

import (
	"fmt"

	"github.com/de-tools/weekalloc/pkg/services/allocation"
	"github.com/de-tools/weekalloc/pkg/store/duckdb"
	"github.com/de-tools/weekalloc/pkg/store/duckdb/aggregate"
)

const (
	AggregatorMemory = "memory"
	AggregatorDuckDB = "duckdb"
)

// newEngine builds an engine for one command run. The returned func releases
// whatever the aggregator holds.
func newEngine(aggregator string, workers int) (*allocation.Engine, func(), error) {
	switch aggregator {
	case AggregatorMemory, "":
		return allocation.NewEngine(allocation.WithWorkers(workers)), func() {}, nil
	case AggregatorDuckDB:
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
		}
		agg, err := aggregate.NewAggregator(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		engine := allocation.NewEngine(allocation.WithWorkers(workers), allocation.WithAggregator(agg))
		return engine, func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported aggregator %q, expected %q or %q",
			aggregator, AggregatorMemory, AggregatorDuckDB)
	}
}
