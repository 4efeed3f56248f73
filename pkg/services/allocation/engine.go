package allocation

import (
	"context"
	"fmt"
	"runtime"

	"github.com/de-tools/weekalloc/pkg/models/domain"
	"github.com/rs/zerolog"
)

// Calculator computes week/month allocations for a date range.
type Calculator interface {
	Compute(ctx context.Context, r domain.DateRange) ([]domain.OutputRow, error)
}

// Engine holds everything a single computation needs. It carries no state
// between Compute calls.
type Engine struct {
	aggregator Aggregator
	workers    int
}

type Option func(*Engine)

func WithAggregator(a Aggregator) Option {
	return func(e *Engine) {
		if a != nil {
			e.aggregator = a
		}
	}
}

// WithWorkers sets the classification parallelism. Values below 1 mean sequential.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		aggregator: NewMemoryAggregator(),
		workers:    runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Compute(ctx context.Context, r domain.DateRange) ([]domain.OutputRow, error) {
	logger := zerolog.Ctx(ctx)

	dates, err := Enumerate(r)
	if err != nil {
		return nil, err
	}

	var rows []domain.DateRow
	for row := range dates {
		rows = append(rows, row)
	}

	classified, err := ClassifyAll(ctx, rows, e.workers)
	if err != nil {
		return nil, fmt.Errorf("classify dates: %w", err)
	}

	aggregates, err := e.aggregator.Aggregate(ctx, classified)
	if err != nil {
		return nil, fmt.Errorf("aggregate weeks: %w", err)
	}

	out, err := Split(aggregates)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("range", r.String()).
		Int("dates", len(rows)).
		Int("weeks", len(aggregates)).
		Int("rows", len(out)).
		Msg("computed week allocations")

	return out, nil
}
