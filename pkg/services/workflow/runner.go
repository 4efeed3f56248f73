package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/weekalloc/pkg/models/domain"
	"github.com/de-tools/weekalloc/pkg/services/allocation"
	"github.com/de-tools/weekalloc/pkg/services/sink"
	"github.com/rs/zerolog"
)

// Runner recomputes the allocation table for a range and hands it to a sink.
type Runner struct {
	calculator allocation.Calculator
	sink       sink.Sink
	platform   string
	now        func() time.Time
}

type RunResult struct {
	Range    domain.DateRange
	Platform string
	Rows     int
	Duration time.Duration
}

func NewRunner(calculator allocation.Calculator, s sink.Sink, platform string) (*Runner, error) {
	if calculator == nil {
		return nil, fmt.Errorf("calculator is nil")
	}
	if s == nil {
		return nil, fmt.Errorf("sink is nil")
	}
	return &Runner{
		calculator: calculator,
		sink:       s,
		platform:   platform,
		now:        time.Now,
	}, nil
}

// Run either publishes the whole table or nothing; the sink is not called
// when the computation fails.
func (r *Runner) Run(ctx context.Context, dates domain.DateRange) (*RunResult, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("platform", r.platform).
		Str("range", dates.String()).
		Logger()
	started := r.now()

	rows, err := r.calculator.Compute(ctx, dates)
	if err != nil {
		logger.Error().Err(err).Msg("failed to compute allocations")
		return nil, fmt.Errorf("compute allocations: %w", err)
	}

	if err := r.sink.Write(ctx, rows); err != nil {
		logger.Error().Err(err).Msg("failed to publish allocations")
		return nil, fmt.Errorf("publish allocations to %s: %w", r.platform, err)
	}

	result := &RunResult{
		Range:    dates,
		Platform: r.platform,
		Rows:     len(rows),
		Duration: r.now().Sub(started),
	}
	logger.Info().
		Int("rows", result.Rows).
		Dur("duration", result.Duration).
		Msg("published allocations")
	return result, nil
}
