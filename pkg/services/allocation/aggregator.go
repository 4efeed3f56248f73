package allocation

import (
	"context"
	"sort"
	"time"

	"github.com/de-tools/weekalloc/pkg/models/domain"
)

// Aggregator groups classified dates by (WeekStart, StartMonth). Implementations
// may push the grouping down to an execution engine.
type Aggregator interface {
	Aggregate(ctx context.Context, dates []domain.ClassifiedDate) ([]domain.WeekAggregate, error)
}

type groupKey struct {
	weekStart  time.Time
	startMonth time.Month
}

type groupState struct {
	weekEnd       time.Time
	months        map[time.Month]struct{}
	sameMonthDays int
}

type memoryAggregator struct{}

// NewMemoryAggregator returns the in-process aggregator.
func NewMemoryAggregator() Aggregator {
	return memoryAggregator{}
}

func (memoryAggregator) Aggregate(_ context.Context, dates []domain.ClassifiedDate) ([]domain.WeekAggregate, error) {
	groups := make(map[groupKey]*groupState)
	for _, d := range dates {
		key := groupKey{weekStart: d.WeekStart, startMonth: d.StartMonth}
		g, ok := groups[key]
		if !ok {
			g = &groupState{months: make(map[time.Month]struct{}, 2)}
			groups[key] = g
		}
		if d.WeekEnd.After(g.weekEnd) {
			g.weekEnd = d.WeekEnd
		}
		g.months[d.Month] = struct{}{}
		if d.Month == d.StartMonth {
			g.sameMonthDays++
		}
	}

	aggregates := make([]domain.WeekAggregate, 0, len(groups))
	for key, g := range groups {
		aggregates = append(aggregates, domain.WeekAggregate{
			WeekStart:     key.weekStart,
			WeekEnd:       g.weekEnd,
			StartMonth:    key.startMonth,
			MonthCount:    len(g.months),
			SameMonthDays: g.sameMonthDays,
		})
	}
	sortAggregates(aggregates)
	return aggregates, nil
}

func sortAggregates(aggregates []domain.WeekAggregate) {
	sort.Slice(aggregates, func(i, j int) bool {
		if !aggregates[i].WeekStart.Equal(aggregates[j].WeekStart) {
			return aggregates[i].WeekStart.Before(aggregates[j].WeekStart)
		}
		return aggregates[i].StartMonth < aggregates[j].StartMonth
	})
}
