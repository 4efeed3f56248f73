package allocation

import (
	"sort"
	"time"

	"github.com/de-tools/weekalloc/pkg/models/domain"
)

const daysPerWeek = 7

// Split turns week aggregates into output rows. A week inside one month yields a
// single 100.00 row. A week touching two months yields the row for its starting
// month plus a partial row that starts on the first day of the week end's month.
func Split(aggregates []domain.WeekAggregate) ([]domain.OutputRow, error) {
	rows := make([]domain.OutputRow, 0, len(aggregates)+len(aggregates)/4)

	for _, agg := range aggregates {
		switch {
		case agg.MonthCount > 2:
			return nil, &InconsistentGroupError{
				WeekStart:  agg.WeekStart,
				StartMonth: agg.StartMonth,
				MonthCount: agg.MonthCount,
			}
		case agg.MonthCount <= 1:
			// [WeekStart, WeekEnd] covers eight days; a single-month week is
			// always a full week.
			rows = append(rows, domain.OutputRow{
				WeekStart:  agg.WeekStart,
				WeekEnd:    agg.WeekEnd,
				StartMonth: agg.StartMonth,
				Percentage: domain.PercentageOfWeek(daysPerWeek),
			})
		default:
			rows = append(rows, domain.OutputRow{
				WeekStart:  agg.WeekStart,
				WeekEnd:    agg.WeekEnd,
				StartMonth: agg.StartMonth,
				Percentage: domain.PercentageOfWeek(agg.SameMonthDays),
			})
			if partial, ok := partialWeek(agg); ok {
				rows = append(rows, partial)
			}
		}
	}

	sortRows(rows)
	return rows, nil
}

// partialWeek returns the part of a straddling week that falls in the month of
// its week end. A week end on the 1st leaves nothing and is dropped.
func partialWeek(agg domain.WeekAggregate) (domain.OutputRow, bool) {
	y, m, _ := agg.WeekEnd.Date()
	newStart := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	if !newStart.Before(agg.WeekEnd) {
		return domain.OutputRow{}, false
	}

	days := daysBetween(newStart, agg.WeekEnd)
	return domain.OutputRow{
		WeekStart:  newStart,
		WeekEnd:    agg.WeekEnd,
		StartMonth: newStart.Month(),
		Percentage: domain.PercentageOfWeek(days),
	}, true
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func sortRows(rows []domain.OutputRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].WeekStart.Equal(rows[j].WeekStart) {
			return rows[i].WeekStart.Before(rows[j].WeekStart)
		}
		return rows[i].StartMonth < rows[j].StartMonth
	})
}
