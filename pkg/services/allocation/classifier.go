package allocation

import (
	"context"
	"time"

	"github.com/de-tools/weekalloc/pkg/models/domain"
	"golang.org/x/sync/errgroup"
)

const weekEndDay = time.Saturday

// Classify assigns a date to its week. The week end is the first Saturday
// strictly after the date, so a Saturday belongs to the week ending seven days
// later. The week start is seven days before the week end.
func Classify(row domain.DateRow) domain.ClassifiedDate {
	date := truncateDay(row.Date)
	weekEnd := nextWeekEnd(date)
	weekStart := weekEnd.AddDate(0, 0, -7)

	return domain.ClassifiedDate{
		Date:       date,
		WeekStart:  weekStart,
		WeekEnd:    weekEnd,
		Month:      date.Month(),
		StartMonth: weekStart.Month(),
	}
}

func nextWeekEnd(date time.Time) time.Time {
	days := (int(weekEndDay) - int(date.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return date.AddDate(0, 0, days)
}

// ClassifyAll classifies rows using up to workers goroutines. Output order
// matches input order.
func ClassifyAll(ctx context.Context, rows []domain.DateRow, workers int) ([]domain.ClassifiedDate, error) {
	out := make([]domain.ClassifiedDate, len(rows))
	if workers <= 1 || len(rows) < workers {
		for i, row := range rows {
			out[i] = Classify(row)
		}
		return out, nil
	}

	chunk := (len(rows) + workers - 1) / workers
	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(rows); lo += chunk {
		hi := min(lo+chunk, len(rows))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				out[i] = Classify(rows[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
