package allocation

import (
	"iter"
	"time"

	"github.com/de-tools/weekalloc/pkg/models/domain"
)

// Enumerate yields every calendar date in r in ascending order. The returned
// sequence can be ranged over any number of times.
func Enumerate(r domain.DateRange) (iter.Seq[domain.DateRow], error) {
	start, end := truncateDay(r.Start), truncateDay(r.End)
	if end.Before(start) {
		return nil, &InvalidRangeError{Start: start, End: end}
	}

	return func(yield func(domain.DateRow) bool) {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if !yield(domain.DateRow{Date: d}) {
				return
			}
		}
	}, nil
}

// truncateDay drops the clock part while keeping the calendar date as written.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
