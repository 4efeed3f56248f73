package domain

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// DefaultDateRange is the range the reporting pipeline allocates over unless told otherwise.
func DefaultDateRange() DateRange {
	return DateRange{
		Start: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2028, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(DateLayout), r.End.Format(DateLayout))
}

// ParseDateRange parses two YYYY-MM-DD dates. Ordering is not checked here.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	return DateRange{Start: s, End: e}, nil
}

type DateRow struct {
	Date time.Time
}

// ClassifiedDate is a date annotated with the week it belongs to.
// WeekEnd is always the first Saturday strictly after Date and WeekStart is
// seven days before it, so [WeekStart, WeekEnd] spans eight calendar days.
type ClassifiedDate struct {
	Date       time.Time
	WeekStart  time.Time
	WeekEnd    time.Time
	Month      time.Month
	StartMonth time.Month
}

// WeekAggregate is one (WeekStart, StartMonth) group of classified dates.
type WeekAggregate struct {
	WeekStart     time.Time
	WeekEnd       time.Time
	StartMonth    time.Month
	MonthCount    int
	SameMonthDays int
}

type OutputRow struct {
	WeekStart  time.Time
	WeekEnd    time.Time
	StartMonth time.Month
	Percentage Percentage
}

// Percentage is a share of a week in hundredths of a percent (10000 == 100.00).
type Percentage int64

const FullWeek Percentage = 10000

// PercentageOfWeek returns round(days / 7 * 100, 2), rounding half up.
func PercentageOfWeek(days int) Percentage {
	n := int64(days) * 10000
	if n >= 0 {
		return Percentage((2*n + 7) / 14)
	}
	return -Percentage((-2*n + 7) / 14)
}

func (p Percentage) Float64() float64 {
	return float64(p) / 100
}

func (p Percentage) String() string {
	sign := ""
	v := int64(p)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
