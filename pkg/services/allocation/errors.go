package allocation

import (
	"fmt"
	"time"

	"github.com/de-tools/weekalloc/pkg/models/domain"
)

// InvalidRangeError is returned when a range ends before it starts.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: end %s is before start %s",
		e.End.Format(domain.DateLayout), e.Start.Format(domain.DateLayout))
}

// InconsistentGroupError means a week group touched more than two months,
// which the week boundary arithmetic should never produce.
type InconsistentGroupError struct {
	WeekStart  time.Time
	StartMonth time.Month
	MonthCount int
}

func (e *InconsistentGroupError) Error() string {
	return fmt.Sprintf("week %s (start month %d) spans %d months, at most 2 expected",
		e.WeekStart.Format(domain.DateLayout), int(e.StartMonth), e.MonthCount)
}
