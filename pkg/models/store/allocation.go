package store

import "time"

// AllocationRecord is the persisted shape of one week/month allocation row.
type AllocationRecord struct {
	WeekStart  time.Time
	WeekEnd    time.Time
	StartMonth int
	Percentage float64
}
