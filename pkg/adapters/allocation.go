package adapters

import (
	"encoding/json"
	"time"

	"github.com/de-tools/weekalloc/pkg/models/api"
	"github.com/de-tools/weekalloc/pkg/models/domain"
	"github.com/de-tools/weekalloc/pkg/models/store"
)

func MapDomainOutputRowToStoreRecord(row domain.OutputRow) store.AllocationRecord {
	return store.AllocationRecord{
		WeekStart:  row.WeekStart,
		WeekEnd:    row.WeekEnd,
		StartMonth: int(row.StartMonth),
		Percentage: row.Percentage.Float64(),
	}
}

func MapDomainOutputRowsToStoreRecords(rows []domain.OutputRow) []store.AllocationRecord {
	records := make([]store.AllocationRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, MapDomainOutputRowToStoreRecord(row))
	}
	return records
}

// MapStoreRecordToDomainOutputRow restores integer hundredths from the stored decimal.
func MapStoreRecordToDomainOutputRow(record store.AllocationRecord) domain.OutputRow {
	hundredths := record.Percentage * 100
	if hundredths >= 0 {
		hundredths += 0.5
	} else {
		hundredths -= 0.5
	}
	return domain.OutputRow{
		WeekStart:  record.WeekStart.UTC(),
		WeekEnd:    record.WeekEnd.UTC(),
		StartMonth: time.Month(record.StartMonth),
		Percentage: domain.Percentage(int64(hundredths)),
	}
}

func MapDomainOutputRowToAPIAllocation(row domain.OutputRow) api.Allocation {
	return api.Allocation{
		WeekStart:  row.WeekStart.Format(domain.DateLayout),
		WeekEnd:    row.WeekEnd.Format(domain.DateLayout),
		StartMonth: int(row.StartMonth),
		Percentage: json.Number(row.Percentage.String()),
	}
}

func MapDomainOutputRowsToAPIAllocations(rows []domain.OutputRow) []api.Allocation {
	allocations := make([]api.Allocation, 0, len(rows))
	for _, row := range rows {
		allocations = append(allocations, MapDomainOutputRowToAPIAllocation(row))
	}
	return allocations
}
