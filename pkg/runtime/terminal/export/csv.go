package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/de-tools/weekalloc/pkg/models/domain"
)

var Header = []string{"week_start", "week_end", "start_month", "percentage"}

// WriteCSV writes rows with a header, in the fixed column order.
func WriteCSV(w io.Writer, rows []domain.OutputRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.WeekStart.Format(domain.DateLayout),
			row.WeekEnd.Format(domain.DateLayout),
			strconv.Itoa(int(row.StartMonth)),
			row.Percentage.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
