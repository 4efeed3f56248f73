package export

import (
	"encoding/json"
	"io"

	"github.com/de-tools/weekalloc/pkg/adapters"
	"github.com/de-tools/weekalloc/pkg/models/api"
	"github.com/de-tools/weekalloc/pkg/models/domain"
)

func WriteJSON(w io.Writer, r domain.DateRange, rows []domain.OutputRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(api.AllocationsResponse{
		Start:       r.Start.Format(domain.DateLayout),
		End:         r.End.Format(domain.DateLayout),
		Allocations: adapters.MapDomainOutputRowsToAPIAllocations(rows),
	})
}
