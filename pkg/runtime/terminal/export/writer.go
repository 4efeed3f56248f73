package export

import (
	"fmt"
	"io"

	"github.com/de-tools/weekalloc/pkg/models/domain"
)

const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

var Formats = []string{FormatTable, FormatCSV, FormatJSON}

type Writer interface {
	Write(r domain.DateRange, rows []domain.OutputRow) error
}

type WriterFunc func(r domain.DateRange, rows []domain.OutputRow) error

func (f WriterFunc) Write(r domain.DateRange, rows []domain.OutputRow) error {
	return f(r, rows)
}

func NewWriter(format string, w io.Writer) (Writer, error) {
	switch format {
	case FormatTable, "":
		return NewReporter(w), nil
	case FormatCSV:
		return WriterFunc(func(_ domain.DateRange, rows []domain.OutputRow) error {
			return WriteCSV(w, rows)
		}), nil
	case FormatJSON:
		return WriterFunc(func(r domain.DateRange, rows []domain.OutputRow) error {
			return WriteJSON(w, r, rows)
		}), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q, expected one of %v", format, Formats)
	}
}
