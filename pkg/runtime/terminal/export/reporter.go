package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/weekalloc/pkg/models/domain"
)

type TableConfig struct {
	DateWidth       int
	MonthWidth      int
	PercentageWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		DateWidth:       10,
		MonthWidth:      11,
		PercentageWidth: 10,
	}
}

// Reporter prints allocation rows as an aligned text table.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

type tableView struct {
	Range string
	Rows  []domain.OutputRow
}

func (c *Reporter) Write(r domain.DateRange, rows []domain.OutputRow) error {
	funcMap := template.FuncMap{
		"formatRow": func(start, end, month, pct string) string {
			return fmt.Sprintf("| %-*s | %-*s | %*s | %*s |",
				c.config.DateWidth, start,
				c.config.DateWidth, end,
				c.config.MonthWidth, month,
				c.config.PercentageWidth, pct)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.DateWidth+2),
				strings.Repeat("-", c.config.DateWidth+2),
				strings.Repeat("-", c.config.MonthWidth+2),
				strings.Repeat("-", c.config.PercentageWidth+2))
		},
		"date": func(row domain.OutputRow, end bool) string {
			if end {
				return row.WeekEnd.Format(domain.DateLayout)
			}
			return row.WeekStart.Format(domain.DateLayout)
		},
		"month": func(row domain.OutputRow) string {
			return fmt.Sprintf("%d", int(row.StartMonth))
		},
	}

	tmpl := `Week/month allocation {{.Range}} ({{len .Rows}} rows)

{{separator}}
{{formatRow "week_start" "week_end" "start_month" "percentage"}}
{{separator}}
{{range .Rows}}{{formatRow (date . false) (date . true) (month .) .Percentage.String}}
{{end}}{{separator}}
`

	t, err := template.New("allocations").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, tableView{Range: r.String(), Rows: rows})
}
