package commands

import (
	"fmt"
	"io"

	"github.com/de-tools/weekalloc/pkg/models/domain"
	"github.com/de-tools/weekalloc/pkg/runtime/terminal/export"
	"github.com/de-tools/weekalloc/pkg/services/config"
	"github.com/spf13/cobra"
)

type ComputeCmd struct {
	start       string
	end         string
	profile     string
	profileFile string
	format      string
	aggregator  string
	workers     int
	output      io.Writer
}

func NewComputeCmd(output io.Writer) *cobra.Command {
	cc := &ComputeCmd{output: output}
	def := domain.DefaultDateRange()
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute week/month allocations and print them",
		RunE:  cc.run,
	}

	cmd.Flags().StringVar(&cc.start, "start", def.Start.Format(domain.DateLayout), "First date of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&cc.end, "end", def.End.Format(domain.DateLayout), "Last date of the range, inclusive (YYYY-MM-DD)")
	cmd.Flags().StringVar(&cc.profile, "profile", "", "Named range from the profile file")
	cmd.Flags().StringVar(&cc.profileFile, "profile-file", "", "Path to an INI file with named ranges")
	cmd.Flags().StringVar(&cc.format, "format", export.FormatTable, fmt.Sprintf("Output format %v", export.Formats))
	cmd.Flags().StringVar(&cc.aggregator, "aggregator", AggregatorMemory, "Grouping engine (memory or duckdb)")
	cmd.Flags().IntVar(&cc.workers, "workers", 4, "Parallel classification workers")

	return cmd
}

func (cc *ComputeCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	dates, err := config.RangeConfig{
		Start:       cc.start,
		End:         cc.end,
		Profile:     cc.profile,
		ProfileFile: cc.profileFile,
	}.DateRange()
	if err != nil {
		return err
	}

	writer, err := export.NewWriter(cc.format, cc.output)
	if err != nil {
		return err
	}

	engine, release, err := newEngine(cc.aggregator, cc.workers)
	if err != nil {
		return err
	}
	defer release()

	rows, err := engine.Compute(ctx, dates)
	if err != nil {
		return fmt.Errorf("failed to compute allocations: %w", err)
	}

	return writer.Write(dates, rows)
}
