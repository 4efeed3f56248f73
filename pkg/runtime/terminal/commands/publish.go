package commands

import (
	"fmt"
	"io"

	"github.com/de-tools/weekalloc/pkg/services/config"
	"github.com/de-tools/weekalloc/pkg/services/sink"
	"github.com/de-tools/weekalloc/pkg/services/workflow"
	"github.com/de-tools/weekalloc/pkg/store/duckdb"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type PublishCmd struct {
	configPath string
	sinks      sink.Registry
	output     io.Writer
}

func NewPublishCmd(sinks sink.Registry, output io.Writer) *cobra.Command {
	pc := &PublishCmd{sinks: sinks, output: output}
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Recompute the allocation table and write it to the configured sink",
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.configPath, "config", "", "Path to the YAML configuration file")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func (pc *PublishCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	cfg, err := config.LoadConfig(pc.configPath)
	if err != nil {
		return err
	}

	dates, err := cfg.Range.DateRange()
	if err != nil {
		return err
	}

	sinks := pc.sinks
	if sinks == nil {
		sinks = sink.NewDefaultRegistry(sink.DuckDBOptions{
			Settings: duckdb.Settings{
				DbPath:  cfg.Storage.DuckDB.Path,
				Threads: cfg.Storage.DuckDB.Threads,
			},
		})
	}

	target, err := sinks.Create(ctx, cfg.Sink.Platform, cfg.Sink)
	if err != nil {
		return fmt.Errorf("failed to create sink: %w", err)
	}
	defer func() {
		if err := target.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close sink")
		}
	}()

	engine, release, err := newEngine(cfg.Engine.Aggregator, cfg.Engine.Workers)
	if err != nil {
		return err
	}
	defer release()

	runner, err := workflow.NewRunner(engine, target, cfg.Sink.Platform)
	if err != nil {
		return err
	}

	result, err := runner.Run(ctx, dates)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(pc.output, "Published %d rows for %s to %s\n",
		result.Rows, result.Range.String(), result.Platform)
	return err
}
