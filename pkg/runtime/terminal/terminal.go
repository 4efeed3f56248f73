package terminal

import (
	"io"
	"os"

	"github.com/de-tools/weekalloc/pkg/runtime/terminal/commands"
	"github.com/de-tools/weekalloc/pkg/services/sink"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	sinks   sink.Registry
	output  io.Writer
	logger  zerolog.Logger
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	// Sinks overrides the built-in sink registry.
	Sinks  sink.Registry
	Output io.Writer
	Logger *zerolog.Logger
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logger == nil {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)
		opts.Logger = &logger
	}

	cli := &CLI{
		sinks:  opts.Sinks,
		output: opts.Output,
		logger: *opts.Logger,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "weekalloc",
		Short:         "Week to month allocation tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		cmd.SetContext(cli.logger.WithContext(cmd.Context()))
	}

	cmd.SetOut(cli.output)
	cmd.AddCommand(commands.NewComputeCmd(cli.output))
	cmd.AddCommand(commands.NewPublishCmd(cli.sinks, cli.output))
	cmd.AddCommand(commands.NewProfilesCmd(cli.output))

	return cmd
}
