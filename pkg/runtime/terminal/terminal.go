package terminal

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/export"
	"github.com/williamsouzadelima/sophosfirewallauditoria/pkg/runtime/terminal/commands"
)

// CLI represents the command-line interface
type CLI struct {
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// ExecuteContext runs the CLI with the given context, which carries the
// process logger down into the pipeline.
func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sophosaudit",
		Short: "Sophos firewall security audit tool",
	}

	cmd.AddCommand(commands.NewRunCmd(cli.reporter))
	cmd.AddCommand(commands.NewRunsCmd())
	cmd.AddCommand(commands.NewReportCmd())

	return cmd
}
