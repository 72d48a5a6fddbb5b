package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/specialistvlad/poolprop/internal/app"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Exit codes returned through ExitError.
const (
	CodeFailure = 1
	CodeUsage   = 2
)

// options collects the flag values shared by all subcommands.
type options struct {
	format      string
	output      string
	metricsFile string
	logLevel    string
	logFormat   string
}

// NewRootCommand builds the poolprop command tree. Reports are written to
// outW; logs, errors and usage text to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "poolprop",
		Short: "Infer worker pools for task graph layers",
		Long: `poolprop reads task graphs from HCL files, assigns every untagged layer the
worker pool it should run in based on its dependencies, and reports the result.

Layers are tagged with a pool either by a "pool-<name>" resource entry or by
being declared inside a pool "<name>" { ... } block.

Flag defaults can be set with POOLPROP_<FLAG> environment variables, for
example POOLPROP_LOG_LEVEL=debug.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)

	env := envDefaults()
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.output, "output", "o", envOr(env, "output", ""), "Write the report to this file instead of stdout.")
	flags.StringVar(&opts.metricsFile, "metrics-file", envOr(env, "metrics-file", ""), "Write Prometheus metrics in text format to this file.")
	flags.StringVar(&opts.logLevel, "log-level", envOr(env, "log-level", "info"), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.StringVar(&opts.logFormat, "log-format", envOr(env, "log-format", "text"), "Log output format. Options: 'text' or 'json'.")

	propagateCmd := &cobra.Command{
		Use:   "propagate PATH...",
		Short: "Propagate pools and print the assignment of every layer",
		Long: `Load every .hcl file under the given paths into one graph, propagate pools
and print the result.

Examples:
  # Colored table of layers and pools
  poolprop propagate ./graphs

  # Machine-readable report
  poolprop propagate ./graphs --format yaml

  # Rewrite the graph with inferred tags
  poolprop propagate ./graphs --format hcl -o tagged.hcl`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd.Context(), outW, errW, args, opts, (*app.App).Run)
		},
	}
	propagateCmd.Flags().StringVarP(&opts.format, "format", "f", envOr(env, "format", app.FormatTable), "Output format. Options: "+strings.Join(app.Formats(), ", ")+".")

	visualizeCmd := &cobra.Command{
		Use:   "visualize PATH...",
		Short: "Propagate pools and print the graph in Graphviz DOT format",
		Long: `Load each of the given paths as a graph of its own, merge them, propagate
pools over the union and print a Graphviz digraph. Each layer is labelled with
its pool and drawn in the pool's color. Layer ids must be unique across paths.

Examples:
  poolprop visualize ./etl ./training | dot -Tsvg > pools.svg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dotOpts := *opts
			dotOpts.format = app.FormatDOT
			return runApp(cmd.Context(), outW, errW, args, &dotOpts, (*app.App).Visualize)
		},
	}

	root.AddCommand(propagateCmd, visualizeCmd)
	return root
}

func runApp(ctx context.Context, outW, errW io.Writer, paths []string, opts *options, run func(*app.App, context.Context) error) error {
	cfg, err := app.NewConfig(app.Config{
		Paths:       paths,
		Format:      opts.format,
		OutputPath:  opts.output,
		MetricsFile: opts.metricsFile,
		LogFormat:   opts.logFormat,
		LogLevel:    opts.logLevel,
	})
	if err != nil {
		return &ExitError{Code: CodeUsage, Message: err.Error()}
	}

	a, err := app.NewApp(outW, errW, cfg)
	if err != nil {
		return &ExitError{Code: CodeFailure, Message: err.Error()}
	}
	if err := run(a, ctx); err != nil {
		return &ExitError{Code: CodeFailure, Message: err.Error()}
	}
	return nil
}

// Execute runs the command line in args. Every error it returns is an
// *ExitError: flag and argument problems carry CodeUsage, failures while
// running carry CodeFailure.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: CodeUsage, Message: err.Error()}
}
