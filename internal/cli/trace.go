package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/wireplan/internal/tables"
	"github.com/roach88/wireplan/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Connectors string
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <from> <to>",
		Short: "Find disconnects between two connectors",
		Long: `Trace the connector graph from one connector to another and list the
disconnect connectors on the path.

Exit codes:
  0 - A path was found
  1 - No path connects the two connectors
  2 - Command error (connector table unreadable)

Examples:
  wireplan trace --connectors connectors.csv J1 J3
  wireplan trace --connectors connectors.csv J1 J3 --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Connectors, "connectors", "", "connector table CSV (required)")
	_ = cmd.MarkFlagRequired("connectors")

	return cmd
}

func runTrace(opts *TraceOptions, from, to string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	connectors, warnings, err := tables.LoadConnectors(opts.Connectors)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeInput, "failed to read connector table", err)
	}
	for _, w := range warnings {
		formatter.VerboseLog("skipped row: %s", w)
	}

	tracer := trace.New(connectors)
	for _, ref := range []string{from, to} {
		if _, ok := tracer.Connector(ref); !ok {
			return fail(formatter, ExitCommandError, ErrCodeInput, fmt.Sprintf("unknown connector %q", ref), nil)
		}
	}

	result := tracer.Trace(from, to)
	formatter.VerboseLog("visited nets: %s", strings.Join(result.VisitedNets, ", "))

	if !result.Found {
		return fail(formatter, ExitFailure, ErrCodeNoPath,
			fmt.Sprintf("no connector path from %s to %s", result.From, result.To), nil)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s -> %s\n", result.From, result.To)
	if len(result.Disconnects) == 0 {
		fmt.Fprintln(w, "No disconnects on path.")
		return nil
	}
	fmt.Fprintf(w, "Disconnects: %s\n", strings.Join(result.Disconnects, ", "))
	return nil
}
