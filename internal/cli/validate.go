package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wireplan/internal/ir"
	"github.com/roach88/wireplan/internal/library"
)

// LibrarySummary describes a compiled device library.
type LibrarySummary struct {
	Strict bool                   `json:"strict"`
	Types  []ir.TypeRef           `json:"types"`
	Rules  []ir.CompatibilityRule `json:"rules"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <library-dir>",
		Short: "Validate a device library",
		Long: `Compile the CUE device library in a directory and list the channel
types and compatibility rules it declares.

Exit codes:
  0 - Library is valid
  1 - Library failed to compile`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	lib, err := library.Load(dir)
	if err != nil {
		var loadErr *library.LoadError
		if errors.As(err, &loadErr) {
			return fail(formatter, ExitFailure, loadErr.Code, loadErr.Message, err)
		}
		return fail(formatter, ExitFailure, ErrCodeGeneric, "library is invalid", err)
	}

	summary := LibrarySummary{Strict: lib.Strict, Types: lib.Types(), Rules: lib.Rules()}
	if opts.Format == "json" {
		return formatter.Success(summary)
	}

	w := cmd.OutOrStdout()
	mode := "lenient"
	if summary.Strict {
		mode = "strict"
	}
	fmt.Fprintf(w, "✓ Library valid (%s): %d type(s), %d rule(s)\n", mode, len(summary.Types), len(summary.Rules))
	if opts.Verbose {
		for _, r := range summary.Rules {
			fmt.Fprintf(w, "  %s -> %s\n", r.From, r.To)
		}
	}
	return nil
}
