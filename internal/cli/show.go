package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/wireplan/internal/ir"
	"github.com/roach88/wireplan/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	Digest   bool
}

// StoreContents is the JSON payload of the show command.
type StoreContents struct {
	Mappings    []ir.MappingRecord `json:"mappings"`
	Annotations []ir.Annotation    `json:"annotations"`
	Digest      string             `json:"digest"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List the mappings in a store",
		Long: `List every mapping recorded in a store, in insertion order, with the
disconnect annotations of pair mappings.

With --digest only the mapping-set digest is printed; two stores with the
same mappings have the same digest regardless of insertion order.

Examples:
  wireplan show --db wireplan.db
  wireplan show --db wireplan.db --digest`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite store (required)")
	cmd.Flags().BoolVar(&opts.Digest, "digest", false, "print only the mapping-set digest")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	// Open would create a missing store; show never should.
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return fail(formatter, ExitCommandError, ErrCodeStore, fmt.Sprintf("store not found: %s", opts.Database), nil)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, "failed to open store", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	contents := StoreContents{}
	if contents.Digest, err = st.Digest(ctx); err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, "failed to read store", err)
	}
	if opts.Digest {
		if opts.Format == "json" {
			return formatter.Success(map[string]string{"digest": contents.Digest})
		}
		fmt.Fprintln(cmd.OutOrStdout(), contents.Digest)
		return nil
	}

	if contents.Mappings, err = st.Mappings(ctx); err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, "failed to read store", err)
	}
	if contents.Annotations, err = st.Annotations(ctx); err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, "failed to read store", err)
	}

	if opts.Format == "json" {
		return formatter.Success(contents)
	}

	w := cmd.OutOrStdout()
	via := make(map[string][]string, len(contents.Annotations))
	for _, a := range contents.Annotations {
		via[a.From+"\x00"+a.To] = a.Disconnects
	}
	fmt.Fprintf(w, "%d mapping(s)\n", len(contents.Mappings))
	for _, m := range contents.Mappings {
		line := fmt.Sprintf("%4d  %-8s %s -> %s", m.Seq, m.Kind, m.From, m.To)
		if d := via[m.From+"\x00"+m.To]; len(d) > 0 {
			line += "  via " + strings.Join(d, ", ")
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "Digest: %s\n", contents.Digest)
	return nil
}
