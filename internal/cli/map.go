package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/wireplan/internal/compat"
	"github.com/roach88/wireplan/internal/config"
	"github.com/roach88/wireplan/internal/engine"
	"github.com/roach88/wireplan/internal/library"
	"github.com/roach88/wireplan/internal/store"
	"github.com/roach88/wireplan/internal/tables"
)

// MapOptions holds flags for the map command.
type MapOptions struct {
	*RootOptions
	Config     string
	Database   string
	Library    string
	Channels   string
	Connectors string

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// NewMapCommand creates the map command.
func NewMapCommand(rootOpts *RootOptions) *cobra.Command {
	return newMapCommand(&MapOptions{RootOptions: rootOpts})
}

func newMapCommand(opts *MapOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Map channels into the store",
		Long: `Run the mapping engine over a channel table and record new mappings.

Inputs come from a YAML run config; flags override the config's values.
Channels already mapped in the store keep their partners, so running
twice over unchanged inputs adds nothing.

Exit codes:
  0 - Run completed (unmapped channels are reported, not errors)
  2 - Bad input, unusable store, or a consistency violation

Examples:
  wireplan map --config run.yaml
  wireplan map --channels channels.csv --db wireplan.db
  wireplan map --config run.yaml --connectors connectors.csv --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "path to YAML run config")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite store (overrides config)")
	cmd.Flags().StringVar(&opts.Library, "library", "", "CUE device library directory (overrides config)")
	cmd.Flags().StringVar(&opts.Channels, "channels", "", "channel table CSV (overrides config)")
	cmd.Flags().StringVar(&opts.Connectors, "connectors", "", "connector table CSV (overrides config)")

	return cmd
}

func runMap(opts *MapOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := setupLogging(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := mapConfig(opts)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeConfig, "invalid run config", err)
	}

	var lib *compat.Library
	if cfg.Library != "" {
		logger.Info("loading library", "dir", cfg.Library)
		lib, err = library.Load(cfg.Library)
		if err != nil {
			var loadErr *library.LoadError
			if errors.As(err, &loadErr) {
				return fail(formatter, ExitCommandError, loadErr.Code, "failed to load library", err)
			}
			return fail(formatter, ExitCommandError, ErrCodeGeneric, "failed to load library", err)
		}
	}

	var in engine.Input
	channels, warnings, err := tables.LoadChannels(cfg.Channels)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeInput, "failed to read channel table", err)
	}
	in.Channels = channels
	in.Warnings = warnings

	if cfg.Connectors != "" {
		connectors, warnings, err := tables.LoadConnectors(cfg.Connectors)
		if err != nil {
			return fail(formatter, ExitCommandError, ErrCodeInput, "failed to read connector table", err)
		}
		in.Connectors = connectors
		in.Warnings = append(in.Warnings, warnings...)
	}

	logger.Info("opening store", "path", cfg.Store)
	st, err := store.Open(cfg.Store)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeStore, "failed to open store", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing store", "error", closeErr)
		}
	}()

	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = engine.UUIDv7Generator{}
	}
	eng := engine.New(st, lib,
		engine.WithJunctions(cfg.EngineJunctions()...),
		engine.WithRunIDGenerator(runIDs),
		engine.WithLogger(logger),
	)

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := eng.Run(ctx, in)
	if err != nil {
		if errors.Is(err, store.ErrConsistency) {
			return fail(formatter, ExitCommandError, ErrCodeConsistency, "mapping store consistency violation", err)
		}
		return fail(formatter, ExitCommandError, ErrCodeStore, "mapping run failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}
	writeReportText(cmd.OutOrStdout(), report)
	return nil
}

// mapConfig loads the run config, if any, and applies flag overrides.
func mapConfig(opts *MapOptions) (*config.Config, error) {
	cfg := &config.Config{Store: config.DefaultStore}
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.Database != "" {
		cfg.Store = opts.Database
	}
	if opts.Library != "" {
		cfg.Library = opts.Library
	}
	if opts.Channels != "" {
		cfg.Channels = opts.Channels
	}
	if opts.Connectors != "" {
		cfg.Connectors = opts.Connectors
	}
	if cfg.Channels == "" {
		return nil, fmt.Errorf("no channel table: set channels in the config or pass --channels")
	}
	return cfg, cfg.Validate()
}

func writeReportText(w io.Writer, r *engine.Report) {
	fmt.Fprintf(w, "Run %s: %d net(s), %d channel(s)\n", r.RunID, r.Nets, r.Channels)
	fmt.Fprintf(w, "New mappings: %d\n", len(r.NewMappings))
	for _, m := range r.NewMappings {
		fmt.Fprintf(w, "  + %s -> %s (%s, net %s)\n", m.From, m.To, m.Kind, m.Net)
	}
	if len(r.Unmapped) > 0 {
		fmt.Fprintf(w, "Unmapped: %d\n", len(r.Unmapped))
		for _, k := range r.Unmapped {
			fmt.Fprintf(w, "  ? %s\n", k)
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "Warnings: %d\n", len(r.Warnings))
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  ! %s\n", warn)
		}
	}
	for _, a := range r.Annotations {
		if len(a.Disconnects) > 0 {
			fmt.Fprintf(w, "  %s -> %s via %s\n", a.From, a.To, strings.Join(a.Disconnects, ", "))
		}
	}
	fmt.Fprintf(w, "Digest: %s\n", r.Digest)
}
