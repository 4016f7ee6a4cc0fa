package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/deprep/internal/metrics"
	"github.com/matzehuels/deprep/pkg/cache"
	"github.com/matzehuels/deprep/pkg/config"
	"github.com/matzehuels/deprep/pkg/deps"
	"github.com/matzehuels/deprep/pkg/deps/javascript"
	"github.com/matzehuels/deprep/pkg/deps/manifest"
	"github.com/matzehuels/deprep/pkg/observability"
)

// checkOpts holds the command-line flags for the check command.
type checkOpts struct {
	settingsFlags
	bower       bool   // resolve through the Bower registry
	json        bool   // print JSON instead of tables
	metricsFile string // Prometheus textfile written after the run
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var opts checkOpts

	cmd := &cobra.Command{
		Use:   "check [manifest...]",
		Short: "Report outdated dependencies of one or more manifests",
		Long: `Check the dependencies declared in a manifest against their latest releases.

Manifests may be local paths or http(s) URLs, in JSON or YAML. Without an
argument the package manager's default manifest in the working directory is
read. Dependencies that cannot be resolved are logged and left out of the
report; the exit code is non-zero only when a manifest cannot be read.

Examples:
  deprep check                                   # ./package.json
  deprep check --bower                           # ./bower.json via the Bower registry
  deprep check web/package.json api/package.yaml # several manifests at once
  deprep check --json --ignore typescript        # machine-readable, skip a package
  deprep check https://example.com/package.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd, &opts, args)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.bower, "bower", false, "resolve through the Bower registry (reads bower.json by default)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the check")

	return cmd
}

// checked pairs a manifest location with its report.
type checked struct {
	location string
	report   *deps.Report
}

func (c *CLI) runCheck(cmd *cobra.Command, opts *checkOpts, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := opts.load(cmd)
	if err != nil {
		return err
	}
	if opts.bower {
		cfg.Manager = javascript.Bower.Name
	}
	mgr, err := javascript.Manager(cfg.Manager)
	if err != nil {
		return err
	}

	if opts.metricsFile != "" {
		m := metrics.New()
		m.Install()
		defer observability.Reset()
		defer func() {
			if err := m.WriteToTextfile(opts.metricsFile); err != nil {
				logger.Warnf("Write metrics: %v", err)
			}
		}()
	}

	locations := args
	if len(locations) == 0 {
		locations = []string{mgr.DefaultManifest}
	}
	manifests, err := loadManifests(ctx, locations)
	if err != nil {
		return err
	}

	// One lookup memo per run so a package shared by several manifests is
	// fetched once.
	lookups := cache.NewMemoryCache(cache.DefaultSize, cache.DefaultTTL)
	defer lookups.Close()

	regCfg := cfg.RegistryConfig()
	regCfg.Cache = lookups
	resolver := mgr.Resolver(regCfg)

	out := cmd.OutOrStdout()
	results := make([]checked, 0, len(manifests))
	for i, m := range manifests {
		loc := locations[i]
		specs := manifest.Extract(m, logger.Infof)
		if len(cfg.Ignore) > 0 {
			logger.Debugf("Ignoring %v in %s", cfg.Ignore, loc)
			specs = specs.Without(cfg.Ignore...)
		}

		report, err := c.analyze(ctx, resolver, cfg, specs, loc, !opts.json)
		if err != nil {
			return err
		}
		if report.Degraded() {
			logger.Warnf("None of the %d dependencies in %s could be resolved against the %s registry", len(report.Failures()), loc, mgr.Name)
		}

		results = append(results, checked{location: loc, report: report})
		if !opts.json {
			renderReport(out, loc, report)
		}
	}

	if opts.json {
		return writeReportsJSON(out, results)
	}
	return nil
}

// analyze runs the engine over specs, showing a spinner when interactive.
func (c *CLI) analyze(ctx context.Context, res deps.Resolver, cfg config.Config, specs deps.Specs, location string, interactive bool) (*deps.Report, error) {
	logger := loggerFromContext(ctx)

	opts := cfg.EngineOptions()
	opts.Logger = func(format string, args ...any) { logger.Warnf(format, args...) }

	var spin *Spinner
	if interactive && !c.silent && len(specs) > 0 {
		spin = newSpinnerWithContext(ctx, fmt.Sprintf("Checking %s", location))
		opts.Progress = func(done, total int) {
			spin.SetMessage(fmt.Sprintf("Checking %s (%d/%d)", location, done, total))
		}
		spin.Start()
	}

	prog := newProgress(logger)
	report, err := deps.NewEngine(res, opts).Analyze(ctx, specs)
	if err != nil {
		if spin != nil {
			spin.StopWithError(fmt.Sprintf("Check of %s interrupted", location))
		}
		return nil, err
	}

	msg := fmt.Sprintf("Checked %d dependencies of %s", len(specs), location)
	if spin != nil {
		spin.StopWithSuccess(msg)
	} else {
		prog.done(msg)
	}
	return report, nil
}

// loadManifests reads all locations concurrently. The first failure aborts
// the others.
func loadManifests(ctx context.Context, locations []string) ([]*manifest.Manifest, error) {
	loader := manifest.NewLoader()
	out := make([]*manifest.Manifest, len(locations))

	g, gctx := errgroup.WithContext(ctx)
	for i, loc := range locations {
		g.Go(func() error {
			m, err := loader.Load(gctx, loc)
			if err != nil {
				return err
			}
			out[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// writeReportsJSON prints a single report as is, several keyed by location.
func writeReportsJSON(w io.Writer, results []checked) error {
	var v any
	if len(results) == 1 {
		v = results[0].report
	} else {
		byLocation := make(map[string]*deps.Report, len(results))
		for _, r := range results {
			byLocation[r.location] = r.report
		}
		v = byLocation
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
