package cli

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/deprep/pkg/buildinfo"
	"github.com/matzehuels/deprep/pkg/config"
	"github.com/matzehuels/deprep/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "deprep"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// Process exit codes returned by [ExitCode].
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitFatal       = 2   // Manifest or configuration could not be used
	ExitInterrupted = 130 // Standard shell convention for SIGINT
)

// ExitCode maps the error returned by the root command to a process exit
// code. Reports with unresolved dependencies still exit with [ExitOK].
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Fatal(err):
		return ExitFatal
	default:
		return ExitFailure
	}
}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose bool
	silent  bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "deprep checks declared dependencies against their latest releases",
		Long:         `deprep reads a package manifest, looks up the latest published version of every dependency and reports which declared ranges already admit it and which lag behind by a patch, minor or major release.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.SetLogLevel(c.level())
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVarP(&c.silent, "silent", "s", false, "only log errors")
	root.MarkFlagsMutuallyExclusive("verbose", "silent")

	// Register all subcommands
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) level() log.Level {
	switch {
	case c.silent:
		return LogError
	case c.verbose:
		return LogDebug
	default:
		return LogInfo
	}
}

// =============================================================================
// Settings Flags
// =============================================================================

// settingsFlags are the flags shared by every command that talks to a
// registry. They override the config file and the environment.
type settingsFlags struct {
	config        string
	registry      string
	bowerRegistry string
	concurrency   int
	timeout       time.Duration
	ignore        []string
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.config, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	cmd.Flags().StringVar(&f.registry, "registry", "", "npm registry base URL")
	cmd.Flags().StringVar(&f.bowerRegistry, "bower-registry", "", "Bower registry base URL")
	cmd.Flags().IntVarP(&f.concurrency, "concurrency", "c", 0, "maximum concurrent registry lookups")
	cmd.Flags().DurationVarP(&f.timeout, "timeout", "t", 0, "deadline for all lookups of one manifest (0 = none)")
	cmd.Flags().StringSliceVar(&f.ignore, "ignore", nil, "dependency names to skip (repeatable, comma-separated)")
}

// load reads the layered configuration and applies the flags the user set.
func (f *settingsFlags) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("registry") {
		cfg.Registry = f.registry
	}
	if flags.Changed("bower-registry") {
		cfg.BowerRegistry = f.bowerRegistry
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
	if flags.Changed("timeout") {
		cfg.Timeout = f.timeout
	}
	cfg.Ignore = append(cfg.Ignore, f.ignore...)

	return cfg, cfg.Validate()
}
