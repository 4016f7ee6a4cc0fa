package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/deprep/pkg/config"
)

// configCommand creates the command printing the effective configuration.
func (c *CLI) configCommand() *cobra.Command {
	var flags settingsFlags

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the configuration after merging defaults, the config file, the
environment and flags. Tokens are only reported as set or unset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			printSettings(cmd.OutOrStdout(), cfg)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func printSettings(w io.Writer, cfg config.Config) {
	timeout := "none"
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout.String()
	}
	ignore := "-"
	if len(cfg.Ignore) > 0 {
		ignore = strings.Join(cfg.Ignore, ", ")
	}

	printKeyValue(w, "manager", cfg.Manager)
	printKeyValue(w, "registry", orDefault(cfg.Registry))
	printKeyValue(w, "bower registry", orDefault(cfg.BowerRegistry))
	printKeyValue(w, "concurrency", strconv.Itoa(cfg.Concurrency))
	printKeyValue(w, "timeout", timeout)
	printKeyValue(w, "ignore", ignore)
	printKeyValue(w, "server.addr", cfg.Server.Addr)
	printKeyValue(w, "npm token", secret(cfg.NPMToken))
	printKeyValue(w, "github token", secret(cfg.GitHubToken))
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}

func secret(s string) string {
	if s == "" {
		return "unset"
	}
	return "set"
}
