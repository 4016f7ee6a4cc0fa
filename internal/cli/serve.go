package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/deprep/internal/metrics"
	"github.com/matzehuels/deprep/internal/server"
	"github.com/matzehuels/deprep/pkg/observability"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var flags settingsFlags
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dependency checks over HTTP",
		Long: `Serve dependency checks over HTTP until interrupted.

Endpoints:
  POST /v1/check?manager=npm&ignore=a,b   manifest in the request body
  GET  /healthz
  GET  /metrics                           Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			m := metrics.New()
			m.Install()
			defer observability.Reset()

			srv := server.New(server.Config{
				Addr:     cfg.Server.Addr,
				Registry: cfg.RegistryConfig(),
				Options:  cfg.EngineOptions(),
				Ignore:   cfg.Ignore,
				Metrics:  m.Handler(),
				Logger:   loggerFromContext(cmd.Context()),
			})
			return srv.ListenAndServe(cmd.Context())
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")

	return cmd
}
