package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the journal and metrics over HTTP",
	Long: `Start the HTTP API. Prometheus metrics are exposed on /metrics and a
liveness probe on /healthz. When auth.user is configured every /api/v1
request needs HTTP basic credentials; create the password hash with
"tradelog auth hash".

Example:
  tradelog serve --listen :8080 --config tradelog.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveListen string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveListen != "" {
		cfg.Server.Listen = serveListen
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	srv, err := api.New(store, cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, cfg.Server)
}
