package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/museumctl/cmd/museumctl/handlers"
)

// Health returns the command for probing the chart server's health endpoint.
//
// Optional flags:
//
//	--url: Base URL of the chart server (default: http://localhost:8080)
func Health() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check chart server health",
		Long: `Check that the chart server is up and serving.

Probes the server's /health endpoint. The default URL matches the
port-forward that 'museumctl apply' prints.

Examples:
  # Check via the local port-forward
  museumctl health

  # Check an exposed LoadBalancer service
  museumctl health --url http://charts.example.com`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Health(cmd.Context(), url)
		},
	}

	cmd.Flags().StringVar(&url, "url", "http://localhost:8080", "Base URL of the chart server")

	return cmd
}
