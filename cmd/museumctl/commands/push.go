package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/museumctl/cmd/museumctl/handlers"
)

// Push returns the command for uploading a chart to the chart server.
//
// The argument may be a packaged chart archive (.tgz) or a chart directory,
// which is packaged first. A .prov provenance file next to the archive is
// uploaded alongside it.
//
// Optional flags:
//
//	--url: Base URL of the chart server (default: http://localhost:8080)
func Push() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "push CHART",
		Short: "Upload a chart to the chart server",
		Long: `Upload a Helm chart to the chart server's API.

CHART is either a packaged chart archive (.tgz) or a chart directory. A
directory is packaged into an archive first, exactly like 'helm package'.
If a provenance file (.prov) exists next to the archive, it is uploaded
in the same request.

The chart API must be enabled on the deployment (api: true). The default
URL matches the port-forward that 'museumctl apply' prints.

Examples:
  # Push a packaged chart
  museumctl push mychart-0.1.0.tgz

  # Package and push a chart directory
  museumctl push ./mychart

  # Push to an exposed LoadBalancer service
  museumctl push mychart-0.1.0.tgz --url http://charts.example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Push(cmd.Context(), args[0], url)
		},
	}

	cmd.Flags().StringVar(&url, "url", "http://localhost:8080", "Base URL of the chart server")

	return cmd
}
