package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/museumctl/cmd/museumctl/handlers"
)

// Init returns the command for interactively creating a deployment
// configuration.
//
// This command guides users through creating a deployment options YAML file
// using an interactive wizard with text inputs, single-select, and confirm
// prompts.
//
// Flags:
//
//	--output, -o: Path to output file (default "museumctl.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a deployment configuration",
		Long: `Interactively create a deployment configuration file.

This command guides you through configuring your ChartMuseum deployment
step by step. It will ask about:

  - Deployment name
  - Storage provider and region
  - Kubernetes namespace and replica count
  - Service exposure (ClusterIP, NodePort, or LoadBalancer)
  - Chart API and Prometheus metrics

The generated file contains only the values you chose; everything else
falls back to defaults at apply time.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "museumctl.yaml", "Output file path")

	return cmd
}
