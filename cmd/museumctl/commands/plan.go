package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/museumctl/cmd/museumctl/handlers"
)

// Plan returns the command for previewing a deployment's resources.
//
// This command composes the full resource graph from the configuration and
// prints it as YAML without contacting any API. The output is deterministic
// for a given configuration, so it diffs cleanly across config changes.
//
// Optional flags:
//
//	--config, -c: Path to the options YAML file (default: auto-detect museumctl.yaml)
func Plan() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview the resources a deployment would create",
		Long: `Preview the resources a deployment would create.

This command composes the complete resource graph (bucket, IAM user, access
key, secret, namespace, deployment, service) and renders it as YAML. Nothing
is contacted or changed: values the engine resolves at apply time, such as
the actual bucket name and the minted access key, appear as placeholders.

The output is deterministic for a given configuration. Run it before and
after a config change to see exactly what would differ.

Examples:
  # Preview using museumctl.yaml in the current directory
  museumctl plan

  # Preview a specific config
  museumctl plan -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: museumctl.yaml)")

	return cmd
}
