package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/museumctl/cmd/museumctl/handlers"
)

// Apply returns the command for creating or updating a deployment.
//
// This command handles the complete deployment lifecycle: provisioning chart
// storage on the cloud provider, writing credentials into a cluster secret,
// and rolling out the ChartMuseum deployment and service.
//
// Optional flags:
//
//	--config, -c: Path to the options YAML file (default: auto-detect museumctl.yaml)
//	--kubeconfig: Path to the kubeconfig file (default: $KUBECONFIG or ~/.kube/config)
//	--wait: Block until the deployment rollout completes
//
// Cloud credentials come from the AWS SDK default chain (environment,
// shared config, instance role).
func Apply() *cobra.Command {
	var (
		configPath string
		kubeconfig string
		wait       bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update a ChartMuseum deployment",
		Long: `Create or update a ChartMuseum deployment.

This command provisions the chart storage (S3 bucket, IAM user, access key),
writes the credentials into a cluster secret, and rolls out the ChartMuseum
deployment and service.

Applying is idempotent: resources that already exist are updated in place,
and re-running after a failure resumes where it stopped. The access key is
rotated on every run, and the running pods pick up the new secret.

If no config file is specified, it looks for museumctl.yaml in the current
directory. Use 'museumctl init' to create one.

Examples:
  # Apply using museumctl.yaml in the current directory
  museumctl apply

  # Apply a specific config and wait for the rollout
  museumctl apply -c production.yaml --wait`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath, kubeconfig, wait)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: museumctl.yaml)")
	cmd.Flags().StringVar(&kubeconfig, "kubeconfig", "", "Path to kubeconfig file (default: $KUBECONFIG)")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the deployment rollout to complete")

	return cmd
}
