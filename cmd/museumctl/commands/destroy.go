package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/museumctl/cmd/museumctl/handlers"
)

// Destroy returns the destroy command.
//
// The destroy command removes all deployment resources from the cluster and
// the cloud provider. It deletes resources in reverse dependency order:
// service, deployment, secret, access key, IAM user, bucket, namespace.
func Destroy() *cobra.Command {
	var (
		configPath string
		kubeconfig string
		purge      bool
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy a ChartMuseum deployment and all associated resources",
		Long: `Destroy removes all deployment resources.

This command deletes all resources associated with the deployment including:
  - Service and Deployment
  - Credentials Secret
  - Access keys and IAM user
  - S3 chart bucket
  - Namespace

Resources are deleted in reverse dependency order to ensure clean teardown.

The chart bucket is only deleted when it is empty. Pass --purge to delete
all stored charts first. Without --purge, a non-empty bucket fails the run
and everything up to the bucket stays deleted; re-run with --purge or empty
the bucket yourself.

Example:
  museumctl destroy -c museumctl.yaml --purge

WARNING: With --purge this operation is irreversible. All stored charts
will be lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath, kubeconfig, purge)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to deployment configuration file (required)")
	cmd.Flags().StringVar(&kubeconfig, "kubeconfig", "", "Path to kubeconfig file (default: $KUBECONFIG)")
	cmd.Flags().BoolVar(&purge, "purge", false, "Delete all stored charts before removing the bucket")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
