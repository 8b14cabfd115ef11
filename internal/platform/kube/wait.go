package kube

import (
	"context"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
)

const pollInterval = 5 * time.Second

// WaitForDeploymentReady waits until a deployment has rolled out: the
// controller has observed the latest generation and all desired replicas are
// updated, ready and available. Transient API errors are retried until the
// timeout expires.
func (c *Client) WaitForDeploymentReady(ctx context.Context, namespace, name string, timeout time.Duration) error {
	return wait.PollUntilContextTimeout(ctx, pollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		deployment, err := c.Clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return false, nil
		}

		if deployment.Generation > deployment.Status.ObservedGeneration {
			return false, nil
		}

		replicas := int32(1)
		if deployment.Spec.Replicas != nil {
			replicas = *deployment.Spec.Replicas
		}

		return deployment.Status.UpdatedReplicas == replicas &&
			deployment.Status.ReadyReplicas == replicas &&
			deployment.Status.AvailableReplicas == replicas, nil
	})
}
