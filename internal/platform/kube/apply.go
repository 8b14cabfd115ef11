package kube

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// The Apply methods are create-or-update: a missing object is created, an
// existing one is overwritten with the desired state. Re-applying a converged
// deployment is a no-op from the caller's point of view.

// ApplyNamespace creates or updates a namespace.
func (c *Client) ApplyNamespace(ctx context.Context, desired *corev1.Namespace) error {
	namespaces := c.Clientset.CoreV1().Namespaces()

	existing, err := namespaces.Get(ctx, desired.Name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		_, err = namespaces.Create(ctx, desired, metav1.CreateOptions{})
	} else if err == nil {
		existing.Labels = desired.Labels
		_, err = namespaces.Update(ctx, existing, metav1.UpdateOptions{})
	}
	if err != nil {
		return fmt.Errorf("failed to apply namespace %s: %w", desired.Name, err)
	}
	return nil
}

// ApplySecret creates or updates a secret.
func (c *Client) ApplySecret(ctx context.Context, desired *corev1.Secret) error {
	secrets := c.Clientset.CoreV1().Secrets(desired.Namespace)

	existing, err := secrets.Get(ctx, desired.Name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		_, err = secrets.Create(ctx, desired, metav1.CreateOptions{})
	} else if err == nil {
		existing.Labels = desired.Labels
		existing.Data = desired.Data
		_, err = secrets.Update(ctx, existing, metav1.UpdateOptions{})
	}
	if err != nil {
		return fmt.Errorf("failed to apply secret %s/%s: %w", desired.Namespace, desired.Name, err)
	}
	return nil
}

// ApplyDeployment creates or updates a deployment.
func (c *Client) ApplyDeployment(ctx context.Context, desired *appsv1.Deployment) error {
	deployments := c.Clientset.AppsV1().Deployments(desired.Namespace)

	existing, err := deployments.Get(ctx, desired.Name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		_, err = deployments.Create(ctx, desired, metav1.CreateOptions{})
	} else if err == nil {
		existing.Labels = desired.Labels
		existing.Spec = desired.Spec
		_, err = deployments.Update(ctx, existing, metav1.UpdateOptions{})
	}
	if err != nil {
		return fmt.Errorf("failed to apply deployment %s/%s: %w", desired.Namespace, desired.Name, err)
	}
	return nil
}

// ApplyService creates or updates a service, preserving the allocated cluster
// IP across updates.
func (c *Client) ApplyService(ctx context.Context, desired *corev1.Service) error {
	services := c.Clientset.CoreV1().Services(desired.Namespace)

	existing, err := services.Get(ctx, desired.Name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		_, err = services.Create(ctx, desired, metav1.CreateOptions{})
	} else if err == nil {
		desired.Spec.ClusterIP = existing.Spec.ClusterIP
		desired.Spec.ClusterIPs = existing.Spec.ClusterIPs
		existing.Labels = desired.Labels
		existing.Spec = desired.Spec
		_, err = services.Update(ctx, existing, metav1.UpdateOptions{})
	}
	if err != nil {
		return fmt.Errorf("failed to apply service %s/%s: %w", desired.Namespace, desired.Name, err)
	}
	return nil
}

// The Delete methods tolerate missing objects so destroy stays idempotent.

// DeleteNamespace deletes a namespace and everything in it.
func (c *Client) DeleteNamespace(ctx context.Context, name string) error {
	err := c.Clientset.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete namespace %s: %w", name, err)
	}
	return nil
}

// DeleteSecret deletes a secret.
func (c *Client) DeleteSecret(ctx context.Context, namespace, name string) error {
	err := c.Clientset.CoreV1().Secrets(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete secret %s/%s: %w", namespace, name, err)
	}
	return nil
}

// DeleteDeployment deletes a deployment.
func (c *Client) DeleteDeployment(ctx context.Context, namespace, name string) error {
	err := c.Clientset.AppsV1().Deployments(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete deployment %s/%s: %w", namespace, name, err)
	}
	return nil
}

// DeleteService deletes a service.
func (c *Client) DeleteService(ctx context.Context, namespace, name string) error {
	err := c.Clientset.CoreV1().Services(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete service %s/%s: %w", namespace, name, err)
	}
	return nil
}
