// Package kube provides a typed Kubernetes client for applying and deleting
// the cluster-side resources of a deployment.
package kube

import (
	"fmt"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Client wraps the typed Kubernetes API operations the engine needs.
type Client struct {
	Clientset kubernetes.Interface
}

// NewClient creates a client from a kubeconfig file. An empty path falls back
// to the default kubeconfig location.
func NewClient(kubeconfigPath string) (*Client, error) {
	if kubeconfigPath == "" {
		kubeconfigPath = clientcmd.RecommendedHomeFile
	}

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build kubeconfig: %w", err)
	}
	return NewClientForConfig(config)
}

// NewClientForConfig creates a client from a REST config, e.g. the in-cluster
// config of the operator.
func NewClientForConfig(config *rest.Config) (*Client, error) {
	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}
	return &Client{Clientset: clientset}, nil
}
