// Package compose turns user options into the complete resource graph of one
// ChartMuseum deployment.
//
// Composition is pure: it validates, derives names and wiring, and declares
// resources, but performs no I/O. The same name and options always produce
// the same graph; applying it is the engine's job.
package compose

import (
	"fmt"

	"github.com/imamik/museumctl/internal/config"
	"github.com/imamik/museumctl/internal/env"
	"github.com/imamik/museumctl/internal/graph"
	"github.com/imamik/museumctl/internal/storage"
	"github.com/imamik/museumctl/internal/util/labels"
	"github.com/imamik/museumctl/internal/util/naming"
)

// Graph IDs of the cluster-side resources.
const (
	namespaceID  = "namespace"
	deploymentID = "deployment"
	serviceID    = "service"
)

// Fixed workload settings.
const (
	// image pins the exact chart server build every deployment runs.
	image         = "ghcr.io/helm/chartmuseum:v0.16.2"
	containerPort = int32(8080)
	portName      = "http"
	healthPath    = "/health"
)

// Compose builds the resource graph for one ChartMuseum deployment. It fails
// before declaring anything when the options are incomplete or name an
// unsupported storage provider, so a failed composition never yields a
// partial graph.
func Compose(name string, opts config.Options) (*graph.Graph, error) {
	if name == "" {
		return nil, fmt.Errorf("component name is required")
	}

	cfg, err := config.Resolve(opts)
	if err != nil {
		return nil, err
	}

	provider, err := storage.For(storage.ID(cfg.Provider))
	if err != nil {
		return nil, err
	}

	g := graph.New(name)
	componentLabels := labels.Standard(name)

	namespace, err := g.Add(graph.Resource{
		ID:   namespaceID,
		Kind: KindNamespace,
		Object: &NamespaceSpec{
			Name:   cfg.Namespace,
			Labels: componentLabels,
		},
	})
	if err != nil {
		return nil, err
	}

	res, err := provider.Provision(name, cfg, g, namespace)
	if err != nil {
		return nil, err
	}

	vars := env.Build(cfg, res)

	// The server must not come up before its bucket exists, and its env
	// references the credentials secret by name.
	workloadDeps := []string{res.BucketID}
	if res.Credentials != nil {
		workloadDeps = append(workloadDeps, res.Credentials.SecretID)
	}

	if _, err := g.Add(graph.Resource{
		ID:        deploymentID,
		Kind:      KindDeployment,
		Owner:     namespace.ID,
		DependsOn: workloadDeps,
		Object: &WorkloadSpec{
			Name:      naming.Deployment(name),
			Namespace: cfg.Namespace,
			Labels:    componentLabels,
			Replicas:  cfg.Replicas,
			Image:     image,
			Args:      []string{fmt.Sprintf("--port=%d", containerPort)},
			Port:      containerPort,
			PortName:  portName,
			Env:       vars,
		},
	}); err != nil {
		return nil, err
	}

	if _, err := g.Add(graph.Resource{
		ID:    serviceID,
		Kind:  KindService,
		Owner: namespace.ID,
		Object: &ServiceSpec{
			Name:       naming.Service(name),
			Namespace:  cfg.Namespace,
			Labels:     componentLabels,
			Selector:   componentLabels,
			Type:       cfg.ServiceType,
			Port:       cfg.ServicePort,
			PortName:   portName,
			TargetPort: portName,
		},
	}); err != nil {
		return nil, err
	}

	return g, nil
}

// BucketName returns the chart bucket's actual name once the engine has
// resolved it.
func BucketName(g *graph.Graph) (string, bool) {
	for _, r := range g.Resources() {
		if spec, ok := r.Object.(*storage.BucketSpec); ok {
			return spec.Name.Peek()
		}
	}
	return "", false
}
