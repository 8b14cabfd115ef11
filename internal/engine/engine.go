// Package engine applies a composed resource graph against cloud and cluster
// APIs. It walks the graph in declaration order, one resource at a time,
// resolving engine-output futures (bucket name, minted credentials) as the
// backing objects come into existence. There is no retry or diffing logic:
// every step is create-or-update and idempotent, so a failed run is repaired
// by running again.
package engine

import (
	"context"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/museumctl/internal/compose"
	"github.com/imamik/museumctl/internal/graph"
	"github.com/imamik/museumctl/internal/storage"
)

// CloudStore provisions provider-side storage resources. Implemented by
// platform/amazon.Client.
type CloudStore interface {
	// EnsureBucket creates the bucket if missing and returns the actual
	// bucket name.
	EnsureBucket(ctx context.Context, name, region string) (string, error)
	// EnsurePrincipal creates the machine identity if missing and attaches
	// the inline policy.
	EnsurePrincipal(ctx context.Context, userName, policyName, policyDocument string) error
	// RotateAccessKey replaces the principal's access keys with a fresh
	// pair and returns it.
	RotateAccessKey(ctx context.Context, userName string) (id, secret string, err error)
	// DeleteAccessKeys deletes all of the principal's access keys.
	DeleteAccessKeys(ctx context.Context, userName string) error
	// DeletePrincipal removes the inline policy and deletes the identity.
	DeletePrincipal(ctx context.Context, userName, policyName string) error
	// EmptyBucket deletes every object in the bucket.
	EmptyBucket(ctx context.Context, name string) error
	// DeleteBucket deletes the bucket. Fails while objects remain.
	DeleteBucket(ctx context.Context, name string) error
}

// ClusterClient applies cluster-side resources. Implemented by
// platform/kube.Client.
type ClusterClient interface {
	ApplyNamespace(ctx context.Context, namespace *corev1.Namespace) error
	ApplySecret(ctx context.Context, secret *corev1.Secret) error
	ApplyDeployment(ctx context.Context, deployment *appsv1.Deployment) error
	ApplyService(ctx context.Context, service *corev1.Service) error
	DeleteNamespace(ctx context.Context, name string) error
	DeleteSecret(ctx context.Context, namespace, name string) error
	DeleteDeployment(ctx context.Context, namespace, name string) error
	DeleteService(ctx context.Context, namespace, name string) error
}

// Engine turns a resource graph into cloud and cluster state.
type Engine struct {
	cloud    CloudStore
	cluster  ClusterClient
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver routes progress events to the given observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// New creates an engine. Progress goes to a ConsoleObserver unless overridden.
func New(cloud CloudStore, cluster ClusterClient, opts ...Option) *Engine {
	e := &Engine{
		cloud:    cloud,
		cluster:  cluster,
		observer: ConsoleObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply walks the graph in declaration order and applies every resource.
// Declaration order is a valid apply order: the graph refuses dependency
// edges to undeclared resources, so by the time a resource is applied its
// dependencies exist and their futures are resolved. Stops at the first
// failure.
func (e *Engine) Apply(ctx context.Context, g *graph.Graph) error {
	for _, r := range g.Resources() {
		e.observer.Event(Event{Type: EventResourceApplying, Resource: r.ID, Kind: r.Kind})

		detail, err := e.applyResource(ctx, r)
		if err != nil {
			e.observer.Event(Event{Type: EventResourceFailed, Resource: r.ID, Kind: r.Kind, Err: err})
			return fmt.Errorf("applying %s: %w", r.ID, err)
		}

		e.observer.Event(Event{Type: EventResourceApplied, Resource: r.ID, Kind: r.Kind, Detail: detail})
	}
	return nil
}

func (e *Engine) applyResource(ctx context.Context, r *graph.Resource) (string, error) {
	switch spec := r.Object.(type) {
	case *compose.NamespaceSpec:
		return spec.Name, e.cluster.ApplyNamespace(ctx, spec.Render())

	case *storage.BucketSpec:
		name, err := e.cloud.EnsureBucket(ctx, spec.RequestedName, spec.Region)
		if err != nil {
			return "", err
		}
		if err := spec.Name.Resolve(name); err != nil {
			return "", err
		}
		return name, nil

	case *storage.PrincipalSpec:
		doc, err := spec.PolicyDocument(ctx)
		if err != nil {
			return "", err
		}
		return spec.UserName, e.cloud.EnsurePrincipal(ctx, spec.UserName, spec.PolicyName, doc)

	case *storage.AccessKeySpec:
		id, secret, err := e.cloud.RotateAccessKey(ctx, spec.UserName)
		if err != nil {
			return "", err
		}
		if err := spec.ID.Resolve(id); err != nil {
			return "", err
		}
		if err := spec.Secret.Resolve(secret); err != nil {
			return "", err
		}
		return spec.UserName, nil

	case *storage.SecretSpec:
		secret, err := spec.Render(ctx)
		if err != nil {
			return "", err
		}
		return spec.Name, e.cluster.ApplySecret(ctx, secret)

	case *compose.WorkloadSpec:
		deployment, err := spec.Render(ctx)
		if err != nil {
			return "", err
		}
		return spec.Name, e.cluster.ApplyDeployment(ctx, deployment)

	case *compose.ServiceSpec:
		return spec.Name, e.cluster.ApplyService(ctx, spec.Render())

	default:
		return "", fmt.Errorf("no apply step for resource kind %q", r.Kind)
	}
}

// Destroy walks the graph in reverse declaration order and deletes every
// resource, so dependents go before their dependencies. Deletes tolerate
// already-missing objects, making a re-run after a partial failure safe.
// The bucket is only deletable once empty; purge empties it first.
func (e *Engine) Destroy(ctx context.Context, g *graph.Graph, purge bool) error {
	resources := g.Resources()
	for i := len(resources) - 1; i >= 0; i-- {
		r := resources[i]
		e.observer.Event(Event{Type: EventResourceDeleting, Resource: r.ID, Kind: r.Kind})

		if err := e.destroyResource(ctx, r, purge); err != nil {
			e.observer.Event(Event{Type: EventResourceFailed, Resource: r.ID, Kind: r.Kind, Err: err})
			return fmt.Errorf("destroying %s: %w", r.ID, err)
		}

		e.observer.Event(Event{Type: EventResourceDeleted, Resource: r.ID, Kind: r.Kind})
	}
	return nil
}

func (e *Engine) destroyResource(ctx context.Context, r *graph.Resource, purge bool) error {
	switch spec := r.Object.(type) {
	case *compose.ServiceSpec:
		return e.cluster.DeleteService(ctx, spec.Namespace, spec.Name)

	case *compose.WorkloadSpec:
		return e.cluster.DeleteDeployment(ctx, spec.Namespace, spec.Name)

	case *storage.SecretSpec:
		return e.cluster.DeleteSecret(ctx, spec.Namespace, spec.Name)

	case *storage.AccessKeySpec:
		return e.cloud.DeleteAccessKeys(ctx, spec.UserName)

	case *storage.PrincipalSpec:
		return e.cloud.DeletePrincipal(ctx, spec.UserName, spec.PolicyName)

	case *storage.BucketSpec:
		if purge {
			if err := e.cloud.EmptyBucket(ctx, spec.RequestedName); err != nil {
				return err
			}
		}
		return e.cloud.DeleteBucket(ctx, spec.RequestedName)

	case *compose.NamespaceSpec:
		return e.cluster.DeleteNamespace(ctx, spec.Name)

	default:
		return fmt.Errorf("no destroy step for resource kind %q", r.Kind)
	}
}
