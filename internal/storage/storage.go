// Package storage defines the chart storage provider contract and the
// built-in providers. A provider declares the cloud resources backing one
// ChartMuseum deployment (bucket, principal, credentials) into the resource
// graph and describes the environment the chart server needs to reach them.
package storage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/imamik/museumctl/internal/config"
	"github.com/imamik/museumctl/internal/graph"
)

// ID identifies a storage provider. The string value doubles as the STORAGE
// environment value the chart server is configured with.
type ID string

// Amazon is the S3-backed provider.
const Amazon ID = "amazon"

// Provider declares the storage-side resources of a deployment.
type Provider interface {
	// ID returns the provider identifier.
	ID() ID
	// Provision declares the provider's resources into the graph and
	// returns how the chart server connects to them. The namespace
	// resource owns any cluster-side resources the provider declares,
	// such as the credentials secret.
	Provision(component string, cfg config.Config, g *graph.Graph, namespace *graph.Resource) (*Result, error)
}

// Result describes the provisioned storage backend to the rest of the
// composition.
type Result struct {
	Provider ID
	Region   string
	// Endpoint is a non-default provider endpoint, or empty.
	Endpoint string
	// BucketID is the graph ID of the bucket resource, for dependency
	// edges.
	BucketID string
	// Bucket is the actual bucket name, resolved by the engine.
	Bucket *graph.Future[string]
	// Credentials references the minted credentials secret, or nil when
	// the provider mints none.
	Credentials *CredentialRef
}

// CredentialRef points at the Kubernetes secret holding storage credentials.
type CredentialRef struct {
	// SecretID is the graph ID of the secret resource.
	SecretID string
	// SecretName is the secret's name in the target namespace.
	SecretName string
	// Env maps secret keys to the environment variables the chart server
	// reads them from, in emission order.
	Env []CredentialEnv
}

// CredentialEnv maps one secret data key to an environment variable.
type CredentialEnv struct {
	Name string
	Key  string
}

// UnsupportedProviderError reports a provider ID with no registered
// implementation.
type UnsupportedProviderError struct {
	Requested string
	Supported []string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported storage provider %q (supported: %s)",
		e.Requested, strings.Join(e.Supported, ", "))
}

var providers = map[ID]Provider{
	Amazon: amazonProvider{},
}

// For returns the provider registered under the given ID.
func For(id ID) (Provider, error) {
	p, ok := providers[id]
	if !ok {
		return nil, &UnsupportedProviderError{
			Requested: string(id),
			Supported: Supported(),
		}
	}
	return p, nil
}

// Supported returns the registered provider IDs, sorted.
func Supported() []string {
	ids := make([]string, 0, len(providers))
	for id := range providers {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	return ids
}
