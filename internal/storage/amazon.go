package storage

import (
	"github.com/imamik/museumctl/internal/config"
	"github.com/imamik/museumctl/internal/graph"
	"github.com/imamik/museumctl/internal/util/labels"
	"github.com/imamik/museumctl/internal/util/naming"
)

// Graph IDs of the storage-side resources. Stable across compositions so
// re-applies converge on the same resources.
const (
	bucketID      = "storage-bucket"
	principalID   = "storage-principal"
	accessKeyID   = "storage-access-key"
	credentialsID = "storage-credentials"
)

// Secret data keys for minted credentials.
const (
	keyAccessKeyID     = "accessKeyID"
	keySecretAccessKey = "secretAccessKey"
)

// amazonProvider backs chart storage with an S3 bucket and a dedicated IAM
// user whose inline policy is scoped to that bucket alone.
type amazonProvider struct{}

func (amazonProvider) ID() ID { return Amazon }

func (amazonProvider) Provision(component string, cfg config.Config, g *graph.Graph, namespace *graph.Resource) (*Result, error) {
	bucketName := graph.NewFuture[string](bucketID + ".name")
	bucket, err := g.Add(graph.Resource{
		ID:   bucketID,
		Kind: KindBucket,
		Object: &BucketSpec{
			RequestedName: naming.Bucket(component),
			Region:        cfg.Region,
			Name:          bucketName,
		},
	})
	if err != nil {
		return nil, err
	}

	principal, err := g.Add(graph.Resource{
		ID:        principalID,
		Kind:      KindPrincipal,
		DependsOn: []string{bucket.ID},
		Object: &PrincipalSpec{
			UserName:   naming.StoragePrincipal(component),
			PolicyName: naming.StoragePolicy(component),
			Bucket:     bucketName,
		},
	})
	if err != nil {
		return nil, err
	}

	keyID := graph.NewFuture[string](accessKeyID + ".id")
	keySecret := graph.NewFuture[string](accessKeyID + ".secret")
	key, err := g.Add(graph.Resource{
		ID:        accessKeyID,
		Kind:      KindAccessKey,
		DependsOn: []string{principal.ID},
		Object: &AccessKeySpec{
			UserName: naming.StoragePrincipal(component),
			ID:       keyID,
			Secret:   keySecret,
		},
	})
	if err != nil {
		return nil, err
	}

	secretName := naming.CredentialsSecret(component)
	secret, err := g.Add(graph.Resource{
		ID:        credentialsID,
		Kind:      KindSecret,
		Owner:     namespace.ID,
		DependsOn: []string{key.ID},
		Object: &SecretSpec{
			Name:      secretName,
			Namespace: cfg.Namespace,
			Labels:    labels.Standard(component),
			Data: map[string]graph.Value{
				keyAccessKeyID:     graph.Deferred(keyID),
				keySecretAccessKey: graph.Deferred(keySecret),
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Provider: Amazon,
		Region:   cfg.Region,
		Endpoint: cfg.Endpoint,
		BucketID: bucket.ID,
		Bucket:   bucketName,
		Credentials: &CredentialRef{
			SecretID:   secret.ID,
			SecretName: secretName,
			Env: []CredentialEnv{
				{Name: "AWS_ACCESS_KEY_ID", Key: keyAccessKeyID},
				{Name: "AWS_SECRET_ACCESS_KEY", Key: keySecretAccessKey},
			},
		},
	}, nil
}
