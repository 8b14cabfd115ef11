package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/museumctl/internal/config"
	"github.com/imamik/museumctl/internal/graph"
)

func testConfig() config.Config {
	return config.Config{
		Namespace:   "charts",
		Replicas:    1,
		ServiceType: "ClusterIP",
		ServicePort: 80,
		Provider:    "amazon",
		Region:      "us-west-2",
	}
}

func provisionAmazon(t *testing.T) (*graph.Graph, *Result) {
	t.Helper()
	g := graph.New("my-museum")
	ns, err := g.Add(graph.Resource{ID: "namespace", Kind: "Namespace", Object: struct{}{}})
	require.NoError(t, err)

	res, err := amazonProvider{}.Provision("my-museum", testConfig(), g, ns)
	require.NoError(t, err)
	return g, res
}

func TestAmazon_Provision_DeclarationOrder(t *testing.T) {
	t.Parallel()
	g, _ := provisionAmazon(t)

	var ids []string
	for _, r := range g.Resources() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{
		"namespace",
		"storage-bucket",
		"storage-principal",
		"storage-access-key",
		"storage-credentials",
	}, ids)
}

func TestAmazon_Provision_Bucket(t *testing.T) {
	t.Parallel()
	g, res := provisionAmazon(t)

	r, ok := g.Get("storage-bucket")
	require.True(t, ok)
	assert.Equal(t, KindBucket, r.Kind)
	assert.Empty(t, r.Owner)
	assert.Empty(t, r.DependsOn)

	spec, ok := r.Object.(*BucketSpec)
	require.True(t, ok)
	assert.Equal(t, "my-museum-charts", spec.RequestedName)
	assert.Equal(t, "us-west-2", spec.Region)

	assert.Equal(t, "storage-bucket", res.BucketID)
	if _, resolved := res.Bucket.Peek(); resolved {
		t.Error("bucket name must stay unresolved at composition time")
	}
}

func TestAmazon_Provision_PrincipalScopedToBucket(t *testing.T) {
	t.Parallel()
	g, _ := provisionAmazon(t)

	r, ok := g.Get("storage-principal")
	require.True(t, ok)
	assert.Equal(t, KindPrincipal, r.Kind)
	assert.Equal(t, []string{"storage-bucket"}, r.DependsOn)

	spec, ok := r.Object.(*PrincipalSpec)
	require.True(t, ok)
	assert.Equal(t, "my-museum-chartmuseum", spec.UserName)
	assert.Equal(t, "my-museum-charts-rw", spec.PolicyName)

	// The policy renders once the engine resolves the bucket name.
	require.NoError(t, spec.Bucket.Resolve("my-museum-charts"))
	doc, err := spec.PolicyDocument(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Sid": "ListBucket",
				"Effect": "Allow",
				"Action": ["s3:ListBucket"],
				"Resource": ["arn:aws:s3:::my-museum-charts"]
			},
			{
				"Sid": "ObjectReadWrite",
				"Effect": "Allow",
				"Action": ["s3:GetObject", "s3:PutObject", "s3:DeleteObject"],
				"Resource": ["arn:aws:s3:::my-museum-charts/*"]
			}
		]
	}`, doc)
}

func TestAmazon_Provision_AccessKeyChain(t *testing.T) {
	t.Parallel()
	g, _ := provisionAmazon(t)

	r, ok := g.Get("storage-access-key")
	require.True(t, ok)
	assert.Equal(t, KindAccessKey, r.Kind)
	assert.Equal(t, []string{"storage-principal"}, r.DependsOn)

	spec, ok := r.Object.(*AccessKeySpec)
	require.True(t, ok)
	assert.Equal(t, "my-museum-chartmuseum", spec.UserName)
	if _, resolved := spec.ID.Peek(); resolved {
		t.Error("access key ID must stay unresolved at composition time")
	}
	if _, resolved := spec.Secret.Peek(); resolved {
		t.Error("access key secret must stay unresolved at composition time")
	}
}

func TestAmazon_Provision_CredentialsSecret(t *testing.T) {
	t.Parallel()
	g, res := provisionAmazon(t)

	r, ok := g.Get("storage-credentials")
	require.True(t, ok)
	assert.Equal(t, KindSecret, r.Kind)
	assert.Equal(t, "namespace", r.Owner, "credentials secret must be owned by the namespace")
	assert.Equal(t, []string{"storage-access-key"}, r.DependsOn)

	spec, ok := r.Object.(*SecretSpec)
	require.True(t, ok)
	assert.Equal(t, "my-museum-storage-creds", spec.Name)
	assert.Equal(t, "charts", spec.Namespace)
	assert.Equal(t, "chartmuseum", spec.Labels["app"])
	assert.Equal(t, "my-museum", spec.Labels["release"])
	assert.Len(t, spec.Data, 2)

	require.NotNil(t, res.Credentials)
	assert.Equal(t, "storage-credentials", res.Credentials.SecretID)
	assert.Equal(t, "my-museum-storage-creds", res.Credentials.SecretName)
	assert.Equal(t, []CredentialEnv{
		{Name: "AWS_ACCESS_KEY_ID", Key: "accessKeyID"},
		{Name: "AWS_SECRET_ACCESS_KEY", Key: "secretAccessKey"},
	}, res.Credentials.Env)
}

func TestAmazon_Provision_Result(t *testing.T) {
	t.Parallel()
	_, res := provisionAmazon(t)

	assert.Equal(t, Amazon, res.Provider)
	assert.Equal(t, "us-west-2", res.Region)
	assert.Empty(t, res.Endpoint)
}
