package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/museumctl/internal/config"
	"github.com/imamik/museumctl/internal/env"
	"github.com/imamik/museumctl/internal/graph"
	"github.com/imamik/museumctl/internal/storage"
	"github.com/imamik/museumctl/internal/util/ptr"
)

func testOptions() config.Options {
	return config.Options{
		Storage: &config.StorageOptions{Provider: "amazon", Region: "us-west-2"},
	}
}

func composeDefault(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := Compose("my-museum", testOptions())
	require.NoError(t, err)
	return g
}

func graphIDs(g *graph.Graph) []string {
	var ids []string
	for _, r := range g.Resources() {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestCompose_DefaultGraphShape(t *testing.T) {
	t.Parallel()
	g := composeDefault(t)

	assert.Equal(t, "my-museum", g.Component())
	assert.Equal(t, []string{
		"namespace",
		"storage-bucket",
		"storage-principal",
		"storage-access-key",
		"storage-credentials",
		"deployment",
		"service",
	}, graphIDs(g))
}

func TestCompose_OwnershipAndDependencies(t *testing.T) {
	t.Parallel()
	g := composeDefault(t)

	tests := []struct {
		id        string
		owner     string
		dependsOn []string
	}{
		{"namespace", "", nil},
		{"storage-bucket", "", nil},
		{"storage-principal", "", []string{"storage-bucket"}},
		{"storage-access-key", "", []string{"storage-principal"}},
		{"storage-credentials", "namespace", []string{"storage-access-key"}},
		{"deployment", "namespace", []string{"storage-bucket", "storage-credentials"}},
		{"service", "namespace", nil},
	}

	for _, tt := range tests {
		r, ok := g.Get(tt.id)
		require.True(t, ok, "resource %q missing", tt.id)
		assert.Equal(t, tt.owner, r.Owner, "owner of %q", tt.id)
		if len(tt.dependsOn) == 0 {
			assert.Empty(t, r.DependsOn, "dependencies of %q", tt.id)
		} else {
			assert.Equal(t, tt.dependsOn, r.DependsOn, "dependencies of %q", tt.id)
		}
	}
}

func TestCompose_WorkloadAlwaysDependsOnBucket(t *testing.T) {
	t.Parallel()
	g := composeDefault(t)

	r, ok := g.Get("deployment")
	require.True(t, ok)
	assert.Contains(t, r.DependsOn, "storage-bucket")
}

func TestCompose_NamespaceCarriesComponentLabels(t *testing.T) {
	t.Parallel()
	g := composeDefault(t)

	r, ok := g.Get("namespace")
	require.True(t, ok)
	spec, ok := r.Object.(*NamespaceSpec)
	require.True(t, ok)

	assert.Equal(t, "chartmuseum", spec.Name)
	assert.Equal(t, map[string]string{
		"app":     "chartmuseum",
		"release": "my-museum",
	}, spec.Labels)
}

func TestCompose_ServiceSelectorMatchesWorkloadLabels(t *testing.T) {
	t.Parallel()
	g := composeDefault(t)

	dep, ok := g.Get("deployment")
	require.True(t, ok)
	workload := dep.Object.(*WorkloadSpec)

	svc, ok := g.Get("service")
	require.True(t, ok)
	service := svc.Object.(*ServiceSpec)

	assert.Equal(t, workload.Labels, service.Selector)
}

func TestCompose_WorkloadSettings(t *testing.T) {
	t.Parallel()
	g, err := Compose("my-museum", config.Options{
		Namespace: "charts",
		Replicas:  ptr.Int32(2),
		Storage:   &config.StorageOptions{Provider: "amazon", Region: "eu-central-1"},
	})
	require.NoError(t, err)

	r, ok := g.Get("deployment")
	require.True(t, ok)
	w := r.Object.(*WorkloadSpec)

	assert.Equal(t, "my-museum-chartmuseum", w.Name)
	assert.Equal(t, "charts", w.Namespace)
	assert.Equal(t, int32(2), w.Replicas)
	assert.Equal(t, "ghcr.io/helm/chartmuseum:v0.16.2", w.Image)
	assert.Equal(t, []string{"--port=8080"}, w.Args)
	assert.Equal(t, int32(8080), w.Port)
	assert.Equal(t, "http", w.PortName)
}

func TestCompose_ServiceSettings(t *testing.T) {
	t.Parallel()
	g, err := Compose("my-museum", config.Options{
		Service: &config.ServiceOptions{Type: "LoadBalancer"},
		Storage: &config.StorageOptions{Provider: "amazon", Region: "us-west-2"},
	})
	require.NoError(t, err)

	r, ok := g.Get("service")
	require.True(t, ok)
	s := r.Object.(*ServiceSpec)

	assert.Equal(t, "my-museum-chartmuseum", s.Name)
	assert.Equal(t, "LoadBalancer", s.Type)
	assert.Equal(t, int32(80), s.Port)
	assert.Equal(t, "http", s.TargetPort)
}

func TestCompose_EnvReflectsFlags(t *testing.T) {
	t.Parallel()
	g, err := Compose("my-museum", config.Options{
		API:     ptr.Bool(true),
		Storage: &config.StorageOptions{Provider: "amazon", Region: "us-west-2"},
	})
	require.NoError(t, err)

	r, _ := g.Get("deployment")
	w := r.Object.(*WorkloadSpec)

	byName := map[string]env.Var{}
	for _, v := range w.Env {
		byName[v.Name] = v
	}
	assert.Equal(t, "false", byName["DISABLE_API"].Value.String())
	assert.Equal(t, "true", byName["DISABLE_METRICS"].Value.String())
	assert.Equal(t, "${storage-bucket.name}", byName["STORAGE_AMAZON_BUCKET"].Value.String())
	require.NotNil(t, byName["AWS_ACCESS_KEY_ID"].SecretRef)
	assert.Equal(t, "my-museum-storage-creds", byName["AWS_ACCESS_KEY_ID"].SecretRef.Name)
}

func TestCompose_UnsupportedProviderDeclaresNothing(t *testing.T) {
	t.Parallel()
	g, err := Compose("my-museum", config.Options{
		Storage: &config.StorageOptions{Provider: "google", Region: "us-west-2"},
	})

	require.Error(t, err)
	var unsupported *storage.UnsupportedProviderError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "google", unsupported.Requested)
	assert.Nil(t, g, "a failed composition must not return a partial graph")
}

func TestCompose_MissingRequiredConfig(t *testing.T) {
	t.Parallel()
	_, err := Compose("my-museum", config.Options{})

	var missing *config.MissingFieldError
	require.ErrorAs(t, err, &missing)
}

func TestCompose_EmptyNameRejected(t *testing.T) {
	t.Parallel()
	if _, err := Compose("", testOptions()); err == nil {
		t.Error("Compose() must reject an empty component name")
	}
}

func TestCompose_IsDeterministic(t *testing.T) {
	t.Parallel()
	a, err := Compose("my-museum", testOptions())
	require.NoError(t, err)
	b, err := Compose("my-museum", testOptions())
	require.NoError(t, err)

	assert.Equal(t, graphIDs(a), graphIDs(b))

	previewA, err := Preview(a)
	require.NoError(t, err)
	previewB, err := Preview(b)
	require.NoError(t, err)
	assert.Equal(t, previewA, previewB)
}

func TestCompose_GraphsAreIndependent(t *testing.T) {
	t.Parallel()
	a, err := Compose("museum-a", testOptions())
	require.NoError(t, err)
	b, err := Compose("museum-b", testOptions())
	require.NoError(t, err)

	// Resolving one composition's futures must not leak into the other.
	specA := mustBucketSpec(t, a)
	require.NoError(t, specA.Name.Resolve("museum-a-charts"))

	if _, resolved := mustBucketSpec(t, b).Name.Peek(); resolved {
		t.Error("resolving graph A leaked into graph B")
	}
}

func mustBucketSpec(t *testing.T, g *graph.Graph) *storage.BucketSpec {
	t.Helper()
	r, ok := g.Get("storage-bucket")
	require.True(t, ok)
	spec, ok := r.Object.(*storage.BucketSpec)
	require.True(t, ok)
	return spec
}

func TestBucketName(t *testing.T) {
	t.Parallel()
	g := composeDefault(t)

	if _, ok := BucketName(g); ok {
		t.Fatal("BucketName() must be unknown before the engine resolves it")
	}

	require.NoError(t, mustBucketSpec(t, g).Name.Resolve("my-museum-charts"))

	got, ok := BucketName(g)
	if !ok || got != "my-museum-charts" {
		t.Errorf("BucketName() = (%q, %v), want (my-museum-charts, true)", got, ok)
	}
}
