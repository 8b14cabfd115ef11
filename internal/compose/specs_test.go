package compose

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/imamik/museumctl/internal/env"
	"github.com/imamik/museumctl/internal/graph"
)

func testWorkload() (*WorkloadSpec, *graph.Future[string]) {
	bucket := graph.NewFuture[string]("storage-bucket.name")
	return &WorkloadSpec{
		Name:      "my-museum-chartmuseum",
		Namespace: "charts",
		Labels:    map[string]string{"app": "chartmuseum", "release": "my-museum"},
		Replicas:  2,
		Image:     "ghcr.io/helm/chartmuseum:v0.16.2",
		Args:      []string{"--port=8080"},
		Port:      8080,
		PortName:  "http",
		Env: []env.Var{
			{Name: "STORAGE", Value: graph.Literal("amazon")},
			{Name: "STORAGE_AMAZON_BUCKET", Value: graph.Deferred(bucket)},
		},
	}, bucket
}

func TestWorkloadSpec_Render(t *testing.T) {
	t.Parallel()
	w, bucket := testWorkload()
	require.NoError(t, bucket.Resolve("my-museum-charts"))

	d, err := w.Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "my-museum-chartmuseum", d.Name)
	assert.Equal(t, "charts", d.Namespace)
	require.NotNil(t, d.Spec.Replicas)
	assert.Equal(t, int32(2), *d.Spec.Replicas)
	assert.Equal(t, w.Labels, d.Spec.Selector.MatchLabels)
	assert.Equal(t, w.Labels, d.Spec.Template.Labels)

	require.Len(t, d.Spec.Template.Spec.Containers, 1)
	c := d.Spec.Template.Spec.Containers[0]
	assert.Equal(t, "chartmuseum", c.Name)
	assert.Equal(t, "ghcr.io/helm/chartmuseum:v0.16.2", c.Image)
	assert.Equal(t, []string{"--port=8080"}, c.Args)
	require.Len(t, c.Ports, 1)
	assert.Equal(t, corev1.ContainerPort{Name: "http", ContainerPort: 8080, Protocol: corev1.ProtocolTCP}, c.Ports[0])

	// Deferred env resolved to the actual bucket name.
	var bucketEnv corev1.EnvVar
	for _, ev := range c.Env {
		if ev.Name == "STORAGE_AMAZON_BUCKET" {
			bucketEnv = ev
		}
	}
	assert.Equal(t, "my-museum-charts", bucketEnv.Value)
}

func TestWorkloadSpec_Probes(t *testing.T) {
	t.Parallel()
	w, _ := testWorkload()
	d := w.Preview()

	c := d.Spec.Template.Spec.Containers[0]
	for _, probe := range []*corev1.Probe{c.LivenessProbe, c.ReadinessProbe} {
		require.NotNil(t, probe)
		require.NotNil(t, probe.HTTPGet)
		assert.Equal(t, "/health", probe.HTTPGet.Path)
		assert.Equal(t, intstr.FromString("http"), probe.HTTPGet.Port)
		assert.Equal(t, int32(5), probe.InitialDelaySeconds)
		assert.Equal(t, int32(10), probe.PeriodSeconds)
		assert.Equal(t, int32(1), probe.TimeoutSeconds)
		assert.Equal(t, int32(1), probe.SuccessThreshold)
		assert.Equal(t, int32(3), probe.FailureThreshold)
	}
}

func TestWorkloadSpec_RollingUpdateKeepsCapacity(t *testing.T) {
	t.Parallel()
	w, _ := testWorkload()
	d := w.Preview()

	assert.Equal(t, appsv1.RollingUpdateDeploymentStrategyType, d.Spec.Strategy.Type)
	require.NotNil(t, d.Spec.Strategy.RollingUpdate)
	require.NotNil(t, d.Spec.Strategy.RollingUpdate.MaxUnavailable)
	assert.Equal(t, intstr.FromInt32(0), *d.Spec.Strategy.RollingUpdate.MaxUnavailable)
}

func TestWorkloadSpec_PreviewShowsPlaceholders(t *testing.T) {
	t.Parallel()
	w, _ := testWorkload()
	d := w.Preview()

	c := d.Spec.Template.Spec.Containers[0]
	var bucketEnv corev1.EnvVar
	for _, ev := range c.Env {
		if ev.Name == "STORAGE_AMAZON_BUCKET" {
			bucketEnv = ev
		}
	}
	assert.Equal(t, "${storage-bucket.name}", bucketEnv.Value)
}

func TestServiceSpec_Render(t *testing.T) {
	t.Parallel()
	s := &ServiceSpec{
		Name:       "my-museum-chartmuseum",
		Namespace:  "charts",
		Labels:     map[string]string{"app": "chartmuseum", "release": "my-museum"},
		Selector:   map[string]string{"app": "chartmuseum", "release": "my-museum"},
		Type:       "LoadBalancer",
		Port:       80,
		PortName:   "http",
		TargetPort: "http",
	}

	svc := s.Render()
	assert.Equal(t, corev1.ServiceTypeLoadBalancer, svc.Spec.Type)
	assert.Equal(t, s.Selector, svc.Spec.Selector)
	require.Len(t, svc.Spec.Ports, 1)
	port := svc.Spec.Ports[0]
	assert.Equal(t, int32(80), port.Port)
	assert.Equal(t, intstr.FromString("http"), port.TargetPort)
	assert.Equal(t, corev1.ProtocolTCP, port.Protocol)
}

func TestNamespaceSpec_Render(t *testing.T) {
	t.Parallel()
	n := &NamespaceSpec{
		Name:   "charts",
		Labels: map[string]string{"app": "chartmuseum", "release": "my-museum"},
	}

	ns := n.Render()
	assert.Equal(t, "charts", ns.Name)
	assert.Equal(t, n.Labels, ns.Labels)
	assert.Equal(t, "Namespace", ns.Kind)
}
