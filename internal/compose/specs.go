package compose

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/imamik/museumctl/internal/env"
	"github.com/imamik/museumctl/internal/graph"
	"github.com/imamik/museumctl/internal/util/ptr"
)

// Resource kinds declared by the composer.
const (
	KindNamespace  graph.Kind = "Namespace"
	KindDeployment graph.Kind = "Deployment"
	KindService    graph.Kind = "Service"
)

// NamespaceSpec declares the namespace every cluster-side resource lives in.
type NamespaceSpec struct {
	Name   string
	Labels map[string]string
}

// Render materializes the namespace object.
func (n *NamespaceSpec) Render() *corev1.Namespace {
	return &corev1.Namespace{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Namespace"},
		ObjectMeta: metav1.ObjectMeta{
			Name:   n.Name,
			Labels: n.Labels,
		},
	}
}

// WorkloadSpec declares the ChartMuseum server deployment.
type WorkloadSpec struct {
	Name      string
	Namespace string
	// Labels double as the pod selector and must stay stable.
	Labels   map[string]string
	Replicas int32
	Image    string
	Args     []string
	Port     int32
	PortName string
	Env      []env.Var
}

// Render materializes the deployment, blocking until every deferred
// environment value is resolved.
func (w *WorkloadSpec) Render(ctx context.Context) (*appsv1.Deployment, error) {
	envVars, err := env.ToContainerEnv(ctx, w.Env)
	if err != nil {
		return nil, err
	}
	return w.deployment(envVars), nil
}

// Preview materializes the deployment without blocking; deferred environment
// values render as placeholders.
func (w *WorkloadSpec) Preview() *appsv1.Deployment {
	return w.deployment(env.PreviewContainerEnv(w.Env))
}

func (w *WorkloadSpec) deployment(envVars []corev1.EnvVar) *appsv1.Deployment {
	maxUnavailable := intstr.FromInt32(0)

	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      w.Name,
			Namespace: w.Namespace,
			Labels:    w.Labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.Int32(w.Replicas),
			Selector: &metav1.LabelSelector{MatchLabels: w.Labels},
			Strategy: appsv1.DeploymentStrategy{
				Type: appsv1.RollingUpdateDeploymentStrategyType,
				RollingUpdate: &appsv1.RollingUpdateDeployment{
					// Keep at least the configured replica count serving
					// during rollouts.
					MaxUnavailable: &maxUnavailable,
				},
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: w.Labels,
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:  "chartmuseum",
							Image: w.Image,
							Args:  w.Args,
							Ports: []corev1.ContainerPort{
								{
									Name:          w.PortName,
									ContainerPort: w.Port,
									Protocol:      corev1.ProtocolTCP,
								},
							},
							Env:            envVars,
							LivenessProbe:  w.probe(),
							ReadinessProbe: w.probe(),
						},
					},
				},
			},
		},
	}
}

func (w *WorkloadSpec) probe() *corev1.Probe {
	return &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			HTTPGet: &corev1.HTTPGetAction{
				Path: healthPath,
				Port: intstr.FromString(w.PortName),
			},
		},
		InitialDelaySeconds: 5,
		PeriodSeconds:       10,
		TimeoutSeconds:      1,
		SuccessThreshold:    1,
		FailureThreshold:    3,
	}
}

// ServiceSpec declares the service fronting the chart server pods.
type ServiceSpec struct {
	Name      string
	Namespace string
	Labels    map[string]string
	// Selector matches the workload's pod labels.
	Selector   map[string]string
	Type       string
	Port       int32
	PortName   string
	TargetPort string
}

// Render materializes the service object.
func (s *ServiceSpec) Render() *corev1.Service {
	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      s.Name,
			Namespace: s.Namespace,
			Labels:    s.Labels,
		},
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceType(s.Type),
			Selector: s.Selector,
			Ports: []corev1.ServicePort{
				{
					Name:       s.PortName,
					Port:       s.Port,
					TargetPort: intstr.FromString(s.TargetPort),
					Protocol:   corev1.ProtocolTCP,
				},
			},
		},
	}
}
