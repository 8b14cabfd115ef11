package controller

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/rest"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	museumv1alpha1 "github.com/imamik/museumctl/api/v1alpha1"
	"github.com/imamik/museumctl/internal/compose"
	"github.com/imamik/museumctl/internal/config"
	"github.com/imamik/museumctl/internal/engine"
	"github.com/imamik/museumctl/internal/graph"
	"github.com/imamik/museumctl/internal/platform/amazon"
	"github.com/imamik/museumctl/internal/platform/kube"
	"github.com/imamik/museumctl/internal/util/naming"
)

const (
	// Requeue interval once the deployment is ready
	defaultRequeueAfter = 60 * time.Second

	// Requeue interval while the workload is still rolling out
	rolloutRequeueAfter = 15 * time.Second
)

// Applier applies a composed resource graph. Implemented by engine.Engine.
type Applier interface {
	Apply(ctx context.Context, g *graph.Graph) error
}

// EngineFactory builds the applier for one reconcile. The default factory
// creates an engine backed by the AWS SDK credential chain and the manager's
// cluster connection.
type EngineFactory func(ctx context.Context, spec museumv1alpha1.ChartMuseumSpec) (Applier, error)

// ChartMuseumReconciler reconciles a ChartMuseum object.
type ChartMuseumReconciler struct {
	client.Client
	Scheme *runtime.Scheme

	newEngine     EngineFactory
	enableMetrics bool
}

// Option customizes a ChartMuseumReconciler.
type Option func(*ChartMuseumReconciler)

// WithEngineFactory replaces how the reconciler builds its applier.
func WithEngineFactory(f EngineFactory) Option {
	return func(r *ChartMuseumReconciler) { r.newEngine = f }
}

// WithMetrics enables or disables prometheus metrics recording.
func WithMetrics(enabled bool) Option {
	return func(r *ChartMuseumReconciler) { r.enableMetrics = enabled }
}

// NewChartMuseumReconciler creates a new ChartMuseumReconciler.
func NewChartMuseumReconciler(c client.Client, scheme *runtime.Scheme, restConfig *rest.Config, opts ...Option) *ChartMuseumReconciler {
	r := &ChartMuseumReconciler{
		Client:        c,
		Scheme:        scheme,
		newEngine:     defaultEngineFactory(restConfig),
		enableMetrics: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func defaultEngineFactory(restConfig *rest.Config) EngineFactory {
	return func(ctx context.Context, spec museumv1alpha1.ChartMuseumSpec) (Applier, error) {
		cloud, err := amazon.NewClient(ctx, amazon.Options{
			Region:   spec.Storage.Region,
			Endpoint: spec.Storage.Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud client: %w", err)
		}

		cluster, err := kube.NewClientForConfig(restConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create cluster client: %w", err)
		}

		return engine.New(cloud, cluster, engine.WithObserver(operatorObserver(ctx))), nil
	}
}

// operatorObserver routes engine progress into the reconcile logger.
func operatorObserver(ctx context.Context) engine.Observer {
	logger := log.FromContext(ctx)
	return engine.ObserverFunc(func(event engine.Event) {
		if event.Err != nil {
			logger.Error(event.Err, "resource step failed",
				"resource", event.Resource, "kind", string(event.Kind))
			return
		}
		logger.V(1).Info("resource step",
			"event", string(event.Type), "resource", event.Resource, "kind", string(event.Kind))
	})
}

// +kubebuilder:rbac:groups=museumctl.io,resources=chartmuseums,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=museumctl.io,resources=chartmuseums/status,verbs=get;update;patch
// +kubebuilder:rbac:groups="",resources=namespaces;secrets;services,verbs=get;list;watch;create;update;delete
// +kubebuilder:rbac:groups=apps,resources=deployments,verbs=get;list;watch;create;update;delete
// +kubebuilder:rbac:groups=coordination.k8s.io,resources=leases,verbs=get;create;update

// Reconcile handles the reconciliation loop for ChartMuseum resources.
func (r *ChartMuseumReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx)
	start := time.Now()

	museum := &museumv1alpha1.ChartMuseum{}
	if err := r.Get(ctx, req.NamespacedName, museum); err != nil {
		if apierrors.IsNotFound(err) {
			// Object deleted, nothing to do
			return ctrl.Result{}, nil
		}
		logger.Error(err, "unable to fetch ChartMuseum")
		return ctrl.Result{}, err
	}

	if museum.Spec.Paused {
		logger.Info("deployment is paused, skipping reconciliation")
		return ctrl.Result{RequeueAfter: defaultRequeueAfter}, nil
	}

	result, err := r.reconcile(ctx, museum)

	museum.Status.LastReconcileTime = &metav1.Time{Time: time.Now()}
	museum.Status.ObservedGeneration = museum.Generation
	if statusErr := r.Status().Update(ctx, museum); statusErr != nil {
		logger.Error(statusErr, "failed to update status")
		if err == nil {
			err = statusErr
		}
	}

	r.recordReconcile(museum.Name, resultLabel(err), time.Since(start).Seconds())
	return result, err
}

// reconcile runs the compose and apply steps and keeps the status current.
func (r *ChartMuseumReconciler) reconcile(ctx context.Context, museum *museumv1alpha1.ChartMuseum) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	g, err := compose.Compose(museum.Name, specToOptions(museum.Spec))
	if err != nil {
		// A spec the composer rejects stays rejected until it changes, so
		// report Failed without requeueing.
		logger.Error(err, "composition failed")
		museum.Status.Phase = museumv1alpha1.PhaseFailed
		meta.SetStatusCondition(&museum.Status.Conditions, metav1.Condition{
			Type:    museumv1alpha1.ConditionReady,
			Status:  metav1.ConditionFalse,
			Reason:  "InvalidConfiguration",
			Message: err.Error(),
		})
		r.recordCompose(museum.Name, "error")
		return ctrl.Result{}, nil
	}
	r.recordCompose(museum.Name, "success")

	museum.Status.Phase = museumv1alpha1.PhaseApplying

	applier, err := r.newEngine(ctx, museum.Spec)
	if err != nil {
		museum.Status.Phase = museumv1alpha1.PhaseFailed
		return ctrl.Result{}, fmt.Errorf("failed to build engine: %w", err)
	}

	applyStart := time.Now()
	if err := applier.Apply(ctx, g); err != nil {
		museum.Status.Phase = museumv1alpha1.PhaseFailed
		meta.SetStatusCondition(&museum.Status.Conditions, metav1.Condition{
			Type:    museumv1alpha1.ConditionReady,
			Status:  metav1.ConditionFalse,
			Reason:  "ApplyFailed",
			Message: err.Error(),
		})
		r.recordApply(museum.Name, "error", time.Since(applyStart).Seconds())
		return ctrl.Result{}, fmt.Errorf("apply failed: %w", err)
	}
	r.recordApply(museum.Name, "success", time.Since(applyStart).Seconds())

	if bucket, ok := compose.BucketName(g); ok {
		museum.Status.BucketName = bucket
	}
	meta.SetStatusCondition(&museum.Status.Conditions, metav1.Condition{
		Type:   museumv1alpha1.ConditionStorageProvisioned,
		Status: metav1.ConditionTrue,
		Reason: "Provisioned",
	})

	return r.reconcileWorkloadStatus(ctx, museum)
}

// reconcileWorkloadStatus checks the chart server rollout and sets the phase.
func (r *ChartMuseumReconciler) reconcileWorkloadStatus(ctx context.Context, museum *museumv1alpha1.ChartMuseum) (ctrl.Result, error) {
	cfg, err := config.Resolve(specToOptions(museum.Spec))
	if err != nil {
		// Compose already validated the spec.
		return ctrl.Result{}, err
	}

	deployment := &appsv1.Deployment{}
	key := types.NamespacedName{
		Namespace: cfg.Namespace,
		Name:      naming.Deployment(museum.Name),
	}
	if err := r.Get(ctx, key, deployment); err != nil {
		if apierrors.IsNotFound(err) {
			// The engine just applied it; the cache may lag behind.
			return ctrl.Result{RequeueAfter: rolloutRequeueAfter}, nil
		}
		return ctrl.Result{}, fmt.Errorf("failed to fetch deployment: %w", err)
	}

	museum.Status.ReadyReplicas = deployment.Status.ReadyReplicas

	if deployment.Status.ReadyReplicas >= cfg.Replicas {
		museum.Status.Phase = museumv1alpha1.PhaseReady
		meta.SetStatusCondition(&museum.Status.Conditions, metav1.Condition{
			Type:   museumv1alpha1.ConditionReady,
			Status: metav1.ConditionTrue,
			Reason: "Serving",
		})
		return ctrl.Result{RequeueAfter: defaultRequeueAfter}, nil
	}

	museum.Status.Phase = museumv1alpha1.PhaseApplying
	meta.SetStatusCondition(&museum.Status.Conditions, metav1.Condition{
		Type:    museumv1alpha1.ConditionReady,
		Status:  metav1.ConditionFalse,
		Reason:  "RollingOut",
		Message: fmt.Sprintf("%d/%d replicas ready", deployment.Status.ReadyReplicas, cfg.Replicas),
	})
	return ctrl.Result{RequeueAfter: rolloutRequeueAfter}, nil
}

// specToOptions converts the CRD spec into composition options.
func specToOptions(spec museumv1alpha1.ChartMuseumSpec) config.Options {
	opts := config.Options{
		Namespace: spec.Namespace,
		Replicas:  spec.Replicas,
		API:       spec.API,
		Metrics:   spec.Metrics,
		Storage: &config.StorageOptions{
			Provider: spec.Storage.Provider,
			Region:   spec.Storage.Region,
			Endpoint: spec.Storage.Endpoint,
		},
	}
	if spec.ServiceType != "" || spec.ServicePort != nil {
		opts.Service = &config.ServiceOptions{
			Type: spec.ServiceType,
			Port: spec.ServicePort,
		}
	}
	return opts
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// SetupWithManager sets up the controller with the Manager.
func (r *ChartMuseumReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&museumv1alpha1.ChartMuseum{}).
		Complete(r)
}
