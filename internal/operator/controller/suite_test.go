//go:build integration

// Package controller contains integration tests using envtest.
//
// Envtest provides a real Kubernetes API server and etcd instance for testing
// controller logic against the actual Kubernetes API. This is more reliable than
// mocking the client, as it catches issues with watch behavior, status updates,
// and CRD validation that mocks would miss.
//
// Run these tests with:
//
//	KUBEBUILDER_ASSETS="$(setup-envtest use -p path)" go test -v -tags=integration ./internal/operator/controller/...
package controller

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/envtest"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	museumv1alpha1 "github.com/imamik/museumctl/api/v1alpha1"
	"github.com/imamik/museumctl/internal/util/naming"
	"github.com/imamik/museumctl/internal/util/ptr"
)

// Test configuration
var (
	cfg       *rest.Config
	k8sClient client.Client
	testEnv   *envtest.Environment
	ctx       context.Context
	cancel    context.CancelFunc

	// Fake engine accessible to tests for verification
	suiteApplier *recordingApplier
)

// TestControllerIntegration is the entry point for Ginkgo tests.
func TestControllerIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Controller Integration Suite")
}

var _ = BeforeSuite(func() {
	logf.SetLogger(zap.New(zap.WriteTo(GinkgoWriter), zap.UseDevMode(true)))

	ctx, cancel = context.WithCancel(context.Background())

	By("bootstrapping test environment with real kube-apiserver and etcd")
	testEnv = &envtest.Environment{
		CRDDirectoryPaths:     []string{filepath.Join("..", "..", "..", "config", "crd", "bases")},
		ErrorIfCRDPathMissing: true,
	}

	var err error
	cfg, err = testEnv.Start()
	Expect(err).NotTo(HaveOccurred())
	Expect(cfg).NotTo(BeNil())

	// Register ChartMuseum CRD types with the scheme
	err = museumv1alpha1.AddToScheme(scheme.Scheme)
	Expect(err).NotTo(HaveOccurred())

	// Create the test client
	k8sClient, err = client.New(cfg, client.Options{Scheme: scheme.Scheme})
	Expect(err).NotTo(HaveOccurred())
	Expect(k8sClient).NotTo(BeNil())

	// Create controller manager
	k8sManager, err := ctrl.NewManager(cfg, ctrl.Options{
		Scheme: scheme.Scheme,
		Metrics: metricsserver.Options{
			BindAddress: "0", // Disable to avoid port conflicts in tests
		},
	})
	Expect(err).NotTo(HaveOccurred())

	// Register the controller with a fake engine so no cloud calls happen
	suiteApplier = &recordingApplier{}
	err = NewChartMuseumReconciler(
		k8sManager.GetClient(),
		k8sManager.GetScheme(),
		cfg,
		WithEngineFactory(staticEngineFactory(suiteApplier, nil)),
		WithMetrics(false),
	).SetupWithManager(k8sManager)
	Expect(err).NotTo(HaveOccurred())

	// Start the controller manager in background
	go func() {
		defer GinkgoRecover()
		err = k8sManager.Start(ctx)
		Expect(err).NotTo(HaveOccurred())
	}()

	By("waiting for manager cache to sync")
	Eventually(func() bool {
		return k8sManager.GetCache().WaitForCacheSync(ctx)
	}, time.Second*30, time.Millisecond*500).Should(BeTrue(), "timed out waiting for cache sync")

	By("verifying controller is ready by listing museums")
	Eventually(func() error {
		museums := &museumv1alpha1.ChartMuseumList{}
		return k8sManager.GetClient().List(ctx, museums)
	}, time.Second*10, time.Millisecond*100).Should(Succeed(), "controller not ready to list museums")
})

var _ = AfterSuite(func() {
	cancel()
	By("tearing down the test environment")
	err := testEnv.Stop()
	Expect(err).NotTo(HaveOccurred())
})

var _ = Describe("ChartMuseum Controller", func() {
	// Test timing constants - increased for CI environments which can be slower
	const (
		timeout  = time.Second * 30
		interval = time.Millisecond * 500
	)

	var testMuseumName string
	var testNamespace string
	var testCounter int

	BeforeEach(func() {
		// Unique names keep the specs from interfering with each other
		testCounter++
		testMuseumName = fmt.Sprintf("museum-%d-%d", GinkgoRandomSeed(), testCounter)
		testNamespace = "default"
	})

	AfterEach(func() {
		museum := &museumv1alpha1.ChartMuseum{}
		err := k8sClient.Get(ctx, types.NamespacedName{Name: testMuseumName, Namespace: testNamespace}, museum)
		if err == nil {
			_ = k8sClient.Delete(ctx, museum)
		}
	})

	// Helper function to create a basic ChartMuseum
	createMuseum := func(name string, opts ...func(*museumv1alpha1.ChartMuseum)) *museumv1alpha1.ChartMuseum {
		museum := &museumv1alpha1.ChartMuseum{
			ObjectMeta: metav1.ObjectMeta{
				Name:      name,
				Namespace: testNamespace,
			},
			Spec: museumv1alpha1.ChartMuseumSpec{
				Storage: museumv1alpha1.StorageSpec{
					Provider: "amazon",
					Region:   "us-east-1",
				},
			},
		}
		for _, opt := range opts {
			opt(museum)
		}
		return museum
	}

	getMuseum := func(name string) *museumv1alpha1.ChartMuseum {
		museum := &museumv1alpha1.ChartMuseum{}
		Eventually(func() error {
			return k8sClient.Get(ctx, types.NamespacedName{Name: name, Namespace: testNamespace}, museum)
		}, timeout, interval).Should(Succeed())
		return museum
	}

	Context("Museum Creation", func() {
		It("should create a ChartMuseum and reconcile it", func() {
			By("Creating a new ChartMuseum")
			museum := createMuseum(testMuseumName)
			Expect(k8sClient.Create(ctx, museum)).Should(Succeed())

			By("Verifying the museum is created with defaulted spec")
			created := getMuseum(testMuseumName)
			Expect(created.Spec.Storage.Provider).Should(Equal("amazon"))
			Expect(created.Spec.Namespace).Should(Equal("chartmuseum"))
			Expect(*created.Spec.Replicas).Should(Equal(int32(1)))

			By("Waiting for the controller to run the engine")
			Eventually(func() []string {
				return suiteApplier.applied
			}, timeout, interval).Should(ContainElement(testMuseumName))
		})

		It("should update museum status after reconciliation", func() {
			By("Creating a ChartMuseum")
			museum := createMuseum(testMuseumName)
			Expect(k8sClient.Create(ctx, museum)).Should(Succeed())

			By("Waiting for the controller to reconcile and update status")
			Eventually(func() bool {
				m := &museumv1alpha1.ChartMuseum{}
				err := k8sClient.Get(ctx, types.NamespacedName{Name: testMuseumName, Namespace: testNamespace}, m)
				if err != nil {
					return false
				}
				return m.Status.LastReconcileTime != nil
			}, timeout, interval).Should(BeTrue(), "reconciliation did not update LastReconcileTime")

			// The fake engine resolves the bucket name like a real run would
			Eventually(func() string {
				m := &museumv1alpha1.ChartMuseum{}
				err := k8sClient.Get(ctx, types.NamespacedName{Name: testMuseumName, Namespace: testNamespace}, m)
				if err != nil {
					return ""
				}
				return m.Status.BucketName
			}, timeout, interval).Should(Equal(testMuseumName + "-charts"))

			// No deployment exists, so the phase stays at Applying
			Eventually(func() string {
				m := &museumv1alpha1.ChartMuseum{}
				err := k8sClient.Get(ctx, types.NamespacedName{Name: testMuseumName, Namespace: testNamespace}, m)
				if err != nil {
					return ""
				}
				return string(m.Status.Phase)
			}, timeout, interval).Should(Equal("Applying"))
		})

		It("should report Ready once the deployment is ready", func() {
			By("Creating the target namespace")
			ns := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "chartmuseum"}}
			err := k8sClient.Create(ctx, ns)
			if err != nil && !errors.IsAlreadyExists(err) {
				Expect(err).NotTo(HaveOccurred())
			}

			By("Creating a ChartMuseum")
			museum := createMuseum(testMuseumName)
			Expect(k8sClient.Create(ctx, museum)).Should(Succeed())

			By("Creating a ready deployment the way the engine would")
			podLabels := map[string]string{"app.kubernetes.io/instance": testMuseumName}
			deployment := &appsv1.Deployment{
				ObjectMeta: metav1.ObjectMeta{
					Name:      naming.Deployment(testMuseumName),
					Namespace: "chartmuseum",
				},
				Spec: appsv1.DeploymentSpec{
					Replicas: ptr.Int32(1),
					Selector: &metav1.LabelSelector{MatchLabels: podLabels},
					Template: corev1.PodTemplateSpec{
						ObjectMeta: metav1.ObjectMeta{Labels: podLabels},
						Spec: corev1.PodSpec{
							Containers: []corev1.Container{
								{Name: "chartmuseum", Image: "ghcr.io/helm/chartmuseum:v0.16.2"},
							},
						},
					},
				},
			}
			Expect(k8sClient.Create(ctx, deployment)).Should(Succeed())
			deployment.Status.ReadyReplicas = 1
			Expect(k8sClient.Status().Update(ctx, deployment)).Should(Succeed())

			By("Verifying the museum reports Ready")
			Eventually(func() string {
				m := &museumv1alpha1.ChartMuseum{}
				err := k8sClient.Get(ctx, types.NamespacedName{Name: testMuseumName, Namespace: testNamespace}, m)
				if err != nil {
					return ""
				}
				return string(m.Status.Phase)
			}, timeout, interval).Should(Equal("Ready"))

			By("Cleaning up the deployment")
			Expect(k8sClient.Delete(ctx, deployment)).Should(Succeed())
		})
	})

	Context("Paused Museums", func() {
		It("should skip reconciliation when the museum is paused", func() {
			By("Creating a paused ChartMuseum")
			museum := createMuseum(testMuseumName, func(m *museumv1alpha1.ChartMuseum) {
				m.Spec.Paused = true
			})
			Expect(k8sClient.Create(ctx, museum)).Should(Succeed())

			By("Verifying the museum status remains empty (not reconciled)")
			Consistently(func() string {
				m := &museumv1alpha1.ChartMuseum{}
				err := k8sClient.Get(ctx, types.NamespacedName{Name: testMuseumName, Namespace: testNamespace}, m)
				if err != nil {
					return "error"
				}
				return string(m.Status.Phase)
			}, time.Second*3, interval).Should(BeEmpty())
		})

		It("should resume reconciliation when the museum is unpaused", func() {
			By("Creating a paused ChartMuseum")
			museum := createMuseum(testMuseumName, func(m *museumv1alpha1.ChartMuseum) {
				m.Spec.Paused = true
			})
			Expect(k8sClient.Create(ctx, museum)).Should(Succeed())

			By("Waiting to ensure it's not reconciled")
			Consistently(func() string {
				m := &museumv1alpha1.ChartMuseum{}
				_ = k8sClient.Get(ctx, types.NamespacedName{Name: testMuseumName, Namespace: testNamespace}, m)
				return string(m.Status.Phase)
			}, time.Second*2, interval).Should(BeEmpty())

			By("Unpausing the museum")
			Eventually(func() error {
				m := &museumv1alpha1.ChartMuseum{}
				if err := k8sClient.Get(ctx, types.NamespacedName{Name: testMuseumName, Namespace: testNamespace}, m); err != nil {
					return err
				}
				m.Spec.Paused = false
				return k8sClient.Update(ctx, m)
			}, timeout, interval).Should(Succeed())

			By("Verifying the controller starts reconciling")
			Eventually(func() string {
				m := &museumv1alpha1.ChartMuseum{}
				err := k8sClient.Get(ctx, types.NamespacedName{Name: testMuseumName, Namespace: testNamespace}, m)
				if err != nil {
					return ""
				}
				return string(m.Status.Phase)
			}, timeout, interval).ShouldNot(BeEmpty())
		})
	})

	Context("Museum Deletion", func() {
		It("should handle museum deletion gracefully", func() {
			By("Creating a ChartMuseum")
			museum := createMuseum(testMuseumName)
			Expect(k8sClient.Create(ctx, museum)).Should(Succeed())

			By("Waiting for the museum to be reconciled")
			getMuseum(testMuseumName)

			By("Deleting the museum")
			Expect(k8sClient.Delete(ctx, museum)).Should(Succeed())

			By("Verifying the museum is eventually deleted")
			Eventually(func() bool {
				m := &museumv1alpha1.ChartMuseum{}
				err := k8sClient.Get(ctx, types.NamespacedName{Name: testMuseumName, Namespace: testNamespace}, m)
				return errors.IsNotFound(err)
			}, timeout, interval).Should(BeTrue())
		})
	})

	Context("Spec Validation", func() {
		It("should reject a museum without a storage region", func() {
			museum := createMuseum(testMuseumName, func(m *museumv1alpha1.ChartMuseum) {
				m.Spec.Storage.Region = ""
			})
			Expect(k8sClient.Create(ctx, museum)).ShouldNot(Succeed())
		})

		It("should reject an unsupported storage provider", func() {
			museum := createMuseum(testMuseumName, func(m *museumv1alpha1.ChartMuseum) {
				m.Spec.Storage.Provider = "gcs"
			})
			Expect(k8sClient.Create(ctx, museum)).ShouldNot(Succeed())
		})
	})
})
