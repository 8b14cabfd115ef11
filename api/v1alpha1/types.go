// Package v1alpha1 contains API Schema definitions for the museumctl.io v1alpha1 API group
// +kubebuilder:object:generate=true
// +groupName=museumctl.io
package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ChartMuseumSpec defines the desired state of a managed ChartMuseum
// deployment. The object's name is the component name all derived resource
// names start from.
type ChartMuseumSpec struct {
	// Storage configures the chart storage backend
	Storage StorageSpec `json:"storage"`

	// Namespace is the cluster namespace the deployment lives in
	// +kubebuilder:default="chartmuseum"
	// +optional
	Namespace string `json:"namespace,omitempty"`

	// Replicas is the number of chart server replicas
	// +kubebuilder:validation:Minimum=0
	// +kubebuilder:default=1
	// +optional
	Replicas *int32 `json:"replicas,omitempty"`

	// API enables the chart manipulation HTTP API
	// +optional
	API *bool `json:"api,omitempty"`

	// Metrics enables the Prometheus metrics endpoint
	// +optional
	Metrics *bool `json:"metrics,omitempty"`

	// ServiceType is the service type fronting the chart server
	// +kubebuilder:validation:Enum=ClusterIP;NodePort;LoadBalancer
	// +kubebuilder:default="ClusterIP"
	// +optional
	ServiceType string `json:"serviceType,omitempty"`

	// ServicePort is the port the service listens on
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=65535
	// +optional
	ServicePort *int32 `json:"servicePort,omitempty"`

	// Paused stops the operator from reconciling this deployment
	// +optional
	Paused bool `json:"paused,omitempty"`
}

// StorageSpec configures the chart storage backend.
type StorageSpec struct {
	// Provider is the storage backend (e.g., amazon)
	// +kubebuilder:validation:Enum=amazon
	Provider string `json:"provider"`

	// Region is the provider region the bucket is created in
	// +kubebuilder:validation:MinLength=1
	Region string `json:"region"`

	// Endpoint overrides the provider's default endpoint, for
	// S3-compatible object stores
	// +optional
	Endpoint string `json:"endpoint,omitempty"`
}

// ChartMuseumStatus defines the observed state of a ChartMuseum deployment.
type ChartMuseumStatus struct {
	// Phase is the overall deployment phase
	// +kubebuilder:validation:Enum=Pending;Applying;Ready;Failed
	Phase DeploymentPhase `json:"phase,omitempty"`

	// BucketName is the actual chart bucket name once provisioned
	// +optional
	BucketName string `json:"bucketName,omitempty"`

	// ReadyReplicas is the number of ready chart server replicas
	// +optional
	ReadyReplicas int32 `json:"readyReplicas,omitempty"`

	// Conditions represent the latest available observations
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// LastReconcileTime is when the operator last reconciled this deployment
	// +optional
	LastReconcileTime *metav1.Time `json:"lastReconcileTime,omitempty"`

	// ObservedGeneration is the last observed generation
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
}

// DeploymentPhase represents the overall deployment state.
type DeploymentPhase string

const (
	// PhasePending means the deployment has not been applied yet
	PhasePending DeploymentPhase = "Pending"
	// PhaseApplying means resources are being applied
	PhaseApplying DeploymentPhase = "Applying"
	// PhaseReady means all resources are applied and the workload is ready
	PhaseReady DeploymentPhase = "Ready"
	// PhaseFailed means the last apply failed
	PhaseFailed DeploymentPhase = "Failed"
)

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=museum
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Bucket",type=string,JSONPath=`.status.bucketName`
// +kubebuilder:printcolumn:name="Ready",type=integer,JSONPath=`.status.readyReplicas`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// ChartMuseum is the Schema for the chartmuseums API.
type ChartMuseum struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ChartMuseumSpec   `json:"spec,omitempty"`
	Status ChartMuseumStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// ChartMuseumList contains a list of ChartMuseum.
type ChartMuseumList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ChartMuseum `json:"items"`
}

// Condition types for ChartMuseum
const (
	// ConditionReady indicates the deployment is fully applied and serving
	ConditionReady = "Ready"
	// ConditionStorageProvisioned indicates the bucket and credentials exist
	ConditionStorageProvisioned = "StorageProvisioned"
)
