package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/museumctl/internal/util/ptr"
)

// WizardResult holds the user's choices from the configuration wizard.
type WizardResult struct {
	Name        string
	Provider    string
	Region      string
	Namespace   string
	Replicas    int32
	ServiceType string
	API         bool
	Metrics     bool
}

// RunWizard runs the interactive configuration wizard.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		// Defaults
		Provider:    "amazon",
		Region:      "us-east-1",
		Namespace:   DefaultNamespace,
		Replicas:    DefaultReplicas,
		ServiceType: DefaultServiceType,
	}

	form := huh.NewForm(
		// Component identity
		huh.NewGroup(
			huh.NewInput().
				Title("Deployment name").
				Description("A unique name for this ChartMuseum deployment (DNS-safe, lowercase)").
				Placeholder("my-museum").
				Value(&result.Name).
				Validate(validateName),
		),

		// Storage backend
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Storage provider").
				Description("Object storage backend for chart packages").
				Options(
					huh.NewOption("Amazon S3", "amazon"),
				).
				Value(&result.Provider),

			huh.NewSelect[string]().
				Title("Region").
				Description("Region the chart bucket is created in").
				Options(
					huh.NewOption("us-east-1 (N. Virginia)", "us-east-1"),
					huh.NewOption("us-west-2 (Oregon)", "us-west-2"),
					huh.NewOption("eu-central-1 (Frankfurt)", "eu-central-1"),
					huh.NewOption("eu-west-1 (Ireland)", "eu-west-1"),
					huh.NewOption("ap-southeast-1 (Singapore)", "ap-southeast-1"),
				).
				Value(&result.Region),
		),

		// Cluster placement
		huh.NewGroup(
			huh.NewInput().
				Title("Namespace").
				Description("Kubernetes namespace the deployment lives in").
				Placeholder(DefaultNamespace).
				Value(&result.Namespace).
				Validate(validateNamespace),

			huh.NewSelect[int32]().
				Title("Replicas").
				Description("ChartMuseum server instances behind the service").
				Options(
					huh.NewOption("1 replica", int32(1)),
					huh.NewOption("2 replicas", int32(2)),
					huh.NewOption("3 replicas", int32(3)),
				).
				Value(&result.Replicas),
		),

		// Exposure
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Service type").
				Description("How the chart repository is exposed inside or outside the cluster").
				Options(
					huh.NewOption("ClusterIP (in-cluster only)", "ClusterIP"),
					huh.NewOption("NodePort", "NodePort"),
					huh.NewOption("LoadBalancer", "LoadBalancer"),
				).
				Value(&result.ServiceType),

			huh.NewConfirm().
				Title("Enable the chart API?").
				Description("Allows pushing and deleting charts over HTTP").
				Value(&result.API),

			huh.NewConfirm().
				Title("Enable Prometheus metrics?").
				Value(&result.Metrics),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

// ToOptions converts the wizard result to deployment options.
func (r *WizardResult) ToOptions() *Options {
	return &Options{
		Name:      r.Name,
		Namespace: r.Namespace,
		Replicas:  ptr.Int32(r.Replicas),
		API:       ptr.Bool(r.API),
		Metrics:   ptr.Bool(r.Metrics),
		Service: &ServiceOptions{
			Type: r.ServiceType,
		},
		Storage: &StorageOptions{
			Provider: r.Provider,
			Region:   r.Region,
		},
	}
}

// validateName validates the deployment name.
func validateName(s string) error {
	if s == "" {
		return fmt.Errorf("deployment name is required")
	}
	return validateDNSLabel(s, "deployment name")
}

// validateNamespace validates the namespace. Empty falls back to the default.
func validateNamespace(s string) error {
	if s == "" {
		return nil
	}
	return validateDNSLabel(s, "namespace")
}

func validateDNSLabel(s, what string) error {
	s = strings.ToLower(s)
	if len(s) > 63 {
		return fmt.Errorf("%s must be 63 characters or less", what)
	}
	for _, c := range s {
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-') {
			return fmt.Errorf("%s can only contain lowercase letters, numbers, and hyphens", what)
		}
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return fmt.Errorf("%s cannot start or end with a hyphen", what)
	}
	return nil
}
