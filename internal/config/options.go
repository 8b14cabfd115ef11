// Package config defines the user-facing deployment options and resolves them
// into a complete effective configuration.
package config

import (
	"errors"
	"fmt"
)

// Defaults applied by Resolve when the corresponding option is unset.
const (
	DefaultName        = "chartmuseum"
	DefaultNamespace   = "chartmuseum"
	DefaultReplicas    = int32(1)
	DefaultServiceType = "ClusterIP"
	DefaultServicePort = int32(80)
)

// Options is the sparse, user-authored configuration. Pointer fields
// distinguish "unset" from an explicit zero value, so `replicas: 0` and
// `api: false` survive resolution.
type Options struct {
	// Name is the component name resources are derived from.
	Name      string          `yaml:"name,omitempty"`
	Namespace string          `yaml:"namespace,omitempty"`
	Replicas  *int32          `yaml:"replicas,omitempty"`
	API       *bool           `yaml:"api,omitempty"`
	Metrics   *bool           `yaml:"metrics,omitempty"`
	Service   *ServiceOptions `yaml:"service,omitempty"`
	Storage   *StorageOptions `yaml:"storage,omitempty"`
}

// ServiceOptions configures how the ChartMuseum service is exposed.
type ServiceOptions struct {
	Type string `yaml:"type,omitempty"`
	Port *int32 `yaml:"port,omitempty"`
}

// StorageOptions selects and parameterizes the chart storage backend.
type StorageOptions struct {
	Provider string `yaml:"provider,omitempty"`
	Region   string `yaml:"region,omitempty"`
	// Endpoint overrides the provider API endpoint, for S3-compatible
	// stores. Empty means the provider default.
	Endpoint string `yaml:"endpoint,omitempty"`
}

// Config is the fully resolved configuration. Every field carries its
// effective value; no field is optional past this point.
type Config struct {
	Namespace   string
	Replicas    int32
	API         bool
	Metrics     bool
	ServiceType string
	ServicePort int32
	Provider    string
	Region      string
	Endpoint    string
}

// MissingFieldError reports a required option that was not set.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q is not set", e.Field)
}

// ComponentName returns the configured component name or the default.
func (o Options) ComponentName() string {
	if o.Name != "" {
		return o.Name
	}
	return DefaultName
}

// Resolve merges the options over the defaults and returns the effective
// configuration. Unset top-level fields take their default; nested blocks are
// merged key by key, so setting service.type leaves service.port at its
// default. The storage provider and region have no defaults and must be set.
func Resolve(opts Options) (Config, error) {
	cfg := Config{
		Namespace:   DefaultNamespace,
		Replicas:    DefaultReplicas,
		ServiceType: DefaultServiceType,
		ServicePort: DefaultServicePort,
	}

	if opts.Namespace != "" {
		cfg.Namespace = opts.Namespace
	}
	if opts.Replicas != nil {
		if *opts.Replicas < 0 {
			return Config{}, fmt.Errorf("replicas must be zero or positive, got %d", *opts.Replicas)
		}
		cfg.Replicas = *opts.Replicas
	}
	if opts.API != nil {
		cfg.API = *opts.API
	}
	if opts.Metrics != nil {
		cfg.Metrics = *opts.Metrics
	}
	if opts.Service != nil {
		if opts.Service.Type != "" {
			cfg.ServiceType = opts.Service.Type
		}
		if opts.Service.Port != nil {
			if *opts.Service.Port < 1 || *opts.Service.Port > 65535 {
				return Config{}, fmt.Errorf("service port must be between 1 and 65535, got %d", *opts.Service.Port)
			}
			cfg.ServicePort = *opts.Service.Port
		}
	}
	if opts.Storage != nil {
		cfg.Provider = opts.Storage.Provider
		cfg.Region = opts.Storage.Region
		cfg.Endpoint = opts.Storage.Endpoint
	}

	var errs []error
	if cfg.Provider == "" {
		errs = append(errs, &MissingFieldError{Field: "storage.provider"})
	}
	if cfg.Region == "" {
		errs = append(errs, &MissingFieldError{Field: "storage.region"})
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
