// Package env derives the ChartMuseum container environment from the resolved
// configuration and the provisioned storage backend.
//
// The server is configured exclusively through environment variables. Build
// returns them in a fixed order so that repeated compositions produce
// identical container specs.
package env

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	corev1 "k8s.io/api/core/v1"

	"github.com/imamik/museumctl/internal/config"
	"github.com/imamik/museumctl/internal/graph"
	"github.com/imamik/museumctl/internal/storage"
)

// Fixed server settings that are not user-configurable.
const (
	// logJSON keeps server logs machine-readable.
	logJSON = "true"
	// ProvFormField is the multipart form field for provenance uploads.
	ProvFormField = "prov"
)

// Var is one environment variable of the chart server. Exactly one of Value
// and SecretRef is meaningful: plain settings carry a Value, credentials are
// referenced from a secret and never inlined.
type Var struct {
	Name      string
	Value     graph.Value
	SecretRef *SecretRef
}

// SecretRef points at one key of a Kubernetes secret.
type SecretRef struct {
	Name string
	Key  string
}

// Build returns the chart server environment in emission order. The server
// exposes enable-style options as DISABLE_ variables, so the flag values are
// logically negated here.
func Build(cfg config.Config, res *storage.Result) []Var {
	vars := []Var{
		{Name: "DISABLE_API", Value: graph.Literal(strconv.FormatBool(!cfg.API))},
		{Name: "DISABLE_METRICS", Value: graph.Literal(strconv.FormatBool(!cfg.Metrics))},
		{Name: "LOG_JSON", Value: graph.Literal(logJSON)},
		{Name: "PROV_POST_FORM_FIELD_NAME", Value: graph.Literal(ProvFormField)},
		{Name: "STORAGE", Value: graph.Literal(string(res.Provider))},
		{Name: settingName(res.Provider, "REGION"), Value: graph.Literal(res.Region)},
		{Name: settingName(res.Provider, "BUCKET"), Value: graph.Deferred(res.Bucket)},
	}

	if res.Endpoint != "" {
		vars = append(vars, Var{
			Name:  settingName(res.Provider, "ENDPOINT"),
			Value: graph.Literal(res.Endpoint),
		})
	}

	if res.Credentials != nil {
		for _, ce := range res.Credentials.Env {
			vars = append(vars, Var{
				Name: ce.Name,
				SecretRef: &SecretRef{
					Name: res.Credentials.SecretName,
					Key:  ce.Key,
				},
			})
		}
	}

	return vars
}

// settingName builds a provider-specific setting name, e.g.
// STORAGE_AMAZON_REGION.
func settingName(provider storage.ID, setting string) string {
	return fmt.Sprintf("STORAGE_%s_%s", strings.ToUpper(string(provider)), setting)
}

// ToContainerEnv converts the variables to Kubernetes container env entries,
// blocking until every deferred value is resolved.
func ToContainerEnv(ctx context.Context, vars []Var) ([]corev1.EnvVar, error) {
	out := make([]corev1.EnvVar, 0, len(vars))
	for _, v := range vars {
		if v.SecretRef != nil {
			out = append(out, secretEnvVar(v))
			continue
		}
		value, err := v.Value.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving env %s: %w", v.Name, err)
		}
		out = append(out, corev1.EnvVar{Name: v.Name, Value: value})
	}
	return out, nil
}

// PreviewContainerEnv converts the variables without blocking. Unresolved
// values render as "${ref}" placeholders, for plan output.
func PreviewContainerEnv(vars []Var) []corev1.EnvVar {
	out := make([]corev1.EnvVar, 0, len(vars))
	for _, v := range vars {
		if v.SecretRef != nil {
			out = append(out, secretEnvVar(v))
			continue
		}
		out = append(out, corev1.EnvVar{Name: v.Name, Value: v.Value.String()})
	}
	return out
}

func secretEnvVar(v Var) corev1.EnvVar {
	return corev1.EnvVar{
		Name: v.Name,
		ValueFrom: &corev1.EnvVarSource{
			SecretKeyRef: &corev1.SecretKeySelector{
				LocalObjectReference: corev1.LocalObjectReference{Name: v.SecretRef.Name},
				Key:                  v.SecretRef.Key,
			},
		},
	}
}
