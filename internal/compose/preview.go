package compose

import (
	"fmt"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/imamik/museumctl/internal/graph"
	"github.com/imamik/museumctl/internal/storage"
)

// Preview renders the graph as multi-document YAML for plan output. Values
// the engine resolves at apply time render as "${ref}" placeholders, and
// secret payloads render as key names only.
func Preview(g *graph.Graph) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# component: %s (%d resources)\n", g.Component(), g.Len())

	for _, r := range g.Resources() {
		b.WriteString("---\n")
		fmt.Fprintf(&b, "# resource: %s (%s)\n", r.ID, r.Kind)
		if r.Owner != "" {
			fmt.Fprintf(&b, "# owner: %s\n", r.Owner)
		}
		if len(r.DependsOn) > 0 {
			fmt.Fprintf(&b, "# dependsOn: %s\n", strings.Join(r.DependsOn, ", "))
		}

		doc, err := previewObject(r)
		if err != nil {
			return "", err
		}
		data, err := yaml.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("failed to render %q: %w", r.ID, err)
		}
		b.Write(data)
	}

	return b.String(), nil
}

type previewBucket struct {
	RequestedName string `json:"requestedName"`
	Region        string `json:"region"`
	Name          string `json:"name"`
}

type previewPrincipal struct {
	UserName   string `json:"userName"`
	PolicyName string `json:"policyName"`
	Bucket     string `json:"bucket"`
}

type previewAccessKey struct {
	UserName string `json:"userName"`
	ID       string `json:"id"`
	Secret   string `json:"secret"`
}

type previewSecret struct {
	Name      string   `json:"name"`
	Namespace string   `json:"namespace"`
	Keys      []string `json:"keys"`
}

func previewObject(r *graph.Resource) (any, error) {
	switch obj := r.Object.(type) {
	case *NamespaceSpec:
		return obj.Render(), nil
	case *WorkloadSpec:
		return obj.Preview(), nil
	case *ServiceSpec:
		return obj.Render(), nil
	case *storage.BucketSpec:
		return previewBucket{
			RequestedName: obj.RequestedName,
			Region:        obj.Region,
			Name:          graph.Deferred(obj.Name).String(),
		}, nil
	case *storage.PrincipalSpec:
		return previewPrincipal{
			UserName:   obj.UserName,
			PolicyName: obj.PolicyName,
			Bucket:     graph.Deferred(obj.Bucket).String(),
		}, nil
	case *storage.AccessKeySpec:
		return previewAccessKey{
			UserName: obj.UserName,
			ID:       graph.Deferred(obj.ID).String(),
			Secret:   graph.Deferred(obj.Secret).String(),
		}, nil
	case *storage.SecretSpec:
		keys := make([]string, 0, len(obj.Data))
		for k := range obj.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return previewSecret{
			Name:      obj.Name,
			Namespace: obj.Namespace,
			Keys:      keys,
		}, nil
	default:
		return nil, fmt.Errorf("no preview for resource %q of kind %q", r.ID, r.Kind)
	}
}
