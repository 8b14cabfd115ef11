// Package labels provides the standard label set applied to every Kubernetes
// resource of a deployment, so that resources stay selectable by component.
package labels

// Standard label keys and values.
const (
	// KeyApp identifies the application the resource belongs to.
	KeyApp = "app"

	// KeyRelease identifies the component (release) name.
	KeyRelease = "release"

	// AppChartMuseum is the fixed app label value.
	AppChartMuseum = "chartmuseum"
)

// Standard returns the label set for a component. Also used as the pod
// selector, so the set must stay stable across releases of this tool.
func Standard(component string) map[string]string {
	return map[string]string{
		KeyApp:     AppChartMuseum,
		KeyRelease: component,
	}
}

// Merge copies base and adds all labels from extra on top.
func Merge(base, extra map[string]string) map[string]string {
	result := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range extra {
		result[k] = v
	}
	return result
}

// Selector returns a label selector string matching every resource of a
// component.
func Selector(component string) string {
	return KeyApp + "=" + AppChartMuseum + "," + KeyRelease + "=" + component
}
