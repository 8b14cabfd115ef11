// Package graph models a deployment as an ordered set of declared resources.
//
// A Graph is append-only: resources are declared one at a time, and every
// ownership or dependency reference must point at a resource that is already
// in the graph. That rule keeps dangling references unrepresentable and makes
// the declaration order a valid apply order, so consumers can walk Resources()
// front to back without running a topological sort.
package graph

import "fmt"

// Kind labels the concrete type of a declared resource. The packages that
// declare resources define their own Kind constants.
type Kind string

// Resource is a single declared resource. Object carries the kind-specific
// payload; the engine type-switches on it when applying the graph.
type Resource struct {
	// ID is unique within the graph and stable across compositions.
	ID string
	// Kind names the resource type, e.g. "Bucket" or "Deployment".
	Kind Kind
	// Owner is the ID of the parent resource, or empty for a root resource.
	Owner string
	// DependsOn lists IDs this resource must be applied after, beyond the
	// implicit ordering through Owner.
	DependsOn []string
	// Object is the declaration payload for this resource.
	Object any
}

// Graph holds the declared resources of one component in declaration order.
type Graph struct {
	component string
	order     []*Resource
	byID      map[string]*Resource
}

// New returns an empty graph for the named component.
func New(component string) *Graph {
	return &Graph{
		component: component,
		byID:      make(map[string]*Resource),
	}
}

// Component returns the component name the graph was composed for.
func (g *Graph) Component() string {
	return g.component
}

// Add validates and appends a resource declaration. It fails if the ID is
// empty or already taken, or if the owner or any dependency has not been
// declared yet.
func (g *Graph) Add(r Resource) (*Resource, error) {
	if r.ID == "" {
		return nil, fmt.Errorf("resource id is required")
	}
	if r.Kind == "" {
		return nil, fmt.Errorf("resource %q has no kind", r.ID)
	}
	if _, exists := g.byID[r.ID]; exists {
		return nil, fmt.Errorf("duplicate resource %q", r.ID)
	}
	if r.Owner != "" {
		if _, ok := g.byID[r.Owner]; !ok {
			return nil, fmt.Errorf("owner %q of resource %q is not declared", r.Owner, r.ID)
		}
	}
	for _, dep := range r.DependsOn {
		if _, ok := g.byID[dep]; !ok {
			return nil, fmt.Errorf("dependency %q of resource %q is not declared", dep, r.ID)
		}
	}

	stored := r
	stored.DependsOn = append([]string(nil), r.DependsOn...)
	g.order = append(g.order, &stored)
	g.byID[stored.ID] = &stored
	return &stored, nil
}

// Get returns the resource with the given ID.
func (g *Graph) Get(id string) (*Resource, bool) {
	r, ok := g.byID[id]
	return r, ok
}

// Resources returns the declared resources in declaration order. The slice is
// a copy; the pointed-to resources are shared with the graph.
func (g *Graph) Resources() []*Resource {
	return append([]*Resource(nil), g.order...)
}

// Len returns the number of declared resources.
func (g *Graph) Len() int {
	return len(g.order)
}
