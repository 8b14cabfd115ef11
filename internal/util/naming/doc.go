// Package naming derives resource names from a deployment's component name.
//
// Every resource follows a fixed pattern ({component}-charts for the bucket,
// {component}-chartmuseum for the workload) so that a deployment stays
// identifiable and destroyable by its component name alone.
package naming
