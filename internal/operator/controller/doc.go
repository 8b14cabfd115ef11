// Package controller implements the Kubernetes controller for ChartMuseum
// custom resources.
//
// Each reconcile composes the resource graph from the spec and hands it to
// the provisioning engine: bucket, credential principal, access key, secret,
// deployment and service. The status tracks the deployment through
// Pending -> Applying -> Ready, or Failed when an apply step errors.
package controller
