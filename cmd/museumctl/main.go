// Package main is the entry point for the museumctl CLI.
//
// museumctl deploys and manages ChartMuseum, the Helm chart repository
// server, on Kubernetes with S3-backed chart storage. A deployment is
// described by a small YAML file; museumctl composes it into a resource
// graph and reconciles cloud and cluster state against it without keeping
// any state of its own.
//
// Commands: init, plan, apply, destroy, push, health.
//
// For detailed usage information, run:
//
//	museumctl --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/museumctl/cmd/museumctl/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
