package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/imamik/museumctl/internal/compose"
	"github.com/imamik/museumctl/internal/config"
	"github.com/imamik/museumctl/internal/engine"
	"github.com/imamik/museumctl/internal/graph"
	"github.com/imamik/museumctl/internal/ui/tui"
)

// Destroy tears down a deployment in reverse declaration order, so dependents
// go before their dependencies.
//
// The chart bucket is kept unless purge is set: deleting a non-empty bucket
// fails the run instead of silently dropping stored charts, and everything
// deleted up to that point stays deleted. Re-running with --purge finishes
// the teardown.
func Destroy(ctx context.Context, configPath, kubeconfig string, purge bool) error {
	opts, err := loadOptions(configPath)
	if err != nil {
		return err
	}

	name := opts.ComponentName()
	cfg, err := config.Resolve(*opts)
	if err != nil {
		return err
	}

	g, err := compose.Compose(name, *opts)
	if err != nil {
		return fmt.Errorf("failed to compose %s: %w", name, err)
	}

	log.Printf("Destroying deployment %s (%d resources)", name, g.Len())
	if purge {
		log.Printf("Purge enabled: stored charts will be deleted")
	}

	cloud, err := newCloudClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	cluster, err := newClusterClient(resolveKubeconfig(kubeconfig))
	if err != nil {
		return fmt.Errorf("failed to create cluster client: %w", err)
	}

	if err := runDestroy(ctx, g, cloud, cluster, name, purge); err != nil {
		return err
	}

	fmt.Printf("\nDeployment %s destroyed.\n", name)
	return nil
}

// runDestroy runs the engine teardown, wrapped in the progress TUI on
// interactive terminals.
func runDestroy(ctx context.Context, g *graph.Graph, cloud engine.CloudStore, cluster ClusterClient, name string, purge bool) error {
	if !isInteractiveTTY() {
		return newEngine(cloud, cluster).Destroy(ctx, g, purge)
	}

	runFn := func(ch chan<- tui.ResourceMsg) error {
		return newEngine(cloud, cluster, engine.WithObserver(forwardingObserver(ch))).Destroy(ctx, g, purge)
	}
	return tui.RunDestroyTUI(ctx, runFn, name, resourceRows(g, true))
}
