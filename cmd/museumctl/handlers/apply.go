// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/imamik/museumctl/internal/compose"
	"github.com/imamik/museumctl/internal/config"
	"github.com/imamik/museumctl/internal/engine"
	"github.com/imamik/museumctl/internal/graph"
	"github.com/imamik/museumctl/internal/platform/amazon"
	"github.com/imamik/museumctl/internal/platform/kube"
	"github.com/imamik/museumctl/internal/ui/tui"
	"github.com/imamik/museumctl/internal/util/naming"
)

// rolloutTimeout bounds how long apply --wait blocks on the rollout.
const rolloutTimeout = 5 * time.Minute

// Runner interface for testing - matches engine.Engine.
type Runner interface {
	Apply(ctx context.Context, g *graph.Graph) error
	Destroy(ctx context.Context, g *graph.Graph, purge bool) error
}

// ClusterClient interface for testing - matches kube.Client. It extends the
// engine's cluster surface with the rollout wait used by apply --wait.
type ClusterClient interface {
	engine.ClusterClient
	WaitForDeploymentReady(ctx context.Context, namespace, name string, timeout time.Duration) error
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadOptionsFile loads deployment options from a file.
	loadOptionsFile = config.Load

	// findOptionsFile locates the default options file.
	findOptionsFile = config.FindConfigFile

	// newCloudClient creates the provider-side storage client. Credentials
	// come from the AWS SDK default chain.
	newCloudClient = func(ctx context.Context, cfg config.Config) (engine.CloudStore, error) {
		return amazon.NewClient(ctx, amazon.Options{Region: cfg.Region, Endpoint: cfg.Endpoint})
	}

	// newClusterClient creates the cluster-side client from a kubeconfig.
	newClusterClient = func(kubeconfig string) (ClusterClient, error) {
		return kube.NewClient(kubeconfig)
	}

	// newEngine creates the engine that runs the graph.
	newEngine = func(cloud engine.CloudStore, cluster engine.ClusterClient, opts ...engine.Option) Runner {
		return engine.New(cloud, cluster, opts...)
	}
)

// Apply composes the deployment graph and applies it against the storage
// provider and the cluster.
//
// The run is a single pass in declaration order: chart bucket and
// credentials first, then the cluster resources that reference them. Every
// step is create-or-update, so re-running after a failure resumes where it
// stopped. The access key is rotated on every run.
func Apply(ctx context.Context, configPath, kubeconfig string, wait bool) error {
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

	log.Printf("Applying deployment %s (%d resources)", name, g.Len())

	cloud, err := newCloudClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	cluster, err := newClusterClient(resolveKubeconfig(kubeconfig))
	if err != nil {
		return fmt.Errorf("failed to create cluster client: %w", err)
	}

	if err := runApply(ctx, g, cloud, cluster, name, cfg.Region); err != nil {
		return err
	}

	if wait {
		log.Printf("Waiting for deployment rollout...")
		if err := cluster.WaitForDeploymentReady(ctx, cfg.Namespace, naming.Deployment(name), rolloutTimeout); err != nil {
			return fmt.Errorf("deployment did not become ready: %w", err)
		}
	}

	printApplySuccess(name, g, cfg)
	return nil
}

// runApply runs the engine, wrapped in the progress TUI on interactive
// terminals.
func runApply(ctx context.Context, g *graph.Graph, cloud engine.CloudStore, cluster ClusterClient, name, region string) error {
	if !isInteractiveTTY() {
		return newEngine(cloud, cluster).Apply(ctx, g)
	}

	runFn := func(ch chan<- tui.ResourceMsg) error {
		return newEngine(cloud, cluster, engine.WithObserver(forwardingObserver(ch))).Apply(ctx, g)
	}
	return tui.RunApplyTUI(ctx, runFn, name, region, resourceRows(g, false))
}

// loadOptions loads deployment options. If configPath is empty, it looks for
// museumctl.yaml in the current directory and its parents.
func loadOptions(configPath string) (*config.Options, error) {
	if configPath == "" {
		path, err := findOptionsFile()
		if err != nil {
			return nil, fmt.Errorf("no config file found: %w\nRun 'museumctl init' to create one", err)
		}
		configPath = path
	}

	opts, err := loadOptionsFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log.Printf("Using config: %s", configPath)
	return opts, nil
}

// resolveKubeconfig returns the kubeconfig path, falling back to the
// KUBECONFIG environment variable. Empty means the default location.
func resolveKubeconfig(path string) string {
	if path != "" {
		return path
	}
	return os.Getenv("KUBECONFIG")
}

// isInteractiveTTY reports whether stdout is attached to a terminal.
func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// resourceRows lists the graph's resources as TUI rows, reversed for destroy
// runs since the engine walks the graph backwards.
func resourceRows(g *graph.Graph, reverse bool) []tui.ResourceRow {
	resources := g.Resources()
	rows := make([]tui.ResourceRow, 0, len(resources))
	for _, r := range resources {
		rows = append(rows, tui.ResourceRow{ID: r.ID, Kind: string(r.Kind)})
	}
	if reverse {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	return rows
}

// forwardingObserver routes engine events to the TUI as row updates.
func forwardingObserver(ch chan<- tui.ResourceMsg) engine.Observer {
	return engine.ObserverFunc(func(event engine.Event) {
		switch event.Type {
		case engine.EventResourceApplied, engine.EventResourceDeleted:
			ch <- tui.ResourceMsg{ID: event.Resource, Detail: event.Detail, Done: true}
		case engine.EventResourceFailed:
			ch <- tui.ResourceMsg{ID: event.Resource, Err: event.Err}
		default:
			ch <- tui.ResourceMsg{ID: event.Resource}
		}
	})
}

// printApplySuccess outputs the outcome and next steps for the user.
func printApplySuccess(name string, g *graph.Graph, cfg config.Config) {
	fmt.Printf("\nDeployment %s applied.\n", name)
	if bucket, ok := compose.BucketName(g); ok {
		fmt.Printf("Charts are stored in bucket: %s\n", bucket)
	}

	fmt.Printf("\nCheck the rollout with:\n")
	fmt.Printf("  kubectl -n %s get deploy,svc\n", cfg.Namespace)

	fmt.Printf("\nReach the chart server locally with:\n")
	fmt.Printf("  kubectl -n %s port-forward svc/%s 8080:%d\n", cfg.Namespace, naming.Service(name), cfg.ServicePort)
	fmt.Printf("  museumctl health\n")
}
