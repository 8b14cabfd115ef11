package handlers

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/chartutil"

	"github.com/imamik/museumctl/internal/museum"
)

// ChartServer interface for testing - matches museum.Client.
type ChartServer interface {
	Health(ctx context.Context) error
	Upload(ctx context.Context, chartPath, provPath string) error
}

// Factory function variables for push and health - can be replaced in tests.
var (
	// newMuseumClient creates a chart server API client.
	newMuseumClient = func(url string) ChartServer {
		return museum.NewClient(url)
	}

	// packageChart packages a chart directory into a .tgz archive and
	// returns the archive path.
	packageChart = func(chartDir, destDir string) (string, error) {
		ch, err := loader.LoadDir(chartDir)
		if err != nil {
			return "", fmt.Errorf("failed to load chart: %w", err)
		}
		if err := ch.Validate(); err != nil {
			return "", fmt.Errorf("invalid chart: %w", err)
		}

		path, err := chartutil.Save(ch, destDir)
		if err != nil {
			return "", fmt.Errorf("failed to package chart: %w", err)
		}
		return path, nil
	}
)

// Push uploads a chart to the chart server. A chart directory is packaged
// into a .tgz first; a companion .prov file next to the archive is uploaded
// with it.
func Push(ctx context.Context, chartPath, url string) error {
	info, err := os.Stat(chartPath)
	if err != nil {
		return fmt.Errorf("chart not found: %w", err)
	}

	if info.IsDir() {
		tmpDir, err := os.MkdirTemp("", "museumctl-push-")
		if err != nil {
			return fmt.Errorf("failed to create temp dir: %w", err)
		}
		defer func() { _ = os.RemoveAll(tmpDir) }()

		packaged, err := packageChart(chartPath, tmpDir)
		if err != nil {
			return err
		}
		log.Printf("Packaged chart: %s", filepath.Base(packaged))
		chartPath = packaged
	}

	var provPath string
	if candidate := chartPath + ".prov"; fileExists(candidate) {
		provPath = candidate
		log.Printf("Including provenance file: %s", filepath.Base(provPath))
	}

	if err := newMuseumClient(url).Upload(ctx, chartPath, provPath); err != nil {
		return err
	}

	fmt.Printf("Pushed %s\n", filepath.Base(chartPath))
	return nil
}
