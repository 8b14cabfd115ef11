package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/museumctl/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive configuration wizard.
	runWizard = config.RunWizard

	// saveOptions writes deployment options to a file.
	saveOptions = config.Save
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return err
	}

	if err := saveOptions(result.ToOptions(), outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, result)
	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("museumctl - ChartMuseum on Kubernetes")
	fmt.Println("=====================================")
	fmt.Println()
	fmt.Println("This wizard creates a deployment configuration with sensible defaults.")
	fmt.Println("Only the values you change end up in the file.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, result *config.WizardResult) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Deployment Summary")
	fmt.Println("------------------")
	fmt.Printf("  Name:      %s\n", result.Name)
	fmt.Printf("  Storage:   %s (%s)\n", result.Provider, result.Region)
	fmt.Printf("  Namespace: %s\n", result.Namespace)
	fmt.Printf("  Replicas:  %d\n", result.Replicas)
	fmt.Printf("  Service:   %s\n", result.ServiceType)
	fmt.Printf("  Chart API: %s\n", enabledDisabled(result.API))
	fmt.Printf("  Metrics:   %s\n", enabledDisabled(result.Metrics))
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Printf("  1. Preview the resources:  museumctl plan -c %s\n", outputPath)
	fmt.Printf("  2. Create the deployment:  museumctl apply -c %s\n", outputPath)
}

func enabledDisabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
