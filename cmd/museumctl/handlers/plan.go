package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/museumctl/internal/compose"
)

// Plan composes the deployment graph and prints it as YAML without touching
// any API. The output is deterministic for a given configuration; values the
// engine resolves at apply time render as placeholders.
func Plan(_ context.Context, configPath string) error {
	opts, err := loadOptions(configPath)
	if err != nil {
		return err
	}

	name := opts.ComponentName()
	g, err := compose.Compose(name, *opts)
	if err != nil {
		return fmt.Errorf("failed to compose %s: %w", name, err)
	}

	out, err := compose.Preview(g)
	if err != nil {
		return err
	}

	fmt.Print(out)
	return nil
}
