package handlers

import (
	"context"
	"fmt"
)

// Health probes the chart server's health endpoint.
func Health(ctx context.Context, url string) error {
	if err := newMuseumClient(url).Health(ctx); err != nil {
		return err
	}

	fmt.Printf("Chart server at %s is healthy\n", url)
	return nil
}
