package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/museumctl/internal/config"
	"github.com/imamik/museumctl/internal/engine"
)

func TestDestroy(t *testing.T) {
	t.Run("keeps the bucket without purge", func(t *testing.T) {
		saveAndRestoreFactories(t)
		loadOptionsFile = func(_ string) (*config.Options, error) { return validOptions(), nil }
		_, runner := installEngineMocks()

		err := Destroy(context.Background(), "museumctl.yaml", "", false)
		require.NoError(t, err)
		assert.Equal(t, 1, runner.destroyed)
		assert.False(t, runner.purged)
	})

	t.Run("purge empties the bucket first", func(t *testing.T) {
		saveAndRestoreFactories(t)
		loadOptionsFile = func(_ string) (*config.Options, error) { return validOptions(), nil }
		_, runner := installEngineMocks()

		err := Destroy(context.Background(), "museumctl.yaml", "", true)
		require.NoError(t, err)
		assert.Equal(t, 1, runner.destroyed)
		assert.True(t, runner.purged)
	})

	t.Run("engine failure is propagated", func(t *testing.T) {
		saveAndRestoreFactories(t)
		loadOptionsFile = func(_ string) (*config.Options, error) { return validOptions(), nil }
		_, runner := installEngineMocks()
		runner.destroyErr = errors.New("bucket not empty")

		err := Destroy(context.Background(), "museumctl.yaml", "", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket not empty")
	})

	t.Run("incomplete options fail before any client is built", func(t *testing.T) {
		saveAndRestoreFactories(t)
		loadOptionsFile = func(_ string) (*config.Options, error) {
			return &config.Options{Name: "demo"}, nil
		}
		cloudCalled := false
		newCloudClient = func(_ context.Context, _ config.Config) (engine.CloudStore, error) {
			cloudCalled = true
			return &mockCloudStore{}, nil
		}

		err := Destroy(context.Background(), "museumctl.yaml", "", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.region")
		assert.False(t, cloudCalled)
	})

	t.Run("cluster client failure is propagated", func(t *testing.T) {
		saveAndRestoreFactories(t)
		loadOptionsFile = func(_ string) (*config.Options, error) { return validOptions(), nil }
		installEngineMocks()
		newClusterClient = func(_ string) (ClusterClient, error) {
			return nil, errors.New("failed to build kubeconfig")
		}

		err := Destroy(context.Background(), "museumctl.yaml", "", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create cluster client")
	})
}
