package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestroy(t *testing.T) {
	cmd := Destroy()

	require.NotNil(t, cmd)
	assert.Equal(t, "destroy", cmd.Use)
	assert.Equal(t, "Destroy a ChartMuseum deployment and all associated resources", cmd.Short)
	assert.Contains(t, cmd.Long, "Destroy removes all deployment resources")
}

func TestDestroy_ConfigFlagRequired(t *testing.T) {
	cmd := Destroy()

	flag := cmd.Flags().Lookup("config")
	require.NotNil(t, flag)

	// Check that the flag has the required annotation
	annotations := flag.Annotations
	_, hasRequired := annotations["cobra_annotation_bash_completion_one_required_flag"]
	assert.True(t, hasRequired || flag.Value.String() == "", "config flag should be required")
}

func TestDestroy_PurgeFlag(t *testing.T) {
	cmd := Destroy()

	flag := cmd.Flags().Lookup("purge")
	require.NotNil(t, flag, "purge flag should exist")
	assert.Equal(t, "false", flag.DefValue)
}

func TestDestroy_RunE(t *testing.T) {
	cmd := Destroy()
	assert.NotNil(t, cmd.RunE, "Destroy command should have RunE function")
}

func TestDestroy_LongDescription(t *testing.T) {
	cmd := Destroy()

	// Verify the long description mentions key resources and the purge rule
	assert.Contains(t, cmd.Long, "Secret")
	assert.Contains(t, cmd.Long, "IAM user")
	assert.Contains(t, cmd.Long, "bucket")
	assert.Contains(t, cmd.Long, "--purge")
	assert.Contains(t, cmd.Long, "WARNING")
}
