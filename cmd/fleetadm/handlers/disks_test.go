package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platform "github.com/fleetadm/fleetadm/internal/platform/hcloud"
	"github.com/fleetadm/fleetadm/internal/provisioning"
)

type recordingRunner struct {
	host   string
	pushed []string
	ran    []string
}

func (r *recordingRunner) Run(_ context.Context, host, command string) (string, error) {
	r.host = host
	r.ran = append(r.ran, command)
	return "", nil
}

func (r *recordingRunner) Push(_ context.Context, host, remotePath string, _ []byte) error {
	r.host = host
	r.pushed = append(r.pushed, remotePath)
	return nil
}

func TestDisksSetup_RunsScriptOnHost(t *testing.T) {
	withTestDeps(t, &platform.MockClient{})
	runner := &recordingRunner{}
	withTestRunner(t, runner)

	require.NoError(t, DisksSetup(testCtx(), "", DisksParams{
		Host:      "198.51.100.7",
		Database:  "orders",
		DataDisks: 2,
		Volumes:   1,
		DataFiles: 2,
		LogFiles:  1,
	}))

	assert.Equal(t, "198.51.100.7", runner.host)
	assert.Len(t, runner.pushed, 1)
	assert.Len(t, runner.ran, 1)
}

func TestDisksSetup_ValidationError(t *testing.T) {
	withTestDeps(t, &platform.MockClient{})
	runner := &recordingRunner{}
	withTestRunner(t, runner)

	err := DisksSetup(testCtx(), "", DisksParams{
		Host:      "198.51.100.7",
		Database:  "orders",
		DataDisks: 1,
		Volumes:   4,
		DataFiles: 1,
		LogFiles:  1,
	})
	require.Error(t, err)
	assert.True(t, provisioning.IsConfigurationError(err))
	assert.Empty(t, runner.ran)
}
