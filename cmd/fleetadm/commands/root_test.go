package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "fleetadm", cmd.Use)
	assert.Equal(t, "Provision load-balanced server fleets on Hetzner Cloud", cmd.Short)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	expectedSubcommands := []string{
		"group",
		"network",
		"fleet",
		"upload",
		"disks",
		"provision",
		"version",
	}

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, expected := range expectedSubcommands {
		assert.True(t, subcommands[expected], "Expected subcommand %s not found", expected)
	}
}

func TestFleet_HasCreateAndExtend(t *testing.T) {
	cmd := Fleet()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["create"])
	assert.True(t, names["extend"])
}

func TestFleetCreate_RequiredFlags(t *testing.T) {
	cmd := fleetCreate()

	for _, name := range []string{"service", "base", "endpoint", "port"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, "flag %s missing", name)
		assert.Contains(t, flag.Annotations, cobra.BashCompOneRequiredFlag, "flag %s should be required", name)
	}
}

func TestNetworkEnsure_RequiredFlags(t *testing.T) {
	cmd := networkEnsure()

	for _, name := range []string{"site", "subnet", "group", "prefix", "subnet-prefix"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, "flag %s missing", name)
	}
}
