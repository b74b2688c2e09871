package fleet

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platform "github.com/fleetadm/fleetadm/internal/platform/hcloud"
	"github.com/fleetadm/fleetadm/internal/provisioning"
)

func testPlan(names ...string) *Plan {
	plan := &Plan{
		Service:         "web-svc",
		Location:        "nbg1",
		AvailabilitySet: "web-avset",
		Endpoint: platform.Endpoint{
			Name:            "web",
			Protocol:        "tcp",
			LocalPort:       8080,
			PublicPort:      80,
			LoadBalancerSet: "web-lbset",
			ProbePort:       8080,
		},
	}
	for i, name := range names {
		plan.Instances = append(plan.Instances, platform.FleetInstance{
			ComputerName: name,
			Index:        i + 1,
		})
	}
	return plan
}

func TestSubmit_CreatesAllInstances(t *testing.T) {
	t.Parallel()
	var created []string
	var avset string
	var endpointEnsured bool
	dir := &platform.MockClient{
		EnsureAvailabilitySetFunc: func(_ context.Context, name string) error {
			avset = name
			return nil
		},
		EnsureLoadBalancedEndpointFunc: func(_ context.Context, _, _ string, _ platform.Endpoint) error {
			endpointEnsured = true
			return nil
		},
		CreateInstanceFunc: func(_ context.Context, _, _ string, inst platform.FleetInstance) (string, error) {
			created = append(created, inst.ComputerName)
			return fmt.Sprintf("203.0.113.%d", inst.Index), nil
		},
	}
	ctx := testContext(dir)

	require.NoError(t, Submit(ctx, testPlan("web1", "web2")))

	assert.Equal(t, "web-avset", avset)
	assert.True(t, endpointEnsured)
	assert.Equal(t, []string{"web1", "web2"}, created)
	assert.Equal(t, map[string]string{
		"web1": "203.0.113.1",
		"web2": "203.0.113.2",
	}, ctx.State.InstanceIPs)
}

func TestSubmit_NoRollbackOnMidBatchFailure(t *testing.T) {
	t.Parallel()
	var created []string
	dir := &platform.MockClient{
		CreateInstanceFunc: func(_ context.Context, _, _ string, inst platform.FleetInstance) (string, error) {
			if inst.ComputerName == "web2" {
				return "", errors.New("resource limit exceeded")
			}
			created = append(created, inst.ComputerName)
			return "203.0.113.1", nil
		},
	}
	ctx := testContext(dir)

	err := Submit(ctx, testPlan("web1", "web2", "web3"))
	require.Error(t, err)
	assert.True(t, provisioning.IsProvisioningFailure(err))
	assert.Contains(t, err.Error(), "web2")

	// web1 stays created and registered; web3 was never attempted.
	assert.Equal(t, []string{"web1"}, created)
	assert.Equal(t, map[string]string{"web1": "203.0.113.1"}, ctx.State.InstanceIPs)
}

func TestSubmit_EmitsPerInstanceEvents(t *testing.T) {
	t.Parallel()
	dir := &platform.MockClient{
		CreateInstanceFunc: func(_ context.Context, _, _ string, inst platform.FleetInstance) (string, error) {
			if inst.ComputerName == "web2" {
				return "", errors.New("resource limit exceeded")
			}
			return "203.0.113.1", nil
		},
	}
	ctx := testContext(dir)
	events := &eventLog{}
	ctx.Observer = events

	require.Error(t, Submit(ctx, testPlan("web1", "web2")))

	// Both instances were announced before their create call; only the
	// second one failed.
	createdNames := make([]string, 0, 2)
	for _, e := range events.events {
		if e.Type == provisioning.EventResourceCreating {
			createdNames = append(createdNames, e.Resource)
		}
	}
	assert.Equal(t, []string{"web1", "web2"}, createdNames)

	failures := events.messages(provisioning.EventResourceFailed)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "resource limit exceeded")
}

func TestSubmit_AvailabilitySetFailureStopsBatch(t *testing.T) {
	t.Parallel()
	dir := &platform.MockClient{
		EnsureAvailabilitySetFunc: func(context.Context, string) error {
			return errors.New("placement group quota reached")
		},
		CreateInstanceFunc: func(context.Context, string, string, platform.FleetInstance) (string, error) {
			t.Fatal("no instance may be created when the availability set is missing")
			return "", nil
		},
	}

	err := Submit(testContext(dir), testPlan("web1"))
	require.Error(t, err)
	assert.True(t, provisioning.IsProvisioningFailure(err))
}

func TestSubmit_EmptyPlanIsNoop(t *testing.T) {
	t.Parallel()
	dir := &platform.MockClient{
		EnsureAvailabilitySetFunc: func(context.Context, string) error {
			t.Fatal("nothing to reconcile for an empty plan")
			return nil
		},
	}
	require.NoError(t, Submit(testContext(dir), testPlan()))
}
