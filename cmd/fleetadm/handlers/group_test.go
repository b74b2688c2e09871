package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platform "github.com/fleetadm/fleetadm/internal/platform/hcloud"
	"github.com/fleetadm/fleetadm/internal/provisioning"
)

func TestGroupEnsure_CreatesGroup(t *testing.T) {
	var gotName, gotRegion string
	dir := &platform.MockClient{
		EnsureAffinityGroupFunc: func(_ context.Context, name, region string) (platform.EnsureResult[*platform.AffinityGroup], error) {
			gotName, gotRegion = name, region
			return platform.EnsureResult[*platform.AffinityGroup]{
				Resource: &platform.AffinityGroup{Name: name, Region: region},
				Created:  true,
			}, nil
		},
	}
	withTestDeps(t, dir)

	require.NoError(t, GroupEnsure(testCtx(), "", GroupParams{Name: "prod-group", Region: "hel1"}))
	assert.Equal(t, "prod-group", gotName)
	assert.Equal(t, "hel1", gotRegion)
}

func TestGroupEnsure_RegionDefaultsToConfigLocation(t *testing.T) {
	var gotRegion string
	dir := &platform.MockClient{
		EnsureAffinityGroupFunc: func(_ context.Context, name, region string) (platform.EnsureResult[*platform.AffinityGroup], error) {
			gotRegion = region
			return platform.EnsureResult[*platform.AffinityGroup]{
				Resource: &platform.AffinityGroup{Name: name, Region: region},
			}, nil
		},
	}
	withTestDeps(t, dir)

	require.NoError(t, GroupEnsure(testCtx(), "", GroupParams{Name: "prod-group"}))
	assert.Equal(t, "nbg1", gotRegion)
}

func TestGroupEnsure_ConflictIsNotAnError(t *testing.T) {
	dir := &platform.MockClient{
		EnsureAffinityGroupFunc: func(_ context.Context, name, _ string) (platform.EnsureResult[*platform.AffinityGroup], error) {
			return platform.EnsureResult[*platform.AffinityGroup]{
				Resource: &platform.AffinityGroup{Name: name, Region: "fsn1"},
				Conflict: `region is "fsn1", requested "hel1"`,
			}, nil
		},
	}
	withTestDeps(t, dir)

	// The existing region wins, and the run succeeds.
	require.NoError(t, GroupEnsure(testCtx(), "", GroupParams{Name: "prod-group", Region: "hel1"}))
}

func TestGroupEnsure_CreateFailure(t *testing.T) {
	dir := &platform.MockClient{
		EnsureAffinityGroupFunc: func(context.Context, string, string) (platform.EnsureResult[*platform.AffinityGroup], error) {
			return platform.EnsureResult[*platform.AffinityGroup]{}, errors.New("placement group limit reached")
		},
	}
	withTestDeps(t, dir)

	err := GroupEnsure(testCtx(), "", GroupParams{Name: "prod-group"})
	require.Error(t, err)
	assert.True(t, provisioning.IsProvisioningFailure(err))
}
