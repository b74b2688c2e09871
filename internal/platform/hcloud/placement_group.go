package hcloud

import (
	"context"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// GetAffinityGroup returns the affinity group with the given name, or nil.
func (c *RealClient) GetAffinityGroup(ctx context.Context, name string) (*AffinityGroup, error) {
	pg, _, err := c.placementGroup.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get affinity group %q: %w", name, err)
	}
	if pg == nil || pg.Labels[labelRole] != roleAffinityGroup {
		return nil, nil
	}
	return affinityGroupFromPG(pg), nil
}

// EnsureAffinityGroup creates the affinity group when absent. When it
// exists with another region the existing region wins and the result
// carries a conflict description; the region of a group never changes
// after creation.
func (c *RealClient) EnsureAffinityGroup(ctx context.Context, name, region string) (EnsureResult[*AffinityGroup], error) {
	res, err := (&EnsureOperation[*hcloud.PlacementGroup, hcloud.PlacementGroupCreateOpts]{
		Name:         name,
		ResourceType: "affinity group",
		Get:          c.placementGroup.GetByName,
		Create:       c.createPlacementGroup,
		CreateOptsMapper: func() hcloud.PlacementGroupCreateOpts {
			return hcloud.PlacementGroupCreateOpts{
				Name: name,
				Type: hcloud.PlacementGroupTypeSpread,
				Labels: map[string]string{
					labelRole:   roleAffinityGroup,
					labelRegion: region,
				},
			}
		},
		Diverged: func(pg *hcloud.PlacementGroup) (string, bool) {
			actual := pg.Labels[labelRegion]
			if actual != region {
				return fmt.Sprintf("region is %q, requested %q", actual, region), true
			}
			return "", false
		},
	}).Execute(ctx, c)
	if err != nil {
		return EnsureResult[*AffinityGroup]{}, err
	}

	return EnsureResult[*AffinityGroup]{
		Resource: affinityGroupFromPG(res.Resource),
		Created:  res.Created,
		Conflict: res.Conflict,
	}, nil
}

// EnsureAvailabilitySet makes sure a spread placement directive with the
// given name exists.
func (c *RealClient) EnsureAvailabilitySet(ctx context.Context, name string) error {
	_, err := (&EnsureOperation[*hcloud.PlacementGroup, hcloud.PlacementGroupCreateOpts]{
		Name:         name,
		ResourceType: "availability set",
		Get:          c.placementGroup.GetByName,
		Create:       c.createPlacementGroup,
		CreateOptsMapper: func() hcloud.PlacementGroupCreateOpts {
			return hcloud.PlacementGroupCreateOpts{
				Name:   name,
				Type:   hcloud.PlacementGroupTypeSpread,
				Labels: map[string]string{labelRole: roleAvailabilitySet},
			}
		},
	}).Execute(ctx, c)
	return err
}

func (c *RealClient) createPlacementGroup(ctx context.Context, opts hcloud.PlacementGroupCreateOpts) (*CreateResult[*hcloud.PlacementGroup], *hcloud.Response, error) {
	res, resp, err := c.placementGroup.Create(ctx, opts)
	if err != nil {
		return nil, resp, err
	}
	return &CreateResult[*hcloud.PlacementGroup]{Resource: res.PlacementGroup, Action: res.Action}, resp, nil
}

func affinityGroupFromPG(pg *hcloud.PlacementGroup) *AffinityGroup {
	return &AffinityGroup{
		ID:     pg.ID,
		Name:   pg.Name,
		Region: pg.Labels[labelRegion],
	}
}
