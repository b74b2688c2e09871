package handlers

import (
	"context"
	"fmt"

	"github.com/fleetadm/fleetadm/internal/provisioning"
)

// GroupParams identifies the affinity group to reconcile.
type GroupParams struct {
	Name   string
	Region string
}

// GroupEnsure reconciles one affinity group.
func GroupEnsure(ctx context.Context, configPath string, p GroupParams) error {
	pctx, err := newWorkflowContext(ctx, configPath)
	if err != nil {
		return err
	}
	if err := ensureGroup(pctx, p); err != nil {
		return err
	}
	fmt.Print(renderGroupSummary(pctx.State.Group))
	return nil
}

// ensureGroup runs the group reconciliation against an existing workflow
// context; the provision driver reuses it.
func ensureGroup(pctx *provisioning.Context, p GroupParams) error {
	region := p.Region
	if region == "" {
		region = pctx.Config.Location
	}

	res, err := pctx.Dir.EnsureAffinityGroup(pctx, p.Name, region)
	if err != nil {
		return provisioning.NewProvisioningFailure("affinity group", p.Name, err)
	}

	switch {
	case res.Created:
		provisioning.LogResourceCreated(pctx.Observer, "group", "affinity group", p.Name)
	case res.Conflict != "":
		provisioning.LogConflict(pctx.Observer, "group", p.Name, "region", region, res.Resource.Region)
	default:
		provisioning.LogResourceExists(pctx.Observer, "group", "affinity group", p.Name)
	}

	// Later steps operate in the group's actual region, which may differ
	// from the requested one.
	pctx.State.Group = res.Resource
	pctx.State.Region = res.Resource.Region
	return nil
}
