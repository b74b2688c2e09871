package handlers

import (
	"context"

	"github.com/fleetadm/fleetadm/internal/provisioning/netsite"
)

// ProvisionParams configures the full provisioning chain.
type ProvisionParams struct {
	Group         string
	Region        string
	Site          string
	Subnet        string
	AddressPrefix string
	SubnetPrefix  string
	Fleet         FleetParams
}

// Provision runs the full chain: affinity group, network site, fleet.
//
// Each step is idempotent and nothing is rolled back on failure, so the
// command can simply be re-run after fixing the cause; completed steps
// reduce to no-ops.
func Provision(ctx context.Context, configPath string, p ProvisionParams) error {
	pctx, err := newWorkflowContext(ctx, configPath)
	if err != nil {
		return err
	}

	if err := ensureGroup(pctx, GroupParams{Name: p.Group, Region: p.Region}); err != nil {
		return err
	}

	if err := netsite.EnsureSite(pctx, netsite.Params{
		SiteName:      p.Site,
		SubnetName:    p.Subnet,
		AffinityGroup: p.Group,
		AddressPrefix: p.AddressPrefix,
		SubnetPrefix:  p.SubnetPrefix,
	}); err != nil {
		return err
	}
	pctx.State.SiteName = p.Site

	// The fleet lands in the group's resolved region, not the requested
	// one, when the two diverge.
	fp := p.Fleet
	if fp.Location == "" {
		fp.Location = pctx.State.Region
	}
	return fleetDeploy(pctx, fp)
}
