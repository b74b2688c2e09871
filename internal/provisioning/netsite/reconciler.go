// Package netsite reconciles virtual network sites against the directory's
// network configuration document.
package netsite

import (
	"fmt"

	"github.com/fleetadm/fleetadm/internal/netcfg"
	"github.com/fleetadm/fleetadm/internal/provisioning"
)

const phase = "network"

// Params identifies the site to reconcile.
type Params struct {
	SiteName      string
	SubnetName    string
	AffinityGroup string
	AddressPrefix string
	SubnetPrefix  string
}

// EnsureSite makes sure a virtual network site with one subnet exists under
// the given affinity group.
//
// An already-deployed site is left untouched: the address space of an
// existing site is never widened or narrowed. A site deployed under a
// different affinity group in the SAME region is re-homed (last writer
// wins); a different region is a topology conflict and fails. Address
// prefixes are passed through unvalidated — a malformed prefix is rejected
// at submission.
func EnsureSite(ctx *provisioning.Context, p Params) error {
	site, err := ctx.Dir.GetNetworkSite(ctx, p.SiteName)
	if err != nil {
		return fmt.Errorf("network site lookup: %w", err)
	}

	if site != nil {
		if site.AffinityGroup == p.AffinityGroup {
			provisioning.LogResourceExists(ctx.Observer, phase, "network site", p.SiteName)
			return nil
		}
		return rehomeSite(ctx, p, site.AffinityGroup)
	}

	doc, err := ctx.Dir.GetNetworkConfiguration(ctx)
	if err != nil {
		return fmt.Errorf("network configuration fetch: %w", err)
	}

	doc = doc.WithSite(netcfg.Site{
		Name:            p.SiteName,
		AffinityGroup:   p.AffinityGroup,
		AddressPrefixes: []string{p.AddressPrefix},
		Subnets:         []netcfg.Subnet{{Name: p.SubnetName, AddressPrefix: p.SubnetPrefix}},
	})

	if err := ctx.Dir.SetNetworkConfiguration(ctx, doc); err != nil {
		return provisioning.NewProvisioningFailure("network site", p.SiteName, err)
	}
	provisioning.LogResourceCreated(ctx.Observer, phase, "network site", p.SiteName)
	return nil
}

// rehomeSite moves an existing site under another affinity group. Allowed
// only when both groups resolve to the same region; moving a site across
// regions would strand its resources.
func rehomeSite(ctx *provisioning.Context, p Params, currentGroup string) error {
	target, err := ctx.Dir.GetAffinityGroup(ctx, p.AffinityGroup)
	if err != nil {
		return fmt.Errorf("affinity group lookup: %w", err)
	}
	if target == nil {
		return provisioning.NewConfigurationError("affinity group %q does not exist", p.AffinityGroup)
	}

	current, err := ctx.Dir.GetAffinityGroup(ctx, currentGroup)
	if err != nil {
		return fmt.Errorf("affinity group lookup: %w", err)
	}
	if current != nil && current.Region != target.Region {
		return provisioning.NewConfigurationError(
			"site %q belongs to affinity group %q in region %q; cannot move it to %q in region %q",
			p.SiteName, currentGroup, current.Region, p.AffinityGroup, target.Region)
	}

	doc, err := ctx.Dir.GetNetworkConfiguration(ctx)
	if err != nil {
		return fmt.Errorf("network configuration fetch: %w", err)
	}
	doc = doc.WithSiteAffinityGroup(p.SiteName, p.AffinityGroup)

	if err := ctx.Dir.SetNetworkConfiguration(ctx, doc); err != nil {
		return provisioning.NewProvisioningFailure("network site", p.SiteName, err)
	}
	ctx.Observer.Printf("[%s] re-homed site %s from affinity group %s to %s", phase, p.SiteName, currentGroup, p.AffinityGroup)
	return nil
}
