package hcloud

import (
	"context"
	"fmt"
	"net"
	"sort"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/fleetadm/fleetadm/internal/netcfg"
	"github.com/fleetadm/fleetadm/internal/util/labels"
)

// GetNetworkSite returns the deployed virtual network site with the given
// name, or nil when absent.
func (c *RealClient) GetNetworkSite(ctx context.Context, name string) (*netcfg.Site, error) {
	n, _, err := c.network.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get network site %q: %w", name, err)
	}
	if n == nil || n.Labels[labelRole] != roleNetworkSite {
		return nil, nil
	}
	site := siteFromNetwork(n)
	return &site, nil
}

// GetNetworkConfiguration builds the network configuration document from
// every deployed site. When no sites exist the empty skeleton is returned.
func (c *RealClient) GetNetworkConfiguration(ctx context.Context) (netcfg.Document, error) {
	networks, err := c.network.AllWithOpts(ctx, hcloud.NetworkListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: labels.Selector(labelRole, roleNetworkSite)},
	})
	if err != nil {
		return netcfg.Document{}, fmt.Errorf("failed to list network sites: %w", err)
	}

	sort.Slice(networks, func(i, j int) bool { return networks[i].Name < networks[j].Name })

	doc := netcfg.New()
	for _, n := range networks {
		doc = doc.WithSite(siteFromNetwork(n))
	}
	return doc, nil
}

// SetNetworkConfiguration applies the document as the active network
// configuration: missing sites are created, re-homed sites get their
// affinity-group label patched. Address spaces of existing sites are never
// widened or narrowed. Malformed address prefixes fail here, which is the
// submission boundary.
func (c *RealClient) SetNetworkConfiguration(ctx context.Context, doc netcfg.Document) error {
	for _, site := range doc.Sites {
		existing, _, err := c.network.GetByName(ctx, site.Name)
		if err != nil {
			return fmt.Errorf("failed to get network site %q: %w", site.Name, err)
		}

		if existing == nil {
			if err := c.createSite(ctx, site); err != nil {
				return err
			}
			continue
		}

		if existing.Labels[labelAffinityGroup] != site.AffinityGroup {
			updated := labels.Merge(existing.Labels, map[string]string{labelAffinityGroup: site.AffinityGroup})
			if _, _, err := c.network.Update(ctx, existing, hcloud.NetworkUpdateOpts{Labels: updated}); err != nil {
				return fmt.Errorf("failed to re-home network site %q: %w", site.Name, err)
			}
		}
	}
	return nil
}

func (c *RealClient) createSite(ctx context.Context, site netcfg.Site) error {
	if len(site.AddressPrefixes) == 0 {
		return fmt.Errorf("network site %q has no address prefix", site.Name)
	}
	_, ipRange, err := net.ParseCIDR(site.AddressPrefixes[0])
	if err != nil {
		return fmt.Errorf("network configuration rejected: site %q address prefix: %w", site.Name, err)
	}

	n, _, err := c.network.Create(ctx, hcloud.NetworkCreateOpts{
		Name:    site.Name,
		IPRange: ipRange,
		Labels: map[string]string{
			labelRole:          roleNetworkSite,
			labelAffinityGroup: site.AffinityGroup,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create network site %q: %w", site.Name, err)
	}

	for _, subnet := range site.Subnets {
		_, subnetRange, err := net.ParseCIDR(subnet.AddressPrefix)
		if err != nil {
			return fmt.Errorf("network configuration rejected: subnet %q prefix: %w", subnet.Name, err)
		}
		action, _, err := c.network.AddSubnet(ctx, n, hcloud.NetworkAddSubnetOpts{
			Subnet: hcloud.NetworkSubnet{
				Type:        hcloud.NetworkSubnetTypeCloud,
				IPRange:     subnetRange,
				NetworkZone: hcloud.NetworkZone(c.zone),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to add subnet %q to site %q: %w", subnet.Name, site.Name, err)
		}
		if err := c.action.WaitFor(ctx, action); err != nil {
			return fmt.Errorf("failed to wait for subnet %q: %w", subnet.Name, err)
		}
	}
	return nil
}

// siteFromNetwork maps a provider network back onto a site element. The
// provider does not persist subnet names, so they are regenerated
// positionally on read.
func siteFromNetwork(n *hcloud.Network) netcfg.Site {
	site := netcfg.Site{
		Name:          n.Name,
		AffinityGroup: n.Labels[labelAffinityGroup],
	}
	if n.IPRange != nil {
		site.AddressPrefixes = []string{n.IPRange.String()}
	}
	for i, subnet := range n.Subnets {
		name := fmt.Sprintf("%s-sub-%d", n.Name, i+1)
		prefix := ""
		if subnet.IPRange != nil {
			prefix = subnet.IPRange.String()
		}
		site.Subnets = append(site.Subnets, netcfg.Subnet{Name: name, AddressPrefix: prefix})
	}
	return site
}
