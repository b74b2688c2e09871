package hcloud

import (
	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/fleetadm/fleetadm/pkg/cloud"
)

// RealClient implements Directory against the Hetzner Cloud API. It holds
// the narrow per-service interfaces so tests can swap in fakes.
type RealClient struct {
	action         cloud.ActionClient
	network        cloud.NetworkClient
	placementGroup cloud.PlacementGroupClient
	server         cloud.ServerClient
	loadBalancer   cloud.LoadBalancerClient

	// zone is the network zone subnets are placed in. Subnet zoning is a
	// provider concept with no counterpart in the configuration document.
	zone string
}

var _ Directory = (*RealClient)(nil)

// NewRealClient creates a directory client from an API token.
func NewRealClient(token, zone string) *RealClient {
	c := hcloud.NewClient(
		hcloud.WithToken(token),
		hcloud.WithApplication("fleetadm", ""),
	)
	return &RealClient{
		action:         &c.Action,
		network:        &c.Network,
		placementGroup: &c.PlacementGroup,
		server:         &c.Server,
		loadBalancer:   &c.LoadBalancer,
		zone:           zone,
	}
}

// newClientWith wires explicit service clients; tests use it with fakes.
func newClientWith(
	action cloud.ActionClient,
	network cloud.NetworkClient,
	placementGroup cloud.PlacementGroupClient,
	server cloud.ServerClient,
	loadBalancer cloud.LoadBalancerClient,
	zone string,
) *RealClient {
	return &RealClient{
		action:         action,
		network:        network,
		placementGroup: placementGroup,
		server:         server,
		loadBalancer:   loadBalancer,
		zone:           zone,
	}
}
