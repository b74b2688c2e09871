package cloud

import (
	"context"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// Narrow interfaces over the hcloud SDK services, so the directory client
// can be exercised against in-memory fakes.

// ActionClient defines the interface for awaiting Hetzner Cloud actions.
type ActionClient interface {
	WaitFor(ctx context.Context, actions ...*hcloud.Action) error
}

// NetworkClient defines the interface for Hetzner Cloud networks.
type NetworkClient interface {
	GetByName(ctx context.Context, name string) (*hcloud.Network, *hcloud.Response, error)
	AllWithOpts(ctx context.Context, opts hcloud.NetworkListOpts) ([]*hcloud.Network, error)
	Create(ctx context.Context, opts hcloud.NetworkCreateOpts) (*hcloud.Network, *hcloud.Response, error)
	AddSubnet(ctx context.Context, network *hcloud.Network, opts hcloud.NetworkAddSubnetOpts) (*hcloud.Action, *hcloud.Response, error)
	Update(ctx context.Context, network *hcloud.Network, opts hcloud.NetworkUpdateOpts) (*hcloud.Network, *hcloud.Response, error)
}

// PlacementGroupClient defines the interface for Hetzner Cloud placement groups.
type PlacementGroupClient interface {
	GetByName(ctx context.Context, name string) (*hcloud.PlacementGroup, *hcloud.Response, error)
	// Create returns value, not pointer for PlacementGroupCreateResult
	Create(ctx context.Context, opts hcloud.PlacementGroupCreateOpts) (hcloud.PlacementGroupCreateResult, *hcloud.Response, error)
}

// ServerClient defines the interface for Hetzner Cloud servers.
type ServerClient interface {
	GetByName(ctx context.Context, name string) (*hcloud.Server, *hcloud.Response, error)
	AllWithOpts(ctx context.Context, opts hcloud.ServerListOpts) ([]*hcloud.Server, error)
	// Create returns value, not pointer for ServerCreateResult
	Create(ctx context.Context, opts hcloud.ServerCreateOpts) (hcloud.ServerCreateResult, *hcloud.Response, error)
}

// LoadBalancerClient defines the interface for Hetzner Cloud load balancers.
type LoadBalancerClient interface {
	GetByName(ctx context.Context, name string) (*hcloud.LoadBalancer, *hcloud.Response, error)
	// Create returns value, not pointer for LoadBalancerCreateResult
	Create(ctx context.Context, opts hcloud.LoadBalancerCreateOpts) (hcloud.LoadBalancerCreateResult, *hcloud.Response, error)
	AddService(ctx context.Context, lb *hcloud.LoadBalancer, opts hcloud.LoadBalancerAddServiceOpts) (*hcloud.Action, *hcloud.Response, error)
	AddLabelSelectorTarget(ctx context.Context, lb *hcloud.LoadBalancer, opts hcloud.LoadBalancerAddLabelSelectorTargetOpts) (*hcloud.Action, *hcloud.Response, error)
}
