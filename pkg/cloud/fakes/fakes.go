// Package fakes provides in-memory implementations of the narrow cloud
// interfaces for tests.
package fakes

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/fleetadm/fleetadm/internal/util/labels"
)

// FakeActionClient resolves every action immediately.
type FakeActionClient struct{}

func (f *FakeActionClient) WaitFor(_ context.Context, _ ...*hcloud.Action) error {
	return nil
}

// FakeNetworkClient simulates the hcloud network service.
type FakeNetworkClient struct {
	mu       sync.Mutex
	Networks map[int64]*hcloud.Network
	nextID   int64

	// CreateErr, when set, makes Create fail. Simulates provider rejection.
	CreateErr error
}

func NewFakeNetworkClient() *FakeNetworkClient {
	return &FakeNetworkClient{Networks: make(map[int64]*hcloud.Network), nextID: 1}
}

func (f *FakeNetworkClient) GetByName(_ context.Context, name string) (*hcloud.Network, *hcloud.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.Networks {
		if n.Name == name {
			return n, nil, nil
		}
	}
	return nil, nil, nil
}

func (f *FakeNetworkClient) AllWithOpts(_ context.Context, opts hcloud.NetworkListOpts) ([]*hcloud.Network, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*hcloud.Network
	for _, n := range f.Networks {
		if labels.Matches(n.Labels, opts.LabelSelector) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *FakeNetworkClient) Create(_ context.Context, opts hcloud.NetworkCreateOpts) (*hcloud.Network, *hcloud.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return nil, nil, f.CreateErr
	}
	id := f.nextID
	f.nextID++
	n := &hcloud.Network{
		ID:      id,
		Name:    opts.Name,
		IPRange: opts.IPRange,
		Labels:  opts.Labels,
	}
	f.Networks[id] = n
	return n, nil, nil
}

func (f *FakeNetworkClient) AddSubnet(_ context.Context, network *hcloud.Network, opts hcloud.NetworkAddSubnetOpts) (*hcloud.Action, *hcloud.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n, ok := f.Networks[network.ID]; ok {
		n.Subnets = append(n.Subnets, opts.Subnet)
	}
	return &hcloud.Action{ID: 1, Status: hcloud.ActionStatusSuccess}, nil, nil
}

func (f *FakeNetworkClient) Update(_ context.Context, network *hcloud.Network, opts hcloud.NetworkUpdateOpts) (*hcloud.Network, *hcloud.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.Networks[network.ID]
	if !ok {
		return nil, nil, fmt.Errorf("network %d not found", network.ID)
	}
	if opts.Name != "" {
		n.Name = opts.Name
	}
	if opts.Labels != nil {
		n.Labels = opts.Labels
	}
	return n, nil, nil
}

// FakePlacementGroupClient simulates the hcloud placement group service.
type FakePlacementGroupClient struct {
	mu     sync.Mutex
	Groups map[int64]*hcloud.PlacementGroup
	nextID int64

	CreateErr error
}

func NewFakePlacementGroupClient() *FakePlacementGroupClient {
	return &FakePlacementGroupClient{Groups: make(map[int64]*hcloud.PlacementGroup), nextID: 1}
}

func (f *FakePlacementGroupClient) GetByName(_ context.Context, name string) (*hcloud.PlacementGroup, *hcloud.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, pg := range f.Groups {
		if pg.Name == name {
			return pg, nil, nil
		}
	}
	return nil, nil, nil
}

func (f *FakePlacementGroupClient) Create(_ context.Context, opts hcloud.PlacementGroupCreateOpts) (hcloud.PlacementGroupCreateResult, *hcloud.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return hcloud.PlacementGroupCreateResult{}, nil, f.CreateErr
	}
	id := f.nextID
	f.nextID++
	pg := &hcloud.PlacementGroup{
		ID:     id,
		Name:   opts.Name,
		Type:   opts.Type,
		Labels: opts.Labels,
	}
	f.Groups[id] = pg
	action := &hcloud.Action{ID: id * 100, Status: hcloud.ActionStatusSuccess}
	return hcloud.PlacementGroupCreateResult{PlacementGroup: pg, Action: action}, nil, nil
}

// FakeServerClient simulates the hcloud server service.
type FakeServerClient struct {
	mu      sync.Mutex
	Servers map[int64]*hcloud.Server
	nextID  int64

	CreateErr error
	// FailOnName makes Create fail for one specific server name, so tests
	// can assert partial-submission behavior.
	FailOnName string
}

func NewFakeServerClient() *FakeServerClient {
	return &FakeServerClient{Servers: make(map[int64]*hcloud.Server), nextID: 1}
}

func (f *FakeServerClient) GetByName(_ context.Context, name string) (*hcloud.Server, *hcloud.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.Servers {
		if s.Name == name {
			return s, nil, nil
		}
	}
	return nil, nil, nil
}

func (f *FakeServerClient) AllWithOpts(_ context.Context, opts hcloud.ServerListOpts) ([]*hcloud.Server, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*hcloud.Server
	for _, s := range f.Servers {
		if labels.Matches(s.Labels, opts.LabelSelector) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *FakeServerClient) Create(_ context.Context, opts hcloud.ServerCreateOpts) (hcloud.ServerCreateResult, *hcloud.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return hcloud.ServerCreateResult{}, nil, f.CreateErr
	}
	if f.FailOnName != "" && opts.Name == f.FailOnName {
		return hcloud.ServerCreateResult{}, nil, fmt.Errorf("server create rejected for %s", opts.Name)
	}
	id := f.nextID
	f.nextID++
	s := &hcloud.Server{
		ID:         id,
		Name:       opts.Name,
		ServerType: opts.ServerType,
		Image:      opts.Image,
		Labels:     opts.Labels,
		PublicNet: hcloud.ServerPublicNet{
			IPv4: hcloud.ServerPublicNetIPv4{IP: net.IPv4(203, 0, 113, byte(id))},
		},
	}
	if opts.PlacementGroup != nil {
		s.PlacementGroup = opts.PlacementGroup
	}
	f.Servers[id] = s
	action := &hcloud.Action{ID: id * 100, Status: hcloud.ActionStatusSuccess}
	return hcloud.ServerCreateResult{Server: s, Action: action}, nil, nil
}

// FakeLoadBalancerClient simulates the hcloud load balancer service.
type FakeLoadBalancerClient struct {
	mu            sync.Mutex
	LoadBalancers map[int64]*hcloud.LoadBalancer
	Selectors     map[string][]string // lb name -> added label selectors
	nextID        int64

	CreateErr error
}

func NewFakeLoadBalancerClient() *FakeLoadBalancerClient {
	return &FakeLoadBalancerClient{
		LoadBalancers: make(map[int64]*hcloud.LoadBalancer),
		Selectors:     make(map[string][]string),
		nextID:        1,
	}
}

func (f *FakeLoadBalancerClient) GetByName(_ context.Context, name string) (*hcloud.LoadBalancer, *hcloud.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, lb := range f.LoadBalancers {
		if lb.Name == name {
			return lb, nil, nil
		}
	}
	return nil, nil, nil
}

func (f *FakeLoadBalancerClient) Create(_ context.Context, opts hcloud.LoadBalancerCreateOpts) (hcloud.LoadBalancerCreateResult, *hcloud.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return hcloud.LoadBalancerCreateResult{}, nil, f.CreateErr
	}
	id := f.nextID
	f.nextID++
	lb := &hcloud.LoadBalancer{
		ID:               id,
		Name:             opts.Name,
		LoadBalancerType: opts.LoadBalancerType,
		Location:         opts.Location,
		Labels:           opts.Labels,
		PublicNet: hcloud.LoadBalancerPublicNet{
			IPv4: hcloud.LoadBalancerPublicNetIPv4{IP: net.IPv4(198, 51, 100, byte(id))},
		},
	}
	f.LoadBalancers[id] = lb
	action := &hcloud.Action{ID: id * 100, Status: hcloud.ActionStatusSuccess}
	return hcloud.LoadBalancerCreateResult{LoadBalancer: lb, Action: action}, nil, nil
}

func (f *FakeLoadBalancerClient) AddService(_ context.Context, lb *hcloud.LoadBalancer, opts hcloud.LoadBalancerAddServiceOpts) (*hcloud.Action, *hcloud.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.LoadBalancers[lb.ID]
	if !ok {
		return nil, nil, fmt.Errorf("load balancer %d not found", lb.ID)
	}
	svc := hcloud.LoadBalancerService{Protocol: opts.Protocol}
	if opts.ListenPort != nil {
		svc.ListenPort = *opts.ListenPort
	}
	if opts.DestinationPort != nil {
		svc.DestinationPort = *opts.DestinationPort
	}
	stored.Services = append(stored.Services, svc)
	return &hcloud.Action{ID: 1, Status: hcloud.ActionStatusSuccess}, nil, nil
}

func (f *FakeLoadBalancerClient) AddLabelSelectorTarget(_ context.Context, lb *hcloud.LoadBalancer, opts hcloud.LoadBalancerAddLabelSelectorTargetOpts) (*hcloud.Action, *hcloud.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Selectors[lb.Name] = append(f.Selectors[lb.Name], opts.Selector)
	if stored, ok := f.LoadBalancers[lb.ID]; ok {
		stored.Targets = append(stored.Targets, hcloud.LoadBalancerTarget{
			Type:          hcloud.LoadBalancerTargetTypeLabelSelector,
			LabelSelector: &hcloud.LoadBalancerTargetLabelSelector{Selector: opts.Selector},
		})
	}
	return &hcloud.Action{ID: 1, Status: hcloud.ActionStatusSuccess}, nil, nil
}

