package hcloud

import (
	"context"

	"github.com/fleetadm/fleetadm/internal/netcfg"
)

// MockClient is a function-field mock of Directory for workflow tests.
type MockClient struct {
	GetAffinityGroupFunc    func(ctx context.Context, name string) (*AffinityGroup, error)
	EnsureAffinityGroupFunc func(ctx context.Context, name, region string) (EnsureResult[*AffinityGroup], error)

	GetNetworkSiteFunc          func(ctx context.Context, name string) (*netcfg.Site, error)
	GetNetworkConfigurationFunc func(ctx context.Context) (netcfg.Document, error)
	SetNetworkConfigurationFunc func(ctx context.Context, doc netcfg.Document) error

	ListInstancesFunc              func(ctx context.Context, service, basePrefix string) ([]FleetInstance, error)
	CreateInstanceFunc             func(ctx context.Context, service, location string, inst FleetInstance) (string, error)
	EnsureAvailabilitySetFunc      func(ctx context.Context, name string) error
	EnsureLoadBalancedEndpointFunc func(ctx context.Context, service, location string, ep Endpoint) error
}

var _ Directory = (*MockClient)(nil)

func (m *MockClient) GetAffinityGroup(ctx context.Context, name string) (*AffinityGroup, error) {
	if m.GetAffinityGroupFunc != nil {
		return m.GetAffinityGroupFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockClient) EnsureAffinityGroup(ctx context.Context, name, region string) (EnsureResult[*AffinityGroup], error) {
	if m.EnsureAffinityGroupFunc != nil {
		return m.EnsureAffinityGroupFunc(ctx, name, region)
	}
	return EnsureResult[*AffinityGroup]{Resource: &AffinityGroup{Name: name, Region: region}}, nil
}

func (m *MockClient) GetNetworkSite(ctx context.Context, name string) (*netcfg.Site, error) {
	if m.GetNetworkSiteFunc != nil {
		return m.GetNetworkSiteFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockClient) GetNetworkConfiguration(ctx context.Context) (netcfg.Document, error) {
	if m.GetNetworkConfigurationFunc != nil {
		return m.GetNetworkConfigurationFunc(ctx)
	}
	return netcfg.New(), nil
}

func (m *MockClient) SetNetworkConfiguration(ctx context.Context, doc netcfg.Document) error {
	if m.SetNetworkConfigurationFunc != nil {
		return m.SetNetworkConfigurationFunc(ctx, doc)
	}
	return nil
}

func (m *MockClient) ListInstances(ctx context.Context, service, basePrefix string) ([]FleetInstance, error) {
	if m.ListInstancesFunc != nil {
		return m.ListInstancesFunc(ctx, service, basePrefix)
	}
	return nil, nil
}

func (m *MockClient) CreateInstance(ctx context.Context, service, location string, inst FleetInstance) (string, error) {
	if m.CreateInstanceFunc != nil {
		return m.CreateInstanceFunc(ctx, service, location, inst)
	}
	return "", nil
}

func (m *MockClient) EnsureAvailabilitySet(ctx context.Context, name string) error {
	if m.EnsureAvailabilitySetFunc != nil {
		return m.EnsureAvailabilitySetFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) EnsureLoadBalancedEndpoint(ctx context.Context, service, location string, ep Endpoint) error {
	if m.EnsureLoadBalancedEndpointFunc != nil {
		return m.EnsureLoadBalancedEndpointFunc(ctx, service, location, ep)
	}
	return nil
}
