// Package hcloud implements the resource directory over the Hetzner Cloud
// API. Affinity groups and availability sets are realized as placement
// groups, virtual network sites as networks, fleet instances as labeled
// servers behind a shared load balancer.
package hcloud

import (
	"context"

	"github.com/fleetadm/fleetadm/internal/netcfg"
)

// Label keys used to record directory metadata on provider resources.
// Fleet layout is recovered purely from names and these labels, so the
// values must stay stable across releases.
const (
	labelRole          = "role"
	labelRegion        = "region"
	labelService       = "service"
	labelAffinityGroup = "affinity-group"
	labelEndpoint      = "endpoint"
	labelLBSet         = "lbset"
	labelProtocol      = "protocol"
	labelLocalPort     = "local-port"
	labelPublicPort    = "public-port"
	labelProbePort     = "probe-port"
	labelDirectPort    = "direct-port"
	labelImage         = "image"
)

const (
	roleAffinityGroup   = "affinity-group"
	roleAvailabilitySet = "availability-set"
	roleNetworkSite     = "network-site"
	roleFleetInstance   = "fleet-instance"
	roleLoadBalancerSet = "load-balancer-set"
)

// AffinityGroup is a named placement record tying resources to a region.
// The region never changes after creation.
type AffinityGroup struct {
	ID     int64
	Name   string
	Region string
}

// Endpoint describes one port mapping of a fleet instance. A load-balanced
// endpoint carries the shared set name and probe port; a direct endpoint
// leaves LoadBalancerSet empty.
type Endpoint struct {
	Name            string
	Protocol        string
	LocalPort       int
	PublicPort      int
	LoadBalancerSet string
	ProbePort       int
}

// FleetInstance is one planned or deployed member of a fleet: a numbered
// computer name plus the sizing, image, availability set and endpoint
// layout shared across the fleet.
type FleetInstance struct {
	ComputerName string
	// Index is derived from the numeric suffix of ComputerName; it is not
	// stored by the provider.
	Index           int
	Size            string
	Image           string
	Location        string
	AvailabilitySet string
	// Endpoint is the shared load-balanced endpoint template.
	Endpoint Endpoint
	// DirectPort is the per-instance diagnostic port reachable outside the
	// load balancer.
	DirectPort int
}

// GroupDirectory is the affinity-group surface of the directory.
type GroupDirectory interface {
	GetAffinityGroup(ctx context.Context, name string) (*AffinityGroup, error)
	EnsureAffinityGroup(ctx context.Context, name, region string) (EnsureResult[*AffinityGroup], error)
}

// NetworkDirectory is the virtual-network-site surface of the directory.
type NetworkDirectory interface {
	// GetNetworkSite returns the deployed site with the given name, or nil.
	GetNetworkSite(ctx context.Context, name string) (*netcfg.Site, error)
	// GetNetworkConfiguration returns the current network configuration
	// document, or the empty skeleton when none exists.
	GetNetworkConfiguration(ctx context.Context) (netcfg.Document, error)
	// SetNetworkConfiguration submits the document as the active network
	// configuration. Last write wins; no concurrency token is checked.
	SetNetworkConfiguration(ctx context.Context, doc netcfg.Document) error
}

// FleetDirectory is the fleet surface of the directory.
type FleetDirectory interface {
	// ListInstances returns the service's instances whose computer name
	// starts with basePrefix, ordered by name.
	ListInstances(ctx context.Context, service, basePrefix string) ([]FleetInstance, error)
	// CreateInstance creates one instance and returns its public IP.
	CreateInstance(ctx context.Context, service, location string, inst FleetInstance) (string, error)
	// EnsureAvailabilitySet makes sure the named spread placement directive
	// exists before instances reference it.
	EnsureAvailabilitySet(ctx context.Context, name string) error
	// EnsureLoadBalancedEndpoint makes sure the shared endpoint set exists,
	// listens on the endpoint's public port and targets the service's
	// instances.
	EnsureLoadBalancedEndpoint(ctx context.Context, service, location string, ep Endpoint) error
}

// Directory is the full resource directory consumed by the workflows.
type Directory interface {
	GroupDirectory
	NetworkDirectory
	FleetDirectory
}
