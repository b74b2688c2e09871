package hcloud

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/fleetadm/fleetadm/internal/util/labels"
)

// ListInstances returns the service's fleet instances whose computer name
// starts with basePrefix, ordered by name. The shared endpoint template is
// rebuilt from instance labels.
func (c *RealClient) ListInstances(ctx context.Context, service, basePrefix string) ([]FleetInstance, error) {
	selector := labels.Selector(labelRole, roleFleetInstance, labelService, service)
	servers, err := c.server.AllWithOpts(ctx, hcloud.ServerListOpts{
		ListOpts: hcloud.ListOpts{LabelSelector: selector},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list instances of service %q: %w", service, err)
	}

	sort.Slice(servers, func(i, j int) bool { return servers[i].Name < servers[j].Name })

	var instances []FleetInstance
	for _, s := range servers {
		if !strings.HasPrefix(s.Name, basePrefix) {
			continue
		}
		instances = append(instances, instanceFromServer(s))
	}
	return instances, nil
}

// CreateInstance creates one fleet instance and returns its public IP.
// The availability set must exist beforehand.
func (c *RealClient) CreateInstance(ctx context.Context, service, location string, inst FleetInstance) (string, error) {
	pg, _, err := c.placementGroup.GetByName(ctx, inst.AvailabilitySet)
	if err != nil {
		return "", fmt.Errorf("failed to get availability set %q: %w", inst.AvailabilitySet, err)
	}
	if pg == nil {
		return "", fmt.Errorf("availability set %q does not exist", inst.AvailabilitySet)
	}

	result, _, err := c.server.Create(ctx, hcloud.ServerCreateOpts{
		Name:           inst.ComputerName,
		ServerType:     &hcloud.ServerType{Name: inst.Size},
		Image:          &hcloud.Image{Name: inst.Image},
		Location:       &hcloud.Location{Name: location},
		PlacementGroup: pg,
		Labels:         instanceLabels(service, inst),
	})
	if err != nil {
		if IsUniquenessError(err) {
			return "", fmt.Errorf("instance %q already exists: %w", inst.ComputerName, err)
		}
		return "", fmt.Errorf("failed to create instance %q: %w", inst.ComputerName, err)
	}

	actions := append([]*hcloud.Action{result.Action}, result.NextActions...)
	if err := c.action.WaitFor(ctx, actions...); err != nil {
		return "", fmt.Errorf("failed to wait for instance %q creation: %w", inst.ComputerName, err)
	}

	if result.Server.PublicNet.IPv4.IP == nil {
		return "", nil
	}
	return result.Server.PublicNet.IPv4.IP.String(), nil
}

func instanceLabels(service string, inst FleetInstance) map[string]string {
	return map[string]string{
		labelRole:       roleFleetInstance,
		labelService:    service,
		labelImage:      inst.Image,
		labelEndpoint:   inst.Endpoint.Name,
		labelLBSet:      inst.Endpoint.LoadBalancerSet,
		labelProtocol:   inst.Endpoint.Protocol,
		labelLocalPort:  strconv.Itoa(inst.Endpoint.LocalPort),
		labelPublicPort: strconv.Itoa(inst.Endpoint.PublicPort),
		labelProbePort:  strconv.Itoa(inst.Endpoint.ProbePort),
		labelDirectPort: strconv.Itoa(inst.DirectPort),
	}
}

func instanceFromServer(s *hcloud.Server) FleetInstance {
	inst := FleetInstance{
		ComputerName: s.Name,
		Image:        s.Labels[labelImage],
		DirectPort:   atoiLabel(s.Labels, labelDirectPort),
		Endpoint: Endpoint{
			Name:            s.Labels[labelEndpoint],
			Protocol:        s.Labels[labelProtocol],
			LocalPort:       atoiLabel(s.Labels, labelLocalPort),
			PublicPort:      atoiLabel(s.Labels, labelPublicPort),
			LoadBalancerSet: s.Labels[labelLBSet],
			ProbePort:       atoiLabel(s.Labels, labelProbePort),
		},
	}
	if s.ServerType != nil {
		inst.Size = s.ServerType.Name
	}
	if s.PlacementGroup != nil {
		inst.AvailabilitySet = s.PlacementGroup.Name
	}
	if s.Datacenter != nil && s.Datacenter.Location != nil {
		inst.Location = s.Datacenter.Location.Name
	}
	// The image label is authoritative: the underlying image object may be
	// deleted after provisioning while the fleet keeps running.
	if inst.Image == "" && s.Image != nil {
		inst.Image = s.Image.Name
	}
	return inst
}

func atoiLabel(labels map[string]string, key string) int {
	v, err := strconv.Atoi(labels[key])
	if err != nil {
		return 0
	}
	return v
}
