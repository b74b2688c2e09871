package hcloud

import (
	"context"
	"fmt"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/fleetadm/fleetadm/internal/util/labels"
)

const (
	defaultLoadBalancerType = "lb11"

	healthCheckInterval = 5 * time.Second
	healthCheckTimeout  = 3 * time.Second
	healthCheckRetries  = 2
)

// EnsureLoadBalancedEndpoint makes sure the endpoint's load balancer set
// exists, forwards the public port to the instances' local port with a
// health probe, and targets the service's instances by label selector.
// Targets follow the selector, so newly created instances join the set
// without further calls.
func (c *RealClient) EnsureLoadBalancedEndpoint(ctx context.Context, service, location string, ep Endpoint) error {
	res, err := (&EnsureOperation[*hcloud.LoadBalancer, hcloud.LoadBalancerCreateOpts]{
		Name:         ep.LoadBalancerSet,
		ResourceType: "load balancer set",
		Get:          c.loadBalancer.GetByName,
		Create: func(ctx context.Context, opts hcloud.LoadBalancerCreateOpts) (*CreateResult[*hcloud.LoadBalancer], *hcloud.Response, error) {
			createRes, resp, err := c.loadBalancer.Create(ctx, opts)
			if err != nil {
				return nil, resp, err
			}
			return &CreateResult[*hcloud.LoadBalancer]{Resource: createRes.LoadBalancer, Action: createRes.Action}, resp, nil
		},
		CreateOptsMapper: func() hcloud.LoadBalancerCreateOpts {
			return hcloud.LoadBalancerCreateOpts{
				Name:             ep.LoadBalancerSet,
				LoadBalancerType: &hcloud.LoadBalancerType{Name: defaultLoadBalancerType},
				Location:         &hcloud.Location{Name: location},
				Algorithm:        &hcloud.LoadBalancerAlgorithm{Type: hcloud.LoadBalancerAlgorithmTypeRoundRobin},
				Labels: map[string]string{
					labelRole:    roleLoadBalancerSet,
					labelService: service,
				},
			}
		},
	}).Execute(ctx, c)
	if err != nil {
		return err
	}
	lb := res.Resource

	if !hasListenPort(lb, ep.PublicPort) {
		if err := c.addEndpointService(ctx, lb, ep); err != nil {
			return err
		}
	}

	selector := labels.Selector(labelRole, roleFleetInstance, labelService, service)
	if !hasSelectorTarget(lb, selector) {
		action, _, err := c.loadBalancer.AddLabelSelectorTarget(ctx, lb, hcloud.LoadBalancerAddLabelSelectorTargetOpts{
			Selector: selector,
		})
		if err != nil {
			return fmt.Errorf("failed to target service %q instances: %w", service, err)
		}
		if err := c.action.WaitFor(ctx, action); err != nil {
			return fmt.Errorf("failed to wait for target attach: %w", err)
		}
	}
	return nil
}

func (c *RealClient) addEndpointService(ctx context.Context, lb *hcloud.LoadBalancer, ep Endpoint) error {
	probePort := ep.ProbePort
	if probePort == 0 {
		probePort = ep.LocalPort
	}
	action, _, err := c.loadBalancer.AddService(ctx, lb, hcloud.LoadBalancerAddServiceOpts{
		Protocol:        hcloud.LoadBalancerServiceProtocolTCP,
		ListenPort:      hcloud.Ptr(ep.PublicPort),
		DestinationPort: hcloud.Ptr(ep.LocalPort),
		HealthCheck: &hcloud.LoadBalancerAddServiceOptsHealthCheck{
			Protocol: hcloud.LoadBalancerServiceProtocolTCP,
			Port:     hcloud.Ptr(probePort),
			Interval: hcloud.Ptr(healthCheckInterval),
			Timeout:  hcloud.Ptr(healthCheckTimeout),
			Retries:  hcloud.Ptr(healthCheckRetries),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to add endpoint %q service: %w", ep.Name, err)
	}
	if err := c.action.WaitFor(ctx, action); err != nil {
		return fmt.Errorf("failed to wait for endpoint %q service: %w", ep.Name, err)
	}
	return nil
}

func hasListenPort(lb *hcloud.LoadBalancer, port int) bool {
	for _, svc := range lb.Services {
		if svc.ListenPort == port {
			return true
		}
	}
	return false
}

func hasSelectorTarget(lb *hcloud.LoadBalancer, selector string) bool {
	for _, target := range lb.Targets {
		if target.Type == hcloud.LoadBalancerTargetTypeLabelSelector &&
			target.LabelSelector != nil && target.LabelSelector.Selector == selector {
			return true
		}
	}
	return false
}
