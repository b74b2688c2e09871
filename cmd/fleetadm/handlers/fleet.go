package handlers

import (
	"context"
	"fmt"

	"github.com/fleetadm/fleetadm/internal/provisioning"
	"github.com/fleetadm/fleetadm/internal/provisioning/fleet"
)

// FleetParams configures a fleet create or extend run.
type FleetParams struct {
	Service  string
	Base     string
	Count    int
	NewFleet bool

	Size       string
	Image      string
	Location   string
	Endpoint   string
	Protocol   string
	Port       int
	PublicPort int
	ProbePort  int
}

// FleetDeploy plans and creates fleet instances.
func FleetDeploy(ctx context.Context, configPath string, p FleetParams) error {
	pctx, err := newWorkflowContext(ctx, configPath)
	if err != nil {
		return err
	}
	return fleetDeploy(pctx, p)
}

func fleetDeploy(pctx *provisioning.Context, p FleetParams) error {
	req := fleet.Request{
		Service:  p.Service,
		Base:     p.Base,
		Count:    p.Count,
		NewFleet: p.NewFleet,
		Size:     p.Size,
		Image:    p.Image,
		Location: p.Location,
		Endpoint: fleet.EndpointSpec{
			Name:       p.Endpoint,
			Protocol:   p.Protocol,
			LocalPort:  p.Port,
			PublicPort: p.PublicPort,
			ProbePort:  p.ProbePort,
		},
	}

	plan, err := fleet.PlanInstances(pctx, req)
	if err != nil {
		return err
	}
	if err := fleet.Submit(pctx, plan); err != nil {
		return err
	}

	fmt.Print(renderFleetSummary(plan, pctx.State.InstanceIPs))
	return nil
}
