// Package fleet plans and submits fleet instance deployments: numbered
// servers sharing an availability set and a load-balanced endpoint.
package fleet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fleetadm/fleetadm/internal/config"
	platform "github.com/fleetadm/fleetadm/internal/platform/hcloud"
	"github.com/fleetadm/fleetadm/internal/provisioning"
	"github.com/fleetadm/fleetadm/internal/util/naming"
)

const phase = "fleet"

// directPortBase is where per-instance diagnostic ports start; instance N
// gets directPortBase+N, which stays collision-free as long as indices do.
const directPortBase = 30000

// EndpointSpec is the caller-facing endpoint template. ProbePort defaults
// to LocalPort and PublicPort defaults to LocalPort when zero.
type EndpointSpec struct {
	Name       string
	Protocol   string
	LocalPort  int
	PublicPort int
	ProbePort  int
}

// Request asks for Count additional instances of a service's fleet.
type Request struct {
	Service string
	// Base is the computer name prefix; instance names are Base plus a
	// numeric suffix.
	Base  string
	Count int
	// NewFleet requires that no instance of the fleet exists yet.
	NewFleet bool

	// Template inputs. Required for the first instances of a fleet;
	// ignored (with a conflict warning on divergence) once instances
	// exist, because the fleet's deployed template wins.
	Size     string
	Image    string
	Location string
	Endpoint EndpointSpec
}

// Plan is a validated set of instances ready for submission.
type Plan struct {
	Service         string
	Location        string
	AvailabilitySet string
	Endpoint        platform.Endpoint
	Instances       []platform.FleetInstance
}

// PlanInstances resolves the next free indices and the instance template
// for a fleet.
//
// Numbering is gap-tolerant: the next index is one past the highest suffix
// in use, so deleted instances leave holes that are never refilled and a
// name is never reused while any higher-numbered sibling exists. When the
// fleet already has instances, the template (size, image, location,
// endpoint) is read from the first deployed instance and caller-supplied
// values are ignored.
func PlanInstances(ctx *provisioning.Context, req Request) (*Plan, error) {
	if req.Count <= 0 {
		return nil, provisioning.NewConfigurationError("instance count must be positive, got %d", req.Count)
	}

	existing, err := ctx.Dir.ListInstances(ctx, req.Service, req.Base)
	if err != nil {
		return nil, fmt.Errorf("listing fleet instances: %w", err)
	}

	if len(existing) > 0 && req.NewFleet {
		return nil, provisioning.NewModeConflict(req.Service)
	}

	var template platform.FleetInstance
	start := 1
	if len(existing) == 0 {
		template, err = templateFromRequest(req, ctx.Config)
		if err != nil {
			return nil, err
		}
	} else {
		template = existing[0]
		warnTemplateConflicts(ctx.Observer, req, template)
		start, err = nextIndex(existing, req.Base)
		if err != nil {
			return nil, err
		}
	}

	plan := &Plan{
		Service:         req.Service,
		Location:        template.Location,
		AvailabilitySet: template.AvailabilitySet,
		Endpoint:        template.Endpoint,
	}
	for i := range req.Count {
		index := start + i
		inst := template
		inst.ComputerName = naming.Instance(req.Base, index)
		inst.Index = index
		inst.DirectPort = directPortBase + index
		plan.Instances = append(plan.Instances, inst)
	}
	return plan, nil
}

// templateFromRequest validates the caller-supplied template for the first
// instances of a fleet. Configured defaults fill gaps the caller left; a
// deployed fleet never reaches this path, so defaults cannot shadow its
// template.
func templateFromRequest(req Request, cfg *config.Config) (platform.FleetInstance, error) {
	if req.Size == "" {
		req.Size = cfg.Fleet.Size
	}
	if req.Image == "" {
		req.Image = cfg.Fleet.Image
	}
	if req.Location == "" {
		req.Location = cfg.Location
	}

	var missing []string
	if req.Size == "" {
		missing = append(missing, "size")
	}
	if req.Image == "" {
		missing = append(missing, "image")
	}
	if req.Location == "" {
		missing = append(missing, "location")
	}
	if req.Endpoint.Name == "" {
		missing = append(missing, "endpoint name")
	}
	if req.Endpoint.LocalPort == 0 {
		missing = append(missing, "endpoint port")
	}
	if len(missing) > 0 {
		return platform.FleetInstance{}, provisioning.NewConfigurationError(
			"new fleet %q is missing required template fields: %s", req.Service, strings.Join(missing, ", "))
	}

	ep := req.Endpoint
	if ep.Protocol == "" {
		ep.Protocol = "tcp"
	}
	if ep.PublicPort == 0 {
		ep.PublicPort = ep.LocalPort
	}
	if ep.ProbePort == 0 {
		ep.ProbePort = ep.LocalPort
	}

	return platform.FleetInstance{
		Size:            req.Size,
		Image:           req.Image,
		Location:        req.Location,
		AvailabilitySet: naming.AvailabilitySet(ep.Name),
		Endpoint: platform.Endpoint{
			Name:            ep.Name,
			Protocol:        ep.Protocol,
			LocalPort:       ep.LocalPort,
			PublicPort:      ep.PublicPort,
			LoadBalancerSet: naming.LoadBalancerSet(ep.Name),
			ProbePort:       ep.ProbePort,
		},
	}, nil
}

// warnTemplateConflicts reports caller inputs that diverge from the
// deployed template. The deployed value wins in every case.
func warnTemplateConflicts(observer provisioning.Observer, req Request, template platform.FleetInstance) {
	warn := func(property, requested, actual string) {
		if requested != "" && requested != actual {
			provisioning.LogConflict(observer, phase, req.Service, property, requested, actual)
		}
	}
	warn("size", req.Size, template.Size)
	warn("image", req.Image, template.Image)
	warn("location", req.Location, template.Location)
	warn("endpoint", req.Endpoint.Name, template.Endpoint.Name)
	warn("protocol", req.Endpoint.Protocol, template.Endpoint.Protocol)

	warnPort := func(property string, requested, actual int) {
		if requested != 0 && requested != actual {
			provisioning.LogConflict(observer, phase, req.Service, property,
				strconv.Itoa(requested), strconv.Itoa(actual))
		}
	}
	warnPort("endpoint port", req.Endpoint.LocalPort, template.Endpoint.LocalPort)
	warnPort("public port", req.Endpoint.PublicPort, template.Endpoint.PublicPort)
	warnPort("probe port", req.Endpoint.ProbePort, template.Endpoint.ProbePort)
}

// nextIndex returns one past the highest numeric suffix among the fleet's
// instance names. A member whose suffix does not parse means the fleet was
// not created by this tool, and extending it would guess at numbering.
func nextIndex(existing []platform.FleetInstance, base string) (int, error) {
	max := 0
	for _, inst := range existing {
		suffix := strings.TrimPrefix(inst.ComputerName, base)
		index, err := strconv.Atoi(suffix)
		if err != nil || index <= 0 {
			return 0, provisioning.NewInvariantViolation(inst.ComputerName,
				"name does not follow the %s<number> convention; the fleet cannot be numbered", base)
		}
		if index > max {
			max = index
		}
	}
	return max + 1, nil
}
