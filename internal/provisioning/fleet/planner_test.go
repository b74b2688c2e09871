package fleet

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetadm/fleetadm/internal/config"
	platform "github.com/fleetadm/fleetadm/internal/platform/hcloud"
	"github.com/fleetadm/fleetadm/internal/provisioning"
)

func testContext(dir platform.Directory) *provisioning.Context {
	return provisioning.NewContext(context.Background(), &config.Config{}, dir)
}

// eventLog is an Observer that records structured events for assertions.
type eventLog struct {
	events []provisioning.Event
}

func (l *eventLog) Printf(string, ...any)                              {}
func (l *eventLog) Progress(string, int, int)                          {}
func (l *eventLog) Event(event provisioning.Event)                     { l.events = append(l.events, event) }
func (l *eventLog) WithFields(map[string]string) provisioning.Observer { return l }

func (l *eventLog) messages(eventType provisioning.EventType) []string {
	var out []string
	for _, e := range l.events {
		if e.Type == eventType {
			out = append(out, e.Message)
		}
	}
	return out
}

func deployedInstance(name string, index int) platform.FleetInstance {
	return platform.FleetInstance{
		ComputerName:    name,
		Index:           index,
		Size:            "cx22",
		Image:           "debian-12",
		Location:        "nbg1",
		AvailabilitySet: "web-avset",
		Endpoint: platform.Endpoint{
			Name:            "web",
			Protocol:        "tcp",
			LocalPort:       8080,
			PublicPort:      80,
			LoadBalancerSet: "web-lbset",
			ProbePort:       8080,
		},
		DirectPort: 30001,
	}
}

func listingDirectory(instances ...platform.FleetInstance) *platform.MockClient {
	return &platform.MockClient{
		ListInstancesFunc: func(context.Context, string, string) ([]platform.FleetInstance, error) {
			return instances, nil
		},
	}
}

func newFleetRequest(count int) Request {
	return Request{
		Service:  "web-svc",
		Base:     "web",
		Count:    count,
		Size:     "cx22",
		Image:    "debian-12",
		Location: "nbg1",
		Endpoint: EndpointSpec{Name: "web", LocalPort: 8080, PublicPort: 80},
	}
}

func TestPlanInstances_FreshFleet(t *testing.T) {
	t.Parallel()
	plan, err := PlanInstances(testContext(listingDirectory()), newFleetRequest(3))
	require.NoError(t, err)

	require.Len(t, plan.Instances, 3)
	for i, inst := range plan.Instances {
		assert.Equal(t, platform.FleetInstance{
			ComputerName:    []string{"web1", "web2", "web3"}[i],
			Index:           i + 1,
			Size:            "cx22",
			Image:           "debian-12",
			Location:        "nbg1",
			AvailabilitySet: "web-avset",
			Endpoint: platform.Endpoint{
				Name:            "web",
				Protocol:        "tcp",
				LocalPort:       8080,
				PublicPort:      80,
				LoadBalancerSet: "web-lbset",
				ProbePort:       8080,
			},
			DirectPort: 30001 + i,
		}, inst)
	}
	assert.Equal(t, "web-avset", plan.AvailabilitySet)
	assert.Equal(t, "nbg1", plan.Location)
}

func TestPlanInstances_ExtendsPastHighestIndex(t *testing.T) {
	t.Parallel()
	// Gaps are never refilled: with host1, host2 and host5 deployed, the
	// next two instances are host6 and host7.
	existing := []platform.FleetInstance{
		deployedInstance("host1", 1),
		deployedInstance("host2", 2),
		deployedInstance("host5", 5),
	}
	plan, err := PlanInstances(testContext(listingDirectory(existing...)), Request{
		Service: "web-svc", Base: "host", Count: 2,
	})
	require.NoError(t, err)

	require.Len(t, plan.Instances, 2)
	assert.Equal(t, "host6", plan.Instances[0].ComputerName)
	assert.Equal(t, "host7", plan.Instances[1].ComputerName)
	assert.Equal(t, 30006, plan.Instances[0].DirectPort)
	assert.Equal(t, 30007, plan.Instances[1].DirectPort)
}

func TestPlanInstances_TemplateFromDeployedFleet(t *testing.T) {
	t.Parallel()
	// Caller-supplied sizing diverging from the deployed fleet is ignored;
	// the deployed template wins.
	existing := []platform.FleetInstance{deployedInstance("web1", 1)}
	plan, err := PlanInstances(testContext(listingDirectory(existing...)), Request{
		Service: "web-svc", Base: "web", Count: 1,
		Size: "cx42", Image: "ubuntu-24.04", Location: "hel1",
	})
	require.NoError(t, err)

	require.Len(t, plan.Instances, 1)
	inst := plan.Instances[0]
	assert.Equal(t, "web2", inst.ComputerName)
	assert.Equal(t, "cx22", inst.Size)
	assert.Equal(t, "debian-12", inst.Image)
	assert.Equal(t, "nbg1", inst.Location)
	assert.Equal(t, "web-lbset", inst.Endpoint.LoadBalancerSet)
}

func TestPlanInstances_WarnsOnEveryDivergingEndpointField(t *testing.T) {
	t.Parallel()
	existing := []platform.FleetInstance{deployedInstance("web1", 1)}
	ctx := testContext(listingDirectory(existing...))
	events := &eventLog{}
	ctx.Observer = events

	_, err := PlanInstances(ctx, Request{
		Service: "web-svc", Base: "web", Count: 1,
		Endpoint: EndpointSpec{Name: "web", Protocol: "udp", LocalPort: 9090, PublicPort: 443, ProbePort: 9091},
	})
	require.NoError(t, err)

	warnings := strings.Join(events.messages(provisioning.EventConflict), "\n")
	assert.Contains(t, warnings, "protocol")
	assert.Contains(t, warnings, "endpoint port")
	assert.Contains(t, warnings, "public port")
	assert.Contains(t, warnings, "probe port")
}

func TestPlanInstances_NewFleetOverExistingIsModeConflict(t *testing.T) {
	t.Parallel()
	existing := []platform.FleetInstance{deployedInstance("web1", 1)}
	req := newFleetRequest(2)
	req.NewFleet = true

	_, err := PlanInstances(testContext(listingDirectory(existing...)), req)
	require.Error(t, err)
	assert.True(t, provisioning.IsModeConflict(err))
	assert.True(t, provisioning.IsConfigurationError(err))
}

func TestPlanInstances_MissingTemplateFields(t *testing.T) {
	t.Parallel()
	_, err := PlanInstances(testContext(listingDirectory()), Request{
		Service: "web-svc", Base: "web", Count: 1, Size: "cx22",
	})
	require.Error(t, err)
	assert.True(t, provisioning.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "image")
	assert.Contains(t, err.Error(), "location")
	assert.Contains(t, err.Error(), "endpoint name")
}

func TestPlanInstances_ForeignNameBreaksNumbering(t *testing.T) {
	t.Parallel()
	existing := []platform.FleetInstance{
		deployedInstance("web1", 1),
		deployedInstance("webprimary", 0),
	}
	_, err := PlanInstances(testContext(listingDirectory(existing...)), Request{
		Service: "web-svc", Base: "web", Count: 1,
	})
	require.Error(t, err)
	assert.True(t, provisioning.IsInvariantViolation(err))
}

func TestPlanInstances_NonPositiveCount(t *testing.T) {
	t.Parallel()
	_, err := PlanInstances(testContext(listingDirectory()), Request{
		Service: "web-svc", Base: "web", Count: 0,
	})
	require.Error(t, err)
	assert.True(t, provisioning.IsConfigurationError(err))
}

func TestPlanInstances_EndpointDefaults(t *testing.T) {
	t.Parallel()
	req := newFleetRequest(1)
	req.Endpoint = EndpointSpec{Name: "api", LocalPort: 9000}

	plan, err := PlanInstances(testContext(listingDirectory()), req)
	require.NoError(t, err)

	ep := plan.Endpoint
	assert.Equal(t, "tcp", ep.Protocol)
	assert.Equal(t, 9000, ep.PublicPort)
	assert.Equal(t, 9000, ep.ProbePort)
	assert.Equal(t, "api-lbset", ep.LoadBalancerSet)
	assert.Equal(t, "api-avset", plan.AvailabilitySet)
}
