package fleet

import (
	"fmt"

	"github.com/fleetadm/fleetadm/internal/provisioning"
)

// Submit creates the planned instances, in index order. Shared resources
// (availability set, load-balanced endpoint) are reconciled first so that
// every instance can reference them.
//
// There is no rollback: an instance that fails to create leaves the
// instances before it running and registered. The error names the failing
// instance so the operator can resume with a smaller count.
func Submit(ctx *provisioning.Context, plan *Plan) error {
	if len(plan.Instances) == 0 {
		return nil
	}

	if err := ctx.Dir.EnsureAvailabilitySet(ctx, plan.AvailabilitySet); err != nil {
		return provisioning.NewProvisioningFailure("availability set", plan.AvailabilitySet, err)
	}
	if plan.Endpoint.LoadBalancerSet != "" {
		if err := ctx.Dir.EnsureLoadBalancedEndpoint(ctx, plan.Service, plan.Location, plan.Endpoint); err != nil {
			return provisioning.NewProvisioningFailure("load balanced endpoint", plan.Endpoint.LoadBalancerSet, err)
		}
	}

	total := len(plan.Instances)
	for i, inst := range plan.Instances {
		provisioning.LogResourceCreating(ctx.Observer, phase, "instance", inst.ComputerName)
		ip, err := ctx.Dir.CreateInstance(ctx, plan.Service, plan.Location, inst)
		if err != nil {
			provisioning.LogResourceFailed(ctx.Observer, phase, "instance", inst.ComputerName, err)
			return provisioning.NewProvisioningFailure("instance", inst.ComputerName,
				fmt.Errorf("instance %d of %d: %w", i+1, total, err))
		}
		ctx.State.InstanceIPs[inst.ComputerName] = ip
		provisioning.LogResourceCreated(ctx.Observer, phase, "instance", inst.ComputerName)
		ctx.Observer.Progress(phase, i+1, total)
	}
	return nil
}
