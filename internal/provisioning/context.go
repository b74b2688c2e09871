package provisioning

import (
	"context"

	"github.com/fleetadm/fleetadm/internal/config"
	platform "github.com/fleetadm/fleetadm/internal/platform/hcloud"
)

// State holds the shared results of workflow steps. It is progressively
// populated as the driver runs and handed to later steps that need earlier
// results.
type State struct {
	// Resolved region for the run. When the affinity group already existed
	// with a different region, this is the existing region, not the
	// requested one.
	Region string

	// Group is the reconciled affinity group.
	Group *platform.AffinityGroup

	// SiteName is the reconciled virtual network site.
	SiteName string

	// InstanceIPs maps created fleet instance names to public IPs.
	InstanceIPs map[string]string
}

// NewState creates an empty workflow state.
func NewState() *State {
	return &State{InstanceIPs: make(map[string]string)}
}

// Context wraps the dependencies and state threaded through every workflow.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Dir      platform.Directory
	Observer Observer
}

// NewContext creates a workflow context with a console observer.
func NewContext(ctx context.Context, cfg *config.Config, dir platform.Directory) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Dir:      dir,
		Observer: NewConsoleObserver(),
	}
}
