package hcloud

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// CreateResult wraps the result of a resource creation, together with the
// provider actions that must complete before the resource is usable.
type CreateResult[T any] struct {
	Resource T
	Action   *hcloud.Action
	Actions  []*hcloud.Action
}

// EnsureResult is the outcome of an ensure operation.
type EnsureResult[T any] struct {
	Resource T
	// Created is true when the resource did not exist and was created.
	Created bool
	// Conflict is non-empty when the resource existed with a property
	// diverging from the requested value. The existing state wins; the
	// caller decides how loudly to report the divergence.
	Conflict string
}

// EnsureOperation encapsulates create-if-missing logic for a named
// resource. Re-running it against an already-correct resource issues no
// create call and reports no conflict.
//
// Divergence between requested and existing state is deliberately NOT an
// error: these operations back re-runnable administrative scripts, and a
// partially-completed prior run must never block the current one. The
// existing resource's property always overrides the caller's request.
//
// Usage:
//
//	(&EnsureOperation[*hcloud.PlacementGroup, hcloud.PlacementGroupCreateOpts]{
//	    Name:         name,
//	    ResourceType: "affinity group",
//	    Get:          c.placementGroup.GetByName,
//	    Create:       ...,
//	    CreateOptsMapper: func() hcloud.PlacementGroupCreateOpts { ... },
//	    Diverged: func(pg *hcloud.PlacementGroup) (string, bool) { ... },
//	}).Execute(ctx, c)
type EnsureOperation[T any, CreateOpts any] struct {
	Name         string
	ResourceType string

	// Get retrieves the resource by name; nil resource means absent.
	Get func(ctx context.Context, name string) (T, *hcloud.Response, error)

	// Create creates the resource with the given options.
	Create func(ctx context.Context, opts CreateOpts) (*CreateResult[T], *hcloud.Response, error)

	// CreateOptsMapper maps input parameters to create options.
	CreateOptsMapper func() CreateOpts

	// Diverged compares the one property that matters for this resource
	// kind against the requested value (optional). It returns a
	// description of the divergence and whether one exists.
	Diverged func(resource T) (string, bool)
}

// Execute looks the resource up and creates it when absent. A create
// failure is returned to the caller untranslated; the workflows wrap it
// into their own taxonomy.
func (op *EnsureOperation[T, CreateOpts]) Execute(ctx context.Context, client *RealClient) (EnsureResult[T], error) {
	var zero EnsureResult[T]

	resource, _, err := op.Get(ctx, op.Name)
	if err != nil {
		return zero, fmt.Errorf("failed to get %s %q: %w", op.ResourceType, op.Name, err)
	}

	if !reflect.ValueOf(resource).IsNil() {
		res := EnsureResult[T]{Resource: resource}
		if op.Diverged != nil {
			if detail, diverged := op.Diverged(resource); diverged {
				res.Conflict = detail
			}
		}
		return res, nil
	}

	result, _, err := op.Create(ctx, op.CreateOptsMapper())
	if err != nil {
		return zero, fmt.Errorf("failed to create %s %q: %w", op.ResourceType, op.Name, err)
	}
	if err := waitForCreate(ctx, client, result); err != nil {
		return zero, fmt.Errorf("failed to wait for %s %q creation: %w", op.ResourceType, op.Name, err)
	}

	return EnsureResult[T]{Resource: result.Resource, Created: true}, nil
}

func waitForCreate[T any](ctx context.Context, client *RealClient, result *CreateResult[T]) error {
	if result.Action != nil {
		return client.action.WaitFor(ctx, result.Action)
	}
	if len(result.Actions) > 0 {
		return client.action.WaitFor(ctx, result.Actions...)
	}
	return nil
}
