package provisioning

import (
	"errors"
	"fmt"
)

// The workflows distinguish three fatal error kinds. None of them trigger
// rollback of resources created earlier in the same run: these are one-shot
// administrative actions and partial state is left for operator cleanup.

// ProvisioningFailure reports that the provider rejected a create or update
// call. It is fatal for the invoking workflow and is never retried.
type ProvisioningFailure struct {
	Kind string // resource kind, e.g. "affinity group", "server"
	Name string
	Err  error
}

func (e *ProvisioningFailure) Error() string {
	return fmt.Sprintf("provisioning %s %q failed: %v", e.Kind, e.Name, e.Err)
}

func (e *ProvisioningFailure) Unwrap() error {
	return e.Err
}

// NewProvisioningFailure wraps a provider error with the resource identity.
func NewProvisioningFailure(kind, name string, err error) error {
	return &ProvisioningFailure{Kind: kind, Name: name, Err: err}
}

// IsProvisioningFailure reports whether err is a ProvisioningFailure.
func IsProvisioningFailure(err error) bool {
	var pf *ProvisioningFailure
	return errors.As(err, &pf)
}

// ConfigurationError reports a local policy precondition failure, raised
// before any remote mutation where possible: a bucket that already exists
// without --force, a declined confirmation, a fleet mode conflict.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

// NewConfigurationError builds a ConfigurationError from a format string.
func NewConfigurationError(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// IsConfigurationError reports whether err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// ModeConflict is the ConfigurationError raised when a caller asked for
// new-fleet semantics but instances of the fleet already exist. Creating a
// second identity for a running load-balanced set would silently split it.
type ModeConflict struct {
	ConfigurationError
	Service string
}

// Unwrap exposes the embedded ConfigurationError so callers matching on
// the broader class also catch mode conflicts.
func (e *ModeConflict) Unwrap() error {
	return &e.ConfigurationError
}

// NewModeConflict builds the mode conflict error for a service.
func NewModeConflict(service string) error {
	return &ModeConflict{
		ConfigurationError: ConfigurationError{
			Reason: fmt.Sprintf("service %q already has instances; refusing to create a new fleet over an existing one", service),
		},
		Service: service,
	}
}

// IsModeConflict reports whether err is a ModeConflict.
func IsModeConflict(err error) bool {
	var mc *ModeConflict
	return errors.As(err, &mc)
}

// InvariantViolation reports discovered provider state that breaks an
// assumed naming or structural convention, e.g. a fleet instance whose name
// suffix is not numeric. The offending identifier is carried verbatim.
type InvariantViolation struct {
	Resource string
	Detail   string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violated by %q: %s", e.Resource, e.Detail)
}

// NewInvariantViolation builds an InvariantViolation for a resource.
func NewInvariantViolation(resource, format string, args ...any) error {
	return &InvariantViolation{Resource: resource, Detail: fmt.Sprintf(format, args...)}
}

// IsInvariantViolation reports whether err is an InvariantViolation.
func IsInvariantViolation(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}
