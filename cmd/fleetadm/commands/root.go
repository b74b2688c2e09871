// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the fleetadm CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fleetadm",
		Short: "Provision load-balanced server fleets on Hetzner Cloud",
	}

	cmd.AddCommand(Group())
	cmd.AddCommand(Network())
	cmd.AddCommand(Fleet())
	cmd.AddCommand(Upload())
	cmd.AddCommand(Disks())
	cmd.AddCommand(Provision())
	cmd.AddCommand(Version())

	return cmd
}
