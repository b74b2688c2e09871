package commands

import (
	"github.com/spf13/cobra"

	"github.com/fleetadm/fleetadm/cmd/fleetadm/handlers"
)

// Fleet returns the fleet command family.
func Fleet() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fleet",
		Short: "Manage numbered instance fleets",
	}
	cmd.AddCommand(fleetCreate())
	cmd.AddCommand(fleetExtend())
	return cmd
}

// fleetCreate returns the command that creates the first instances of a
// fleet. It fails when any instance of the fleet already exists.
func fleetCreate() *cobra.Command {
	var (
		configPath string
		p          handlers.FleetParams
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new fleet",
		Long: `Create the first instances of a fleet behind a shared endpoint.

Instance names are the base prefix plus a numeric suffix starting at 1.
Each instance also gets a direct diagnostic port (30000 + index).

The command refuses to run when the fleet already has instances; use
'fleet extend' to grow an existing fleet.

Example:
  fleetadm fleet create --service web-svc --base web --count 3 \
    --size cx22 --image debian-12 --endpoint web --port 8080 --public-port 80`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p.NewFleet = true
			return handlers.FleetDeploy(cmd.Context(), configPath, p)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	addFleetIdentityFlags(cmd, &p)
	cmd.Flags().StringVar(&p.Size, "size", "", "Server type, e.g. cx22")
	cmd.Flags().StringVar(&p.Image, "image", "", "Server image, e.g. debian-12")
	cmd.Flags().StringVar(&p.Location, "location", "", "Location (default from config)")
	cmd.Flags().StringVar(&p.Endpoint, "endpoint", "", "Shared endpoint name (required)")
	cmd.Flags().StringVar(&p.Protocol, "protocol", "tcp", "Endpoint protocol")
	cmd.Flags().IntVar(&p.Port, "port", 0, "Instance-local endpoint port (required)")
	cmd.Flags().IntVar(&p.PublicPort, "public-port", 0, "Public endpoint port (default: local port)")
	cmd.Flags().IntVar(&p.ProbePort, "probe-port", 0, "Health probe port (default: local port)")
	_ = cmd.MarkFlagRequired("endpoint")
	_ = cmd.MarkFlagRequired("port")

	return cmd
}

// fleetExtend returns the command that grows an existing fleet. Sizing and
// endpoint layout are copied from the deployed instances.
func fleetExtend() *cobra.Command {
	var (
		configPath string
		p          handlers.FleetParams
	)

	cmd := &cobra.Command{
		Use:   "extend",
		Short: "Add instances to an existing fleet",
		Long: `Add instances to an existing fleet.

New instances continue the numbering one past the highest suffix in use;
gaps left by deleted instances are never refilled. The instance template
(size, image, location, endpoint) is read from the deployed fleet.

Example:
  fleetadm fleet extend --service web-svc --base web --count 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.FleetDeploy(cmd.Context(), configPath, p)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	addFleetIdentityFlags(cmd, &p)

	return cmd
}

func addFleetIdentityFlags(cmd *cobra.Command, p *handlers.FleetParams) {
	cmd.Flags().StringVar(&p.Service, "service", "", "Service the fleet belongs to (required)")
	cmd.Flags().StringVar(&p.Base, "base", "", "Computer name prefix (required)")
	cmd.Flags().IntVar(&p.Count, "count", 1, "Number of instances to add")
	_ = cmd.MarkFlagRequired("service")
	_ = cmd.MarkFlagRequired("base")
}
