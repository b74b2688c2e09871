package commands

import (
	"github.com/spf13/cobra"

	"github.com/fleetadm/fleetadm/cmd/fleetadm/handlers"
)

// Provision returns the driver command: affinity group, network site and
// fleet in one run.
func Provision() *cobra.Command {
	var (
		configPath string
		p          handlers.ProvisionParams
	)

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision group, network site and fleet in one run",
		Long: `Run the full provisioning chain: ensure the affinity group, ensure the
virtual network site under it, then plan and create the fleet instances.

Every step is idempotent, so the command can be re-run after a partial
failure and continues where the previous run stopped. Nothing created by
an earlier step is rolled back when a later step fails.

Example:
  fleetadm provision --group prod-group --region nbg1 \
    --site vnet-prod --subnet front --prefix 10.0.0.0/16 --subnet-prefix 10.0.1.0/24 \
    --service web-svc --base web --count 3 \
    --size cx22 --image debian-12 --endpoint web --port 8080 --public-port 80`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), configPath, p)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&p.Group, "group", "", "Affinity group name (required)")
	cmd.Flags().StringVar(&p.Region, "region", "", "Region for a newly created group")
	cmd.Flags().StringVar(&p.Site, "site", "", "Network site name (required)")
	cmd.Flags().StringVar(&p.Subnet, "subnet", "", "Subnet name (required)")
	cmd.Flags().StringVar(&p.AddressPrefix, "prefix", "", "Site address prefix (required)")
	cmd.Flags().StringVar(&p.SubnetPrefix, "subnet-prefix", "", "Subnet address prefix (required)")
	cmd.Flags().StringVar(&p.Fleet.Service, "service", "", "Service the fleet belongs to (required)")
	cmd.Flags().StringVar(&p.Fleet.Base, "base", "", "Computer name prefix (required)")
	cmd.Flags().IntVar(&p.Fleet.Count, "count", 1, "Number of instances")
	cmd.Flags().StringVar(&p.Fleet.Size, "size", "", "Server type")
	cmd.Flags().StringVar(&p.Fleet.Image, "image", "", "Server image")
	cmd.Flags().StringVar(&p.Fleet.Location, "location", "", "Location (default from config)")
	cmd.Flags().StringVar(&p.Fleet.Endpoint, "endpoint", "", "Shared endpoint name")
	cmd.Flags().StringVar(&p.Fleet.Protocol, "protocol", "tcp", "Endpoint protocol")
	cmd.Flags().IntVar(&p.Fleet.Port, "port", 0, "Instance-local endpoint port")
	cmd.Flags().IntVar(&p.Fleet.PublicPort, "public-port", 0, "Public endpoint port")
	cmd.Flags().IntVar(&p.Fleet.ProbePort, "probe-port", 0, "Health probe port")
	for _, flag := range []string{"group", "site", "subnet", "prefix", "subnet-prefix", "service", "base"} {
		_ = cmd.MarkFlagRequired(flag)
	}

	return cmd
}
