package commands

import (
	"github.com/spf13/cobra"

	"github.com/fleetadm/fleetadm/cmd/fleetadm/handlers"
)

// Network returns the virtual network site command family.
func Network() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "network",
		Short: "Manage virtual network sites",
	}
	cmd.AddCommand(networkEnsure())
	cmd.AddCommand(networkExport())
	return cmd
}

func networkEnsure() *cobra.Command {
	var (
		configPath string
		site       string
		subnet     string
		group      string
		prefix     string
		subnetCIDR string
	)

	cmd := &cobra.Command{
		Use:   "ensure",
		Short: "Create a virtual network site if it does not exist",
		Long: `Create a virtual network site with one subnet under an affinity group.

A site that is already deployed is left untouched; its address space is
never changed. Running the same ensure twice yields exactly one site.

Example:
  fleetadm network ensure --site vnet-prod --subnet front \
    --group prod-group --prefix 10.0.0.0/16 --subnet-prefix 10.0.1.0/24`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.NetworkEnsure(cmd.Context(), configPath, handlers.NetworkParams{
				Site:          site,
				Subnet:        subnet,
				AffinityGroup: group,
				AddressPrefix: prefix,
				SubnetPrefix:  subnetCIDR,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&site, "site", "", "Network site name (required)")
	cmd.Flags().StringVar(&subnet, "subnet", "", "Subnet name (required)")
	cmd.Flags().StringVar(&group, "group", "", "Owning affinity group (required)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Site address prefix, e.g. 10.0.0.0/16 (required)")
	cmd.Flags().StringVar(&subnetCIDR, "subnet-prefix", "", "Subnet address prefix (required)")
	for _, flag := range []string{"site", "subnet", "group", "prefix", "subnet-prefix"} {
		_ = cmd.MarkFlagRequired(flag)
	}

	return cmd
}

func networkExport() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the current network configuration document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.NetworkExport(cmd.Context(), configPath, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	return cmd
}
