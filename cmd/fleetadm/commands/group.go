package commands

import (
	"github.com/spf13/cobra"

	"github.com/fleetadm/fleetadm/cmd/fleetadm/handlers"
)

// Group returns the affinity group command family.
func Group() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage affinity groups",
	}
	cmd.AddCommand(groupEnsure())
	return cmd
}

// groupEnsure returns the command that reconciles one affinity group.
//
// Ensuring is idempotent: an existing group is left alone, and an existing
// group in a different region wins over the requested region with a
// warning.
func groupEnsure() *cobra.Command {
	var (
		configPath string
		name       string
		region     string
	)

	cmd := &cobra.Command{
		Use:   "ensure",
		Short: "Create an affinity group if it does not exist",
		Long: `Create an affinity group if it does not exist.

An affinity group ties later resources (network sites, fleets) to a region.
Re-running against an existing group is a no-op. If the group exists in a
different region, the existing region is kept and a warning is printed.

Example:
  fleetadm group ensure --name prod-group --region nbg1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.GroupEnsure(cmd.Context(), configPath, handlers.GroupParams{
				Name:   name,
				Region: region,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&name, "name", "", "Affinity group name (required)")
	cmd.Flags().StringVar(&region, "region", "", "Region the group pins resources to")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
