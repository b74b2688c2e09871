package commands

import (
	"github.com/spf13/cobra"

	"github.com/fleetadm/fleetadm/cmd/fleetadm/handlers"
)

// Disks returns the disk setup command family.
func Disks() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disks",
		Short: "Prepare instance storage",
	}
	cmd.AddCommand(disksSetup())
	return cmd
}

func disksSetup() *cobra.Command {
	var (
		configPath string
		p          handlers.DisksParams
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Stripe data disks and lay out database files on an instance",
		Long: `Stripe an instance's data disks into mounted volumes and create the
database data and log file layout across them.

The layout is rendered into a versioned setup script and executed on the
instance over SSH in a single invocation.

Example:
  fleetadm disks setup --host 203.0.113.10 --database orders \
    --disks 4 --volumes 2 --data-files 4 --log-files 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.DisksSetup(cmd.Context(), configPath, p)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&p.Instance, "instance", "", "Instance computer name")
	cmd.Flags().StringVar(&p.Host, "host", "", "Instance address (overrides --instance resolution)")
	cmd.Flags().StringVar(&p.Database, "database", "", "Database name (required)")
	cmd.Flags().StringVar(&p.ScriptVersion, "script-version", "", "Setup script revision (default: latest)")
	cmd.Flags().IntVar(&p.DataDisks, "disks", 0, "Number of data disks (required)")
	cmd.Flags().IntVar(&p.Volumes, "volumes", 1, "Number of striped volumes")
	cmd.Flags().IntVar(&p.DataFiles, "data-files", 1, "Number of database data files")
	cmd.Flags().IntVar(&p.LogFiles, "log-files", 1, "Number of database log files")
	_ = cmd.MarkFlagRequired("database")
	_ = cmd.MarkFlagRequired("disks")

	return cmd
}
