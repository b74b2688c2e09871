package commands

import (
	"github.com/spf13/cobra"

	"github.com/fleetadm/fleetadm/cmd/fleetadm/handlers"
)

// Upload returns the command that pushes a directory tree into a bucket.
func Upload() *cobra.Command {
	var (
		configPath string
		bucket     string
		root       string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a directory tree to object storage",
		Long: `Upload every file under a directory to an object storage bucket.

Files upload in parallel and independently: a failed transfer is reported
in the summary but does not stop the others. Uploading into a bucket that
already exists must be confirmed; --force skips the prompt. A missing
bucket is created automatically.

Example:
  fleetadm upload --bucket payloads --root ./dist`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.UploadTree(cmd.Context(), configPath, handlers.UploadParams{
				Bucket: bucket,
				Root:   root,
				Force:  force,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&bucket, "bucket", "", "Target bucket (default from config)")
	cmd.Flags().StringVar(&root, "root", "", "Local directory to upload (required)")
	cmd.Flags().BoolVar(&force, "force", false, "Upload into an existing bucket without asking")
	_ = cmd.MarkFlagRequired("root")

	return cmd
}
