package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/fleetadm/fleetadm/internal/provisioning"
	"github.com/fleetadm/fleetadm/internal/provisioning/upload"
)

// UploadParams configures one upload batch.
type UploadParams struct {
	Bucket string
	Root   string
	// Force uploads into an existing bucket without prompting.
	Force bool
}

// UploadTree uploads a local directory tree into a bucket.
func UploadTree(ctx context.Context, configPath string, p UploadParams) error {
	pctx, err := newWorkflowContext(ctx, configPath)
	if err != nil {
		return err
	}

	bucket := p.Bucket
	if bucket == "" {
		bucket = pctx.Config.Storage.Bucket
	}
	if bucket == "" {
		return provisioning.NewConfigurationError("no bucket given and none configured")
	}

	store, err := newBlobStore(pctx.Config)
	if err != nil {
		return err
	}

	summary, err := upload.Run(pctx, store, upload.Params{
		Bucket:  bucket,
		Root:    p.Root,
		Force:   p.Force,
		Confirm: confirmExistingBucket,
	})
	if err != nil {
		return err
	}

	fmt.Print(renderUploadSummary(bucket, summary))
	return nil
}

// confirmExistingBucket asks before uploading into a bucket that may hold
// objects from a prior run. A non-interactive run declines rather than
// hanging on a prompt nobody will answer; --force skips the gate entirely.
func confirmExistingBucket(bucket string) (bool, error) {
	if !stdoutIsTerminal() {
		return false, nil
	}
	var confirmed bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Bucket %q already exists. Upload into it?", bucket)).
		Value(&confirmed).
		Run()
	return confirmed, err
}

// stdoutIsTerminal is a variable for test injection.
var stdoutIsTerminal = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
