// Package upload pushes a local directory tree into a blob container,
// best-effort per file.
package upload

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fleetadm/fleetadm/internal/platform/s3"
	"github.com/fleetadm/fleetadm/internal/provisioning"
	"github.com/fleetadm/fleetadm/internal/util/async"
	"github.com/fleetadm/fleetadm/internal/util/naming"
)

const phase = "upload"

// Params configures one upload batch.
type Params struct {
	Bucket string
	// Root is the local directory whose files are uploaded. Object keys
	// are the slash-separated paths of the files relative to Root.
	Root string
	// Force uploads into an existing bucket without consulting Confirm.
	Force bool
	// Confirm is consulted when the bucket already exists and Force is
	// unset. It returns whether the upload into the existing bucket should
	// proceed. A nil Confirm declines.
	Confirm func(bucket string) (bool, error)
}

// Summary reports the outcome of a batch. Failed counts files whose
// transfer failed; the batch itself succeeds as long as it ran.
type Summary struct {
	Attempted int
	Uploaded  int
	Failed    int
	Elapsed   time.Duration
}

type unit struct {
	path string
	key  string
	size int64
}

// Run uploads every regular file under p.Root into p.Bucket, in parallel.
//
// Files are isolated from each other: a failed transfer is logged and
// counted, and the remaining files still upload. Only an existing bucket
// the caller declines to upload into, an unreadable root, or a failed
// bucket creation abort the batch, and all of those happen before any
// object is written.
func Run(ctx *provisioning.Context, store s3.BlobStore, p Params) (*Summary, error) {
	units, err := collectUnits(p.Root)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, provisioning.NewConfigurationError("no files to upload under %s", p.Root)
	}

	if err := ensureBucket(ctx, store, p); err != nil {
		return nil, err
	}

	start := time.Now()
	tasks := make([]async.Task, 0, len(units))
	for _, u := range units {
		tasks = append(tasks, async.Task{
			Name: u.key,
			Func: uploadOne(store, p.Bucket, u),
		})
	}

	summary := &Summary{Attempted: len(units)}
	for _, res := range async.RunParallelCollect(ctx, tasks) {
		if res.Err != nil {
			summary.Failed++
			ctx.Observer.Event(provisioning.Event{
				Type:     provisioning.EventUploadFailed,
				Phase:    phase,
				Resource: res.Name,
				Message:  res.Err.Error(),
			})
			continue
		}
		summary.Uploaded++
	}
	summary.Elapsed = time.Since(start)

	ctx.Observer.Printf("[%s] uploaded %d/%d files to %s in %s",
		phase, summary.Uploaded, summary.Attempted, p.Bucket, summary.Elapsed.Round(time.Millisecond))
	return summary, nil
}

// ensureBucket runs the pre-transfer gate. An existing bucket may already
// hold objects from a prior run, so uploading into it needs the caller's
// consent unless Force is set; a decline aborts before any transfer. A
// missing bucket is simply created.
func ensureBucket(ctx *provisioning.Context, store s3.BlobStore, p Params) error {
	exists, err := store.BucketExists(ctx, p.Bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", p.Bucket, err)
	}
	if !exists {
		if err := store.CreateBucket(ctx, p.Bucket); err != nil {
			return provisioning.NewProvisioningFailure("bucket", p.Bucket, err)
		}
		provisioning.LogResourceCreated(ctx.Observer, phase, "bucket", p.Bucket)
		return nil
	}
	if p.Force {
		return nil
	}

	confirmed := false
	if p.Confirm != nil {
		confirmed, err = p.Confirm(p.Bucket)
		if err != nil {
			return fmt.Errorf("bucket overwrite prompt: %w", err)
		}
	}
	if !confirmed {
		return provisioning.NewConfigurationError("bucket %q already exists and uploading into it was declined", p.Bucket)
	}
	return nil
}

func collectUnits(root string) ([]unit, error) {
	var units []unit
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		units = append(units, unit{path: path, key: naming.BlobKey(rel), size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning upload root %s: %w", root, err)
	}
	return units, nil
}

func uploadOne(store s3.BlobStore, bucket string, u unit) func(context.Context) error {
	return func(ctx context.Context) error {
		f, err := os.Open(u.path)
		if err != nil {
			return err
		}
		defer f.Close()
		return store.PutObject(ctx, bucket, u.key, f, u.size)
	}
}
