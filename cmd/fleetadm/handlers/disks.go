package handlers

import (
	"context"

	"github.com/fleetadm/fleetadm/internal/provisioning/disks"
)

// DisksParams configures a disk setup run.
type DisksParams struct {
	Instance      string
	Host          string
	Database      string
	ScriptVersion string
	DataDisks     int
	Volumes       int
	DataFiles     int
	LogFiles      int
}

// DisksSetup prepares the storage layout of one instance over SSH.
func DisksSetup(ctx context.Context, configPath string, p DisksParams) error {
	pctx, err := newWorkflowContext(ctx, configPath)
	if err != nil {
		return err
	}
	runner, err := newRunner(pctx.Config)
	if err != nil {
		return err
	}

	return disks.Setup(pctx, runner, disks.Params{
		Instance:  p.Instance,
		Host:      p.Host,
		Version:   p.ScriptVersion,
		DataDisks: p.DataDisks,
		Volumes:   p.Volumes,
		Database:  p.Database,
		DataFiles: p.DataFiles,
		LogFiles:  p.LogFiles,
	})
}
