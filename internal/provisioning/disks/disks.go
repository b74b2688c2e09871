// Package disks prepares the storage layout of a fleet instance: it
// stripes the instance's data disks into mounted volumes and lays out the
// database data and log files across them.
//
// The actual shell commands live in versioned script templates. The core
// only renders a template with the computed layout and ships the result to
// the instance; it never interprets the script's contents, so a template
// revision cannot break the planner.
package disks

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/fleetadm/fleetadm/internal/platform/ssh"
	"github.com/fleetadm/fleetadm/internal/provisioning"
)

const phase = "disks"

const remoteScriptPath = "/tmp/fleetadm-disk-setup.sh"

// Params configures the storage setup of one instance.
type Params struct {
	// Instance is the computer name; its address is resolved from the
	// workflow state (instances created earlier in the run) or taken from
	// Host.
	Instance string
	// Host overrides address resolution for instances created in an
	// earlier run.
	Host string

	// Version selects the script template revision. Empty means latest.
	Version string

	DataDisks int
	Volumes   int

	// Database names the database whose files are laid out across the
	// volumes.
	Database  string
	DataFiles int
	LogFiles  int
}

// Volume is one striped volume of the computed layout.
type Volume struct {
	Index      int
	Device     string // md device, e.g. /dev/md1
	MountPoint string
	Disks      []string // member data disks
}

// Layout is the fully computed storage layout handed to the template.
type Layout struct {
	Database  string
	Volumes   []Volume
	DataFiles []string
	LogFiles  []string
}

// Setup renders the script template for the computed layout and runs it on
// the instance. The script runs as a single remote invocation; a non-zero
// exit fails the setup with the remote output attached.
func Setup(ctx *provisioning.Context, runner ssh.Runner, p Params) error {
	tmpl, err := scriptTemplate(p.Version)
	if err != nil {
		return err
	}
	layout, err := buildLayout(p)
	if err != nil {
		return err
	}

	var script bytes.Buffer
	if err := tmpl.Execute(&script, layout); err != nil {
		return fmt.Errorf("rendering disk setup script: %w", err)
	}

	host, err := resolveHost(ctx, p)
	if err != nil {
		return err
	}

	if err := runner.Push(ctx, host, remoteScriptPath, script.Bytes()); err != nil {
		return provisioning.NewProvisioningFailure("disk setup", p.Instance, err)
	}
	output, err := runner.Run(ctx, host, "bash "+remoteScriptPath)
	if err != nil {
		return provisioning.NewProvisioningFailure("disk setup", p.Instance,
			fmt.Errorf("%w, output: %s", err, strings.TrimSpace(output)))
	}

	ctx.Observer.Printf("[%s] instance %s: %d disks striped into %d volumes, %d data + %d log files",
		phase, p.Instance, p.DataDisks, p.Volumes, p.DataFiles, p.LogFiles)
	return nil
}

// buildLayout distributes disks over volumes and database files over
// volumes, both round-robin, so uneven counts stay balanced.
func buildLayout(p Params) (Layout, error) {
	switch {
	case p.Instance == "" && p.Host == "":
		return Layout{}, provisioning.NewConfigurationError("disk setup requires an instance name or host")
	case p.Database == "":
		return Layout{}, provisioning.NewConfigurationError("disk setup requires a database name")
	case p.Volumes < 1:
		return Layout{}, provisioning.NewConfigurationError("volume count must be at least 1, got %d", p.Volumes)
	case p.DataDisks < p.Volumes:
		return Layout{}, provisioning.NewConfigurationError(
			"cannot stripe %d disks into %d volumes", p.DataDisks, p.Volumes)
	case p.DataFiles < 1 || p.LogFiles < 1:
		return Layout{}, provisioning.NewConfigurationError("data and log file counts must be at least 1")
	}

	layout := Layout{Database: p.Database}
	for v := range p.Volumes {
		layout.Volumes = append(layout.Volumes, Volume{
			Index:      v + 1,
			Device:     fmt.Sprintf("/dev/md%d", v+1),
			MountPoint: fmt.Sprintf("/mnt/data%d", v+1),
		})
	}
	// The OS disk is sda; data disks start at sdb.
	for d := range p.DataDisks {
		vol := &layout.Volumes[d%p.Volumes]
		vol.Disks = append(vol.Disks, fmt.Sprintf("/dev/sd%c", 'b'+d))
	}

	for f := range p.DataFiles {
		mount := layout.Volumes[f%p.Volumes].MountPoint
		layout.DataFiles = append(layout.DataFiles,
			fmt.Sprintf("%s/%s/data/%s_data_%02d.dat", mount, p.Database, p.Database, f+1))
	}
	for f := range p.LogFiles {
		// Log files fill volumes from the last one backwards so that a
		// single-file database does not share its data volume.
		mount := layout.Volumes[len(layout.Volumes)-1-(f%p.Volumes)].MountPoint
		layout.LogFiles = append(layout.LogFiles,
			fmt.Sprintf("%s/%s/log/%s_log_%02d.trn", mount, p.Database, p.Database, f+1))
	}
	sort.Strings(layout.DataFiles)
	sort.Strings(layout.LogFiles)
	return layout, nil
}

func resolveHost(ctx *provisioning.Context, p Params) (string, error) {
	if p.Host != "" {
		return p.Host, nil
	}
	if ip, ok := ctx.State.InstanceIPs[p.Instance]; ok {
		return ip, nil
	}
	return "", provisioning.NewConfigurationError(
		"no address known for instance %q; pass the host explicitly", p.Instance)
}
