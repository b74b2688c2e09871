package disks

import (
	"text/template"

	"github.com/fleetadm/fleetadm/internal/provisioning"
)

// Script templates by revision. Older revisions stay available so that an
// instance prepared with one revision can be re-run with the same one.
//
// LatestVersion is used when the caller does not pin a revision.
const LatestVersion = "2"

var scriptTemplates = map[string]string{
	// Revision 1: one ext4 filesystem per raw disk, no striping.
	"1": `#!/usr/bin/env bash
set -euo pipefail
{{range .Volumes}}{{$mount := .MountPoint}}{{range .Disks}}
mkfs.ext4 -F {{.}}
mkdir -p {{$mount}}
mount {{.}} {{$mount}}
echo "{{.}} {{$mount}} ext4 defaults,nofail 0 2" >> /etc/fstab
{{end}}{{end}}
{{range .DataFiles}}
install -d -m 0750 "$(dirname {{.}})"
{{end}}
{{range .LogFiles}}
install -d -m 0750 "$(dirname {{.}})"
{{end}}
`,

	// Revision 2: mdadm raid0 stripe sets, one per volume.
	"2": `#!/usr/bin/env bash
set -euo pipefail
{{range .Volumes}}
mdadm --create {{.Device}} --level=0 --raid-devices={{len .Disks}} {{range .Disks}}{{.}} {{end}}
mkfs.ext4 -F {{.Device}}
mkdir -p {{.MountPoint}}
mount {{.Device}} {{.MountPoint}}
echo "{{.Device}} {{.MountPoint}} ext4 defaults,nofail 0 2" >> /etc/fstab
{{end}}
mdadm --detail --scan >> /etc/mdadm/mdadm.conf
{{range .DataFiles}}
install -d -m 0750 "$(dirname {{.}})"
truncate -s 0 {{.}}
{{end}}
{{range .LogFiles}}
install -d -m 0750 "$(dirname {{.}})"
truncate -s 0 {{.}}
{{end}}
echo "layout ready: {{.Database}}"
`,
}

func scriptTemplate(version string) (*template.Template, error) {
	if version == "" {
		version = LatestVersion
	}
	src, ok := scriptTemplates[version]
	if !ok {
		return nil, provisioning.NewConfigurationError("unknown disk setup script version %q", version)
	}
	return template.Must(template.New("disk-setup-"+version).Parse(src)), nil
}
