package disks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetadm/fleetadm/internal/config"
	platform "github.com/fleetadm/fleetadm/internal/platform/hcloud"
	"github.com/fleetadm/fleetadm/internal/provisioning"
)

// fakeRunner records pushed files and executed commands per host.
type fakeRunner struct {
	pushed  map[string][]byte // remote path -> content
	ran     []string
	host    string
	runErr  error
	pushErr error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{pushed: make(map[string][]byte)}
}

func (r *fakeRunner) Run(_ context.Context, host, command string) (string, error) {
	r.host = host
	r.ran = append(r.ran, command)
	if r.runErr != nil {
		return "mdadm: cannot open /dev/sdb", r.runErr
	}
	return "", nil
}

func (r *fakeRunner) Push(_ context.Context, host, remotePath string, content []byte) error {
	r.host = host
	if r.pushErr != nil {
		return r.pushErr
	}
	r.pushed[remotePath] = content
	return nil
}

func testContext() *provisioning.Context {
	ctx := provisioning.NewContext(context.Background(), &config.Config{}, &platform.MockClient{})
	ctx.State.InstanceIPs["db1"] = "203.0.113.10"
	return ctx
}

func testParams() Params {
	return Params{
		Instance:  "db1",
		DataDisks: 4,
		Volumes:   2,
		Database:  "orders",
		DataFiles: 4,
		LogFiles:  2,
	}
}

func TestBuildLayout_RoundRobinStriping(t *testing.T) {
	t.Parallel()
	layout, err := buildLayout(testParams())
	require.NoError(t, err)

	require.Len(t, layout.Volumes, 2)
	assert.Equal(t, []string{"/dev/sdb", "/dev/sdd"}, layout.Volumes[0].Disks)
	assert.Equal(t, []string{"/dev/sdc", "/dev/sde"}, layout.Volumes[1].Disks)
	assert.Equal(t, "/dev/md1", layout.Volumes[0].Device)
	assert.Equal(t, "/mnt/data2", layout.Volumes[1].MountPoint)
}

func TestBuildLayout_FilesSpreadAcrossMounts(t *testing.T) {
	t.Parallel()
	layout, err := buildLayout(testParams())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/mnt/data1/orders/data/orders_data_01.dat",
		"/mnt/data1/orders/data/orders_data_03.dat",
		"/mnt/data2/orders/data/orders_data_02.dat",
		"/mnt/data2/orders/data/orders_data_04.dat",
	}, layout.DataFiles)
	assert.Equal(t, []string{
		"/mnt/data1/orders/log/orders_log_02.trn",
		"/mnt/data2/orders/log/orders_log_01.trn",
	}, layout.LogFiles)
}

func TestBuildLayout_Validation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"no instance", func(p *Params) { p.Instance = "" }},
		{"no database", func(p *Params) { p.Database = "" }},
		{"zero volumes", func(p *Params) { p.Volumes = 0 }},
		{"fewer disks than volumes", func(p *Params) { p.DataDisks = 1 }},
		{"zero data files", func(p *Params) { p.DataFiles = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := testParams()
			tt.mutate(&p)
			_, err := buildLayout(p)
			require.Error(t, err)
			assert.True(t, provisioning.IsConfigurationError(err))
		})
	}
}

func TestSetup_PushesAndRunsScript(t *testing.T) {
	t.Parallel()
	runner := newFakeRunner()

	require.NoError(t, Setup(testContext(), runner, testParams()))

	assert.Equal(t, "203.0.113.10", runner.host)
	require.Contains(t, runner.pushed, remoteScriptPath)
	script := string(runner.pushed[remoteScriptPath])
	assert.Contains(t, script, "mdadm --create /dev/md1 --level=0 --raid-devices=2 /dev/sdb /dev/sdd")
	assert.Contains(t, script, "mount /dev/md2 /mnt/data2")
	assert.Contains(t, script, "/mnt/data1/orders/data/orders_data_01.dat")
	assert.NotContains(t, script, "{{")
	require.Len(t, runner.ran, 1)
	assert.Equal(t, "bash "+remoteScriptPath, runner.ran[0])
}

func TestSetup_VersionOneHasNoStriping(t *testing.T) {
	t.Parallel()
	runner := newFakeRunner()
	p := testParams()
	p.Version = "1"

	require.NoError(t, Setup(testContext(), runner, p))

	script := string(runner.pushed[remoteScriptPath])
	assert.NotContains(t, script, "mdadm")
	assert.Contains(t, script, "mkfs.ext4 -F /dev/sdb")
}

func TestSetup_UnknownVersion(t *testing.T) {
	t.Parallel()
	p := testParams()
	p.Version = "99"

	err := Setup(testContext(), newFakeRunner(), p)
	require.Error(t, err)
	assert.True(t, provisioning.IsConfigurationError(err))
}

func TestSetup_UnknownInstance(t *testing.T) {
	t.Parallel()
	p := testParams()
	p.Instance = "db9"

	err := Setup(testContext(), newFakeRunner(), p)
	require.Error(t, err)
	assert.True(t, provisioning.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "db9")
}

func TestSetup_ExplicitHostSkipsResolution(t *testing.T) {
	t.Parallel()
	runner := newFakeRunner()
	p := testParams()
	p.Instance = "db9"
	p.Host = "198.51.100.7"

	require.NoError(t, Setup(testContext(), runner, p))
	assert.Equal(t, "198.51.100.7", runner.host)
}

func TestSetup_RemoteFailure(t *testing.T) {
	t.Parallel()
	runner := newFakeRunner()
	runner.runErr = errors.New("exit status 1")

	err := Setup(testContext(), runner, testParams())
	require.Error(t, err)
	assert.True(t, provisioning.IsProvisioningFailure(err))
	assert.True(t, strings.Contains(err.Error(), "cannot open /dev/sdb"))
}

func TestSetup_PushFailure(t *testing.T) {
	t.Parallel()
	runner := newFakeRunner()
	runner.pushErr = errors.New("connection refused")

	err := Setup(testContext(), runner, testParams())
	require.Error(t, err)
	assert.True(t, provisioning.IsProvisioningFailure(err))
	assert.Empty(t, runner.ran)
}
