package handlers

import (
	"context"
	"testing"

	"github.com/fleetadm/fleetadm/internal/config"
	platform "github.com/fleetadm/fleetadm/internal/platform/hcloud"
	"github.com/fleetadm/fleetadm/internal/platform/s3"
	"github.com/fleetadm/fleetadm/internal/platform/ssh"
)

// withTestDeps swaps the factory variables for the duration of one test.
func withTestDeps(t *testing.T, dir platform.Directory) {
	t.Helper()

	origConfig := defaultConfig
	origDirectory := newDirectory
	t.Cleanup(func() {
		defaultConfig = origConfig
		newDirectory = origDirectory
	})

	defaultConfig = func() (*config.Config, error) {
		return &config.Config{
			HCloudToken: "test-token",
			Location:    "nbg1",
			NetworkZone: "eu-central",
		}, nil
	}
	newDirectory = func(*config.Config) platform.Directory { return dir }
}

func withTestStore(t *testing.T, store s3.BlobStore) {
	t.Helper()
	orig := newBlobStore
	t.Cleanup(func() { newBlobStore = orig })
	newBlobStore = func(*config.Config) (s3.BlobStore, error) { return store, nil }
}

func withTestRunner(t *testing.T, runner ssh.Runner) {
	t.Helper()
	orig := newRunner
	t.Cleanup(func() { newRunner = orig })
	newRunner = func(*config.Config) (ssh.Runner, error) { return runner, nil }
}

func testCtx() context.Context {
	return context.Background()
}
