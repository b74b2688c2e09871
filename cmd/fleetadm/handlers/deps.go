// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/fleetadm/fleetadm/internal/config"
	platform "github.com/fleetadm/fleetadm/internal/platform/hcloud"
	"github.com/fleetadm/fleetadm/internal/platform/s3"
	"github.com/fleetadm/fleetadm/internal/platform/ssh"
	"github.com/fleetadm/fleetadm/internal/provisioning"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// defaultConfig builds config from the environment alone.
	defaultConfig = config.Default

	// newDirectory creates the cloud resource directory.
	newDirectory = func(cfg *config.Config) platform.Directory {
		return platform.NewRealClient(cfg.HCloudToken, cfg.NetworkZone)
	}

	// newBlobStore creates the object storage client.
	newBlobStore = func(cfg *config.Config) (s3.BlobStore, error) {
		if cfg.Storage.Endpoint == "" {
			return nil, fmt.Errorf("storage endpoint is not configured")
		}
		return s3.NewClient(cfg.Storage.Endpoint, cfg.Storage.Region, cfg.Storage.AccessKey, cfg.Storage.SecretKey)
	}

	// newRunner creates the SSH runner for instance access.
	newRunner = func(cfg *config.Config) (ssh.Runner, error) {
		if cfg.SSH.KeyPath == "" {
			return nil, fmt.Errorf("ssh key_path is not configured")
		}
		key, err := os.ReadFile(cfg.SSH.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read ssh key: %w", err)
		}
		return ssh.NewKeyRunner(cfg.SSH.User, key), nil
	}
)

// newWorkflowContext loads configuration and wires up the workflow context
// every handler runs against.
func newWorkflowContext(ctx context.Context, configPath string) (*provisioning.Context, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return provisioning.NewContext(ctx, cfg, newDirectory(cfg)), nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return defaultConfig()
	}
	return loadConfigFile(path)
}
