// Package config holds the fleetadm configuration: cloud credentials,
// placement defaults and the object storage endpoint.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds the application configuration. Secrets are taken from the
// environment and never written to the config file.
type Config struct {
	// HCloudToken authenticates against the Hetzner Cloud API. Populated
	// from HCLOUD_TOKEN when empty.
	HCloudToken string `mapstructure:"-" yaml:"-"`

	// Location is the default placement location, e.g. "nbg1".
	Location string `mapstructure:"location" yaml:"location"`
	// NetworkZone is the network zone sites are created in.
	NetworkZone string `mapstructure:"network_zone" yaml:"network_zone"`

	Fleet   FleetConfig   `mapstructure:"fleet" yaml:"fleet"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	SSH     SSHConfig     `mapstructure:"ssh" yaml:"ssh"`
}

// FleetConfig carries the defaults applied to new fleets. Flags override
// these per invocation; deployed fleets ignore both.
type FleetConfig struct {
	Size  string `mapstructure:"size" yaml:"size"`
	Image string `mapstructure:"image" yaml:"image"`
}

// StorageConfig points at the S3-compatible object storage. Credentials
// come from FLEETADM_S3_ACCESS_KEY / FLEETADM_S3_SECRET_KEY.
type StorageConfig struct {
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	Region    string `mapstructure:"region" yaml:"region"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	AccessKey string `mapstructure:"-" yaml:"-"`
	SecretKey string `mapstructure:"-" yaml:"-"`
}

// SSHConfig configures remote execution on fleet instances.
type SSHConfig struct {
	User string `mapstructure:"user" yaml:"user"`
	// KeyPath is the PEM private key used for instance logins.
	KeyPath string `mapstructure:"key_path" yaml:"key_path"`
}

// Validate checks the invariants that every command relies on. Commands
// perform their own mandatory-flag validation on top.
func (c *Config) Validate() error {
	if c.HCloudToken == "" {
		return fmt.Errorf("hcloud token is required (set HCLOUD_TOKEN)")
	}
	if c.Location == "" {
		return fmt.Errorf("location is required")
	}
	if c.Storage.Endpoint != "" && !strings.HasPrefix(c.Storage.Endpoint, "https://") {
		return fmt.Errorf("storage endpoint must be an https URL, got %q", c.Storage.Endpoint)
	}
	return nil
}

// applyEnv pulls secrets from the environment.
func (c *Config) applyEnv() {
	if c.HCloudToken == "" {
		c.HCloudToken = os.Getenv("HCLOUD_TOKEN")
	}
	if c.Storage.AccessKey == "" {
		c.Storage.AccessKey = os.Getenv("FLEETADM_S3_ACCESS_KEY")
	}
	if c.Storage.SecretKey == "" {
		c.Storage.SecretKey = os.Getenv("FLEETADM_S3_SECRET_KEY")
	}
}
