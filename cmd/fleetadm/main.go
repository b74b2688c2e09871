// Package main is the entry point for the fleetadm CLI.
//
// fleetadm provisions Hetzner Cloud resources for load-balanced server
// fleets: affinity groups, virtual network sites, numbered instances behind
// a shared endpoint, object storage uploads and remote disk setup.
//
// For detailed usage information, run:
//
//	fleetadm --help
package main

import (
	"fmt"
	"os"

	"github.com/fleetadm/fleetadm/cmd/fleetadm/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
