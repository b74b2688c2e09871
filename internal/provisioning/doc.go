// Package provisioning provides shared types for the administrative
// provisioning workflows.
//
// The provisioning domain is organized into focused subpackages:
//   - netsite/ — virtual network site reconciliation
//   - fleet/ — load-balanced fleet planning, extension and submission
//   - upload/ — parallel object-storage uploads
//   - disks/ — remote disk striping and database bootstrap
//
// This root package contains the error taxonomy, the Observer used for
// progress and warning output, and the Context threaded through every
// workflow.
package provisioning
