package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Naming helpers for provisioned resources. Fleet instances and their
// derived resources follow fixed conventions so that a later run can
// recover a fleet's layout purely from resource names.

// Instance builds a fleet instance computer name from the base prefix and
// a positive index, e.g. ("web", 3) -> "web3". The suffix is what
// extension planning parses back out, so there is no separator.
func Instance(base string, index int) string {
	return fmt.Sprintf("%s%d", base, index)
}

// LoadBalancerSet derives the shared load-balanced endpoint set name from
// the endpoint name.
func LoadBalancerSet(endpoint string) string {
	return endpoint + "-lbset"
}

// AvailabilitySet derives the availability set name from the endpoint name.
func AvailabilitySet(endpoint string) string {
	return endpoint + "-avset"
}

// BlobKey maps a local path relative to the upload root onto the remote
// object namespace, normalizing the platform path separator to "/".
func BlobKey(relPath string) string {
	return strings.TrimPrefix(filepath.ToSlash(relPath), "./")
}
