package source

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// Validate checks if the Descriptor is valid.
//
// This means that ID and Name are non-empty and
// Version is a valid semver.
func (d Descriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("ID must be non-empty")
	}

	if d.Name == "" {
		return fmt.Errorf("Name must be non-empty")
	}

	// according to the semver specification,
	// versions should not have "v" prefix. E.g. v0.1.0 isn't a valid semver,
	// however, for some bizarre reason, Go semver package requires this prefix.
	if !semver.IsValid("v" + d.Version) {
		return fmt.Errorf("invalid semver: %s", d.Version)
	}

	return nil
}
