// Package options provides shared utilities for option validation across
// rngcore's functional-options constructors (rngschema.Load and friends).
package options

import (
	"fmt"
	"strings"
)

// InputSource names one functional option that may supply input (e.g.
// "WithFilePath") along with whether the caller actually set it. Naming
// each source lets ValidateSingleInputSource report which options
// collided instead of just a bare count.
type InputSource struct {
	Name    string
	Present bool
}

// ValidateSingleInputSource ensures exactly one of sources was supplied.
// noSourceMsg is returned verbatim when none were set; multiSourceMsg is
// used as a prefix when more than one was, followed by the names of the
// colliding options so the caller can see exactly what to remove.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...InputSource) error {
	var present []string
	for _, s := range sources {
		if s.Present {
			present = append(present, s.Name)
		}
	}

	switch len(present) {
	case 0:
		return fmt.Errorf("%s", noSourceMsg)
	case 1:
		return nil
	default:
		return fmt.Errorf("%s: %s", multiSourceMsg, strings.Join(present, ", "))
	}
}
