// Package options holds checks shared by the functional-options entry points.
package options

import (
	"strings"

	"github.com/erraggy/xsd2oas/oaserrors"
)

// Source is one candidate input of an entry point, named by the option
// that sets it.
type Source struct {
	Option string
	Set    bool
}

// RequireOne ensures exactly one of sources is set. The error is a
// ConfigError naming every option involved.
func RequireOne(sources ...Source) error {
	var all, set []string
	for _, s := range sources {
		all = append(all, s.Option)
		if s.Set {
			set = append(set, s.Option)
		}
	}

	switch len(set) {
	case 1:
		return nil
	case 0:
		return &oaserrors.ConfigError{
			Option:  strings.Join(all, "|"),
			Message: "must specify an input source (use " + strings.Join(all, ", ") + ")",
		}
	default:
		return &oaserrors.ConfigError{
			Option:  strings.Join(set, "|"),
			Message: "must specify exactly one input source",
		}
	}
}
