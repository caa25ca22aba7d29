// Package options provides shared utilities for option validation across packages.
package options

import (
	"strings"

	"github.com/erraggy/wsdedupe/wserrors"
)

// Source names one way an input can be supplied and whether the caller set it.
type Source struct {
	Name string
	Set  bool
}

// RequireOne ensures exactly one input source is set.
// The returned error is a *wserrors.ConfigError naming the candidate sources.
func RequireOne(sources ...Source) error {
	var set, names []string
	for _, s := range sources {
		names = append(names, s.Name)
		if s.Set {
			set = append(set, s.Name)
		}
	}

	switch len(set) {
	case 1:
		return nil
	case 0:
		return &wserrors.ConfigError{
			Option:  "input",
			Message: "must specify one of " + strings.Join(names, ", "),
		}
	default:
		return &wserrors.ConfigError{
			Option:  "input",
			Value:   strings.Join(set, ", "),
			Message: "must specify only one of " + strings.Join(names, ", "),
		}
	}
}
