package global

import (
	"github.com/anvilbuild/anvil/pkg/option"
)

// Validate enforces the cross-option dependencies that cannot be expressed
// as single-option constraints. It runs after all options, bootstrap and
// full, are resolved.
//
// Rules are checked in order and evaluation stops at the first failure:
//
//  1. Remote execution requires a remote execution server address.
//  2. A remote execution server address requires a remote store server
//     address, even when remote execution itself is disabled.
func Validate(v *option.Values) error {
	if v.Bool("remote-execution") && v.Str("remote-execution-server") == "" {
		return &option.ValidationError{
			Flag:     "--remote-execution",
			Requires: "--remote-execution-server",
			Hint:     "Remote execution has no scheduler to submit to without it.",
		}
	}

	if v.Str("remote-execution-server") != "" && len(v.StrList("remote-store-server")) == 0 {
		return &option.ValidationError{
			Flag:     "--remote-execution-server",
			Requires: "--remote-store-server",
			Hint:     "Often these have the same value.",
		}
	}

	return nil
}
