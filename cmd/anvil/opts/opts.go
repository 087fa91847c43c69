package opts

import (
	"context"

	"github.com/anvilbuild/anvil/pkg/buildenv"
	"github.com/anvilbuild/anvil/pkg/log"
	"github.com/anvilbuild/anvil/pkg/option"
)

// RootOpts contains shared state used by all commands
type RootOpts struct {
	Env      buildenv.Env
	Registry *option.Registry
	Values   *option.Values
	Logger   *log.Logger
}

// Factory builds RootOpts for a command invocation. Commands call it inside
// RunE so flag values are final before the schema resolves.
type Factory func(ctx context.Context) (*RootOpts, error)
