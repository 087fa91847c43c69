package main

import (
	"context"
	"os"

	"github.com/anvilbuild/anvil/cmd/anvil/opts"
	"github.com/anvilbuild/anvil/pkg/buildenv"
	"github.com/anvilbuild/anvil/pkg/configfile"
	"github.com/anvilbuild/anvil/pkg/global"
	"github.com/anvilbuild/anvil/pkg/log"
	"github.com/anvilbuild/anvil/pkg/option"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	debug      bool
)

// newRootOpts captures the environment, registers the global option schema,
// resolves values from the config file (if one exists), and applies the
// resolved --level onto the logging stack.
func newRootOpts(ctx context.Context) (*opts.RootOpts, error) {
	env, err := buildenv.Capture()
	if err != nil {
		return nil, errors.Errorf("capturing build environment: %w", err)
	}

	reg := global.NewRegistry()
	if err := global.RegisterOptions(reg, env); err != nil {
		return nil, errors.Errorf("registering global options: %w", err)
	}

	values := option.NewValues(reg)

	path := configFile
	if path == "" {
		path = env.DefaultConfigFile()
	}
	if _, statErr := os.Stat(path); statErr == nil {
		if err := configfile.Apply(ctx, values, path); err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
	}

	level, err := log.ParseLevel(values.Str("level"))
	if err != nil {
		return nil, errors.Errorf("resolving log level: %w", err)
	}
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	return &opts.RootOpts{
		Env:      env,
		Registry: reg,
		Values:   values,
		Logger:   log.New(os.Stderr, level),
	}, nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (defaults to anvil.yaml in the build root)")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog before options resolve. newRootOpts
// tightens the level once --level is known.
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
