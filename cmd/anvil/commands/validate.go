package commands

import (
	"github.com/anvilbuild/anvil/cmd/anvil/opts"
	"github.com/anvilbuild/anvil/pkg/global"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// NewValidateCmd creates a new validate command
func NewValidateCmd(build opts.Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Resolve and validate the global configuration",
		Long: `Validate resolves the global options (defaults plus the config file),
runs the cross-option validator, and prints the resulting execution
settings and option fingerprint.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			o, err := build(ctx)
			if err != nil {
				return errors.Errorf("resolving options: %w", err)
			}

			o.Logger.Header("validating configuration")

			if err := global.Validate(o.Values); err != nil {
				o.Logger.Error(err.Error())
				return errors.Errorf("validating options: %w", err)
			}

			exec := global.FromBootstrapValues(o.Values)

			o.Logger.Success("configuration is valid")
			o.Logger.Infof("remote execution enabled: %v", exec.RemoteExecution)
			o.Logger.Infof("local parallelism: %d, remote parallelism: %d",
				exec.ProcessExecutionLocalParallelism, exec.ProcessExecutionRemoteParallelism)
			o.Logger.Infof("speculation: %s (delay %.1fs)",
				exec.ProcessExecutionSpeculationStrategy, exec.ProcessExecutionSpeculationDelay)
			o.Logger.Infof("option fingerprint: %s", o.Values.Fingerprint())
			return nil
		},
	}
}
