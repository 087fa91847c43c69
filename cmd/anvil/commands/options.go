package commands

import (
	"fmt"

	"github.com/anvilbuild/anvil/cmd/anvil/opts"
	"github.com/anvilbuild/anvil/pkg/option"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// NewOptionsCmd creates a new options command
func NewOptionsCmd(build opts.Factory) *cobra.Command {
	var showAdvanced bool

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the registered global options",
		Long: `Options prints the global option schema: every registered option with its
type, default, and behavioral flags. Advanced options are hidden unless
--advanced is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			o, err := build(ctx)
			if err != nil {
				return errors.Errorf("resolving options: %w", err)
			}

			rows := pterm.TableData{{"OPTION", "TYPE", "DEFAULT", "FLAGS"}}
			for _, d := range o.Registry.Decls() {
				if d.Advanced && !showAdvanced {
					continue
				}
				rows = append(rows, []string{d.Flag(), d.Type.String(), renderDefault(d), renderFlags(d)})
			}

			if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
				return errors.Errorf("rendering options table: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showAdvanced, "advanced", false, "include advanced options")
	return cmd
}

func renderDefault(d option.Decl) string {
	if d.Default == nil {
		return ""
	}
	return fmt.Sprint(d.Default)
}

func renderFlags(d option.Decl) string {
	var out string
	if d.Daemon {
		out += "daemon "
	}
	if !d.Fingerprinted() {
		out += "no-fingerprint "
	}
	if d.Deprecated() {
		out += "deprecated(" + d.RemovalVersion + ") "
	}
	if d.Phase() == option.PhaseBootstrap {
		out += "bootstrap"
	}
	return out
}
