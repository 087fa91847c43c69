package main

import (
	"context"
	"os"

	"github.com/anvilbuild/anvil/cmd/anvil/commands"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "anvil",
		Short: "anvil is a build-orchestration tool",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		SilenceUsage: true,
	}
	addRootFlags(root)

	root.AddCommand(commands.NewOptionsCmd(newRootOpts))
	root.AddCommand(commands.NewValidateCmd(newRootOpts))

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
