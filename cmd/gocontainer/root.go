package main

import (
	"fmt"

	"github.com/containerd/log"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel string
}

func newRootCommand() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "gocontainer COMMAND",
		Short:         "Run a command in an isolated container",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,

		// flags of an undefined command are not ours to reject
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return log.SetLevel(opts.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "undefined command: %s\n", args[0])
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Set the logging level (trace, debug, info, warn, error, fatal, panic)")
	cmd.AddCommand(newRunCommand())
	return cmd
}
