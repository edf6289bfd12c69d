// Package commands implements networkctl, the offline tool to generate,
// validate and query network files.
package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var verbose bool

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "networkctl",
		Short:         "Inspect network files and compute tours offline",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(inspectCmd(), tspCmd(), gridCmd())
	return root
}

func Execute() error {
	return NewRootCommand().Execute()
}
