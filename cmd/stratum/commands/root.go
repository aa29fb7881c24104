package commands

import (
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	verbose bool
)

func Execute() error {
	root := &cobra.Command{
		Use:           "stratum",
		Short:         "Mixed-dimensional simulation state exporter",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "run.yaml", "run configuration file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(infoCmd(), solveCmd(), exportCmd(), collectCmd())
	return root.Execute()
}
