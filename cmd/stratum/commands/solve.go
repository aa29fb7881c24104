package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"stratum/internal/app"
)

// solve --out state.json: run the Newton contact demo from the config's
// solve section and write the result as a state file.
func solveCmd() *cobra.Command {
	var (
		out  string
		step int
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Run the Newton contact demo and write a state file",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.NewWire(cfgPath, verbose)
			if err != nil {
				return err
			}
			if err := w.RunSolve(out, step); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output state file")
	cmd.Flags().IntVar(&step, "step", 1, "step number recorded in the state file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
