package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"stratum/internal/app"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Summarize the mixed-dimensional grid of the run configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.NewWire(cfgPath, verbose)
			if err != nil {
				return err
			}

			mdg := w.Grid
			fmt.Printf("Mixed-dimensional grid: %d subdomains, max dimension %d, %d cells total\n",
				mdg.NumSubdomains(), mdg.MaxDim(), mdg.NumCells())
			for _, g := range mdg.Subdomains() {
				fmt.Printf("  %-10s dim %d  %6d cells  %6d points  (%s)\n",
					g.ID, g.Dim, g.NumCells(), g.NumPoints(), g.Name)
			}
			for _, ifc := range mdg.Interfaces() {
				fmt.Printf("  interface %s/%s: %d coupling cells\n", ifc.Higher, ifc.Lower, ifc.NumCells)
			}
			return nil
		},
	}
}
