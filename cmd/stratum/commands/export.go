package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"stratum/internal/app"
)

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export configured state files as VTU time steps plus a PVD manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := app.NewWire(cfgPath, verbose)
			if err != nil {
				return err
			}
			if err := w.RunExport(); err != nil {
				return err
			}
			fmt.Printf("exported %d steps to %s\n", len(w.Cfg.Export.StateFiles), w.Cfg.Export.Dir)
			return nil
		},
	}
}
