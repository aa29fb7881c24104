package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"stratum/internal/app"
)

// collect --dir out --name sim: rebuild the PVD manifest from the run
// registry written during export, optionally with explicit times.
func collectCmd() *cobra.Command {
	var (
		dir   string
		name  string
		steps []int
		times []string
	)
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Rebuild the PVD manifest from an existing run registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := app.NewLogger(verbose)
			if err != nil {
				return err
			}
			tm, err := parseTimes(times)
			if err != nil {
				return err
			}
			var sel []int
			if cmd.Flags().Changed("steps") {
				sel = steps
			}
			return app.Collect(log, dir, name, sel, tm)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "output directory of the export run")
	cmd.Flags().StringVar(&name, "name", "", "run name (the output file stem)")
	cmd.Flags().IntSliceVar(&steps, "steps", nil, "restrict the manifest to these steps")
	cmd.Flags().StringSliceVar(&times, "times", nil, "explicit times as step=value pairs")
	_ = cmd.MarkFlagRequired("dir")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// parseTimes turns step=value pairs into a map.
func parseTimes(pairs []string) (map[int]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[int]float64, len(pairs))
	for _, p := range pairs {
		step, val, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("time %q is not of the form step=value", p)
		}
		n, err := strconv.Atoi(step)
		if err != nil {
			return nil, fmt.Errorf("time %q: %w", p, err)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("time %q: %w", p, err)
		}
		out[n] = v
	}
	return out, nil
}
