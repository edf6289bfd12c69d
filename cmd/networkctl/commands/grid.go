package commands

import (
	"fmt"

	"github.com/merrydance/logistics/network"
	"github.com/spf13/cobra"
)

func gridCmd() *cobra.Command {
	var (
		name    string
		origin  string
		rows    int
		cols    int
		spacing float64
	)

	cmd := &cobra.Command{
		Use:   "grid <output-file>",
		Short: "Generate a synthetic street grid network (.gz output is compressed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			corner, err := parseCoordinate(origin)
			if err != nil {
				return fmt.Errorf("origin: %w", err)
			}
			n, err := network.NewGrid(name, corner, rows, cols, spacing)
			if err != nil {
				return err
			}
			if err := network.Save(args[0], n); err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), n)
		},
	}

	cmd.Flags().StringVar(&name, "name", "grid", "network name")
	cmd.Flags().StringVar(&origin, "origin", "51.05,3.71", "south-west corner as lat,lon")
	cmd.Flags().IntVar(&rows, "rows", 10, "number of east-west streets")
	cmd.Flags().IntVar(&cols, "cols", 10, "number of north-south streets")
	cmd.Flags().Float64Var(&spacing, "spacing", 100, "block size in meters")
	return cmd
}
