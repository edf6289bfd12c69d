package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/merrydance/logistics/geo"
	"github.com/merrydance/logistics/network"
	"github.com/merrydance/logistics/profile"
	"github.com/spf13/cobra"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <network-file>",
		Short: "Validate a network file and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := network.Load(args[0])
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), n)
		},
	}
}

func printSummary(w io.Writer, n *network.Network) error {
	total := 0.0
	for _, e := range n.Edges {
		total += e.Distance
	}

	var supported []string
	for _, name := range profile.Names() {
		if p, ok := profile.TryGet(name); ok && n.Supports(p.Vehicle.Name) {
			supported = append(supported, name)
		}
	}

	box := geo.BoxOf(n.Vertices...)
	_, err := fmt.Fprintf(w,
		"name:      %s\nvehicles:  %s\nprofiles:  %s\nvertices:  %d\nedges:     %d\nlength:    %.1f m\nbounds:    %.6f,%.6f %.6f,%.6f\n",
		n.Name,
		strings.Join(n.Vehicles, ", "),
		strings.Join(supported, ", "),
		len(n.Vertices),
		len(n.Edges),
		total,
		box.MinLat, box.MinLon, box.MaxLat, box.MaxLon,
	)
	return err
}
