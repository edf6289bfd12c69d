package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/merrydance/logistics/geo"
	"github.com/merrydance/logistics/profile"
	"github.com/merrydance/logistics/registry"
	"github.com/merrydance/logistics/tour"
	"github.com/merrydance/logistics/util"
	"github.com/spf13/cobra"
)

func tspCmd() *cobra.Command {
	var (
		profileName string
		locations   []string
		closed      string
		format      string
		seed        int64
	)

	cmd := &cobra.Command{
		Use:   "tsp <network-file>",
		Short: "Compute a tour over the given locations and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coordinates, err := parseLocations(locations)
			if err != nil {
				return err
			}
			closedFlag, err := parseClosed(closed)
			if err != nil {
				return err
			}
			p, ok := profile.TryGet(profileName)
			if !ok {
				return fmt.Errorf("profile %q not found", profileName)
			}

			loader := registry.NetworkLoader(profileName)
			instance, err := loader(cmd.Context(), util.InstanceConfig{Name: "local", Path: args[0]})
			if err != nil {
				return err
			}
			if !instance.Supports(p) {
				return fmt.Errorf("profile %q is unsupported by this network", profileName)
			}

			var params tour.Parameters
			if cmd.Flags().Changed("seed") {
				params = tour.Parameters{"seed": seed}
			}
			res := instance.Calculate(cmd.Context(), p, coordinates, nil, closedFlag, params)
			if !res.IsError() {
				res = tour.Present(res.Value(), format)
			}
			if res.IsError() {
				var tourErr *tour.Error
				if errors.As(res.Err(), &tourErr) && tourErr.Err != nil {
					return fmt.Errorf("%s: %w", tourErr.Message, tourErr.Err)
				}
				return res.Err()
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(res.Value())
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "car.fastest", "profile name")
	cmd.Flags().StringArrayVarP(&locations, "loc", "l", nil, "location as lat,lon (repeatable, at least two)")
	cmd.Flags().StringVar(&closed, "closed", "", "true for a loop, false for an open tour with free end, empty for a fixed end")
	cmd.Flags().StringVar(&format, "format", "", "full for the assembled route, empty for the aggregated one")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed of the solver")
	return cmd
}

func parseLocations(values []string) ([]geo.Coordinate, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("at least two locations are required")
	}
	coordinates := make([]geo.Coordinate, 0, len(values))
	for _, value := range values {
		c, err := parseCoordinate(value)
		if err != nil {
			return nil, err
		}
		coordinates = append(coordinates, c)
	}
	return coordinates, nil
}

func parseCoordinate(value string) (geo.Coordinate, error) {
	lat, lon, ok := strings.Cut(value, ",")
	if !ok {
		return geo.Coordinate{}, fmt.Errorf("location %q is not lat,lon", value)
	}
	latitude, errLat := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	longitude, errLon := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	c := geo.NewCoordinate(latitude, longitude)
	if errLat != nil || errLon != nil || !c.Valid() {
		return geo.Coordinate{}, fmt.Errorf("location %q is invalid", value)
	}
	return c, nil
}

func parseClosed(value string) (*bool, error) {
	if value == "" {
		return nil, nil
	}
	closed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("closed: %w", err)
	}
	return &closed, nil
}
