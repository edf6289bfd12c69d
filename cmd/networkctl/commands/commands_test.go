package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/merrydance/logistics/route"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	out := new(bytes.Buffer)
	root := NewRootCommand()
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestGridInspectTSP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.json.gz")

	out, err := run(t, "grid", path, "--name", "testgrid", "--rows", "3", "--cols", "3", "--spacing", "100")
	require.NoError(t, err)
	require.Contains(t, out, "name:      testgrid")
	require.Contains(t, out, "vertices:  9")
	require.Contains(t, out, "edges:     12")

	out, err = run(t, "inspect", path)
	require.NoError(t, err)
	require.Contains(t, out, "car.fastest")
	require.Contains(t, out, "pedestrian")

	out, err = run(t, "tsp", path,
		"--loc", "51.05,3.71",
		"--loc", "51.0518,3.7114",
		"--loc", "51.05,3.7128",
		"--closed", "true",
		"--seed", "1",
		"--format", "full",
	)
	require.NoError(t, err)

	var r route.Route
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.NotEmpty(t, r.Shape)
	require.Len(t, r.Stops, 4)
	require.InDelta(t, r.Stops[0].Coordinate.Latitude, r.Stops[3].Coordinate.Latitude, 1e-9)
	require.InDelta(t, r.Stops[0].Coordinate.Longitude, r.Stops[3].Coordinate.Longitude, 1e-9)
}

func TestTSPArguments(t *testing.T) {
	_, err := run(t, "tsp", "missing.json", "--loc", "51.05,3.71")
	require.Error(t, err)

	_, err = run(t, "tsp", "missing.json", "--loc", "51.05,3.71", "--loc", "51.06,3.72", "--closed", "maybe")
	require.Error(t, err)

	_, err = run(t, "tsp", "missing.json", "--loc", "51.05,3.71", "--loc", "51.06,3.72", "--profile", "hovercraft")
	require.Error(t, err)

	_, err = run(t, "tsp", filepath.Join(t.TempDir(), "missing.json"), "--loc", "51.05,3.71", "--loc", "51.06,3.72")
	require.Error(t, err)
}

func TestParseCoordinate(t *testing.T) {
	c, err := parseCoordinate(" 51.05, 3.71")
	require.NoError(t, err)
	require.Equal(t, 51.05, c.Latitude)
	require.Equal(t, 3.71, c.Longitude)

	_, err = parseCoordinate("51.05")
	require.Error(t, err)
	_, err = parseCoordinate("91,3")
	require.Error(t, err)
}
