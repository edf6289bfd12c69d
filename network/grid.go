package network

import (
	"fmt"
	"math"

	"github.com/merrydance/logistics/geo"
)

// NewGrid builds a rows x cols lattice of residential streets spaced the
// given meters apart, with origin as the south-west corner. Horizontal
// streets are named "Row <r>", vertical ones "Column <c>".
func NewGrid(name string, origin geo.Coordinate, rows, cols int, spacing float64) (*Network, error) {
	if rows < 1 || cols < 1 || rows*cols < 2 {
		return nil, fmt.Errorf("%w: grid needs at least two vertices", ErrInvalidNetwork)
	}
	latStep := spacing / 111000.0
	lonStep := spacing / (111000.0 * math.Cos(origin.Latitude*math.Pi/180))

	vertices := make([]geo.Coordinate, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			vertices = append(vertices, geo.NewCoordinate(
				origin.Latitude+float64(r)*latStep,
				origin.Longitude+float64(c)*lonStep,
			))
		}
	}

	var edges []Edge
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := r*cols + c
			if c+1 < cols {
				edges = append(edges, Edge{From: v, To: v + 1, Attributes: geo.NewAttributes(
					"highway", "residential", "name", fmt.Sprintf("Row %d", r))})
			}
			if r+1 < rows {
				edges = append(edges, Edge{From: v, To: v + cols, Attributes: geo.NewAttributes(
					"highway", "residential", "name", fmt.Sprintf("Column %d", c))})
			}
		}
	}
	return New(name, []string{"car", "bicycle", "pedestrian"}, vertices, edges)
}
