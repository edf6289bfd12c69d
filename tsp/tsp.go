// Package tsp solves tour construction problems over a weight matrix with a
// genetic search polished by 2-opt.
package tsp

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNotConverged   = errors.New("solver did not converge")
	ErrInvalidProblem = errors.New("invalid problem")
)

// Problem a tour over Size locations starting at First. Last pins the final
// location: nil leaves the end free, Last == First closes the tour.
type Problem struct {
	Size  int
	First int
	Last  *int
}

// Closed reports whether the tour returns to its first location.
func (p Problem) Closed() bool {
	return p.Last != nil && *p.Last == p.First
}

// Validate checks the indices against the size.
func (p Problem) Validate() error {
	if p.Size < 1 {
		return fmt.Errorf("%w: size %d", ErrInvalidProblem, p.Size)
	}
	if p.First < 0 || p.First >= p.Size {
		return fmt.Errorf("%w: first %d out of range", ErrInvalidProblem, p.First)
	}
	if p.Last != nil && (*p.Last < 0 || *p.Last >= p.Size) {
		return fmt.Errorf("%w: last %d out of range", ErrInvalidProblem, *p.Last)
	}
	return nil
}

// Tour the visiting order. For a closed tour the return to the first
// location is implied and not repeated in Order.
type Tour struct {
	Order  []int
	Weight float64
	Closed bool
}

// Settings genetic search parameters; percentages are 0..100.
type Settings struct {
	PopulationSize      int
	CrossOverPercentage float64
	ElitismPercentage   float64
	MutationPercentage  float64
	MaxGenerations      int
	StagnationCount     int
	// Seed for the random source; 0 selects a fixed default.
	Seed int64
}

// DefaultSettings the parameters used for every tour request.
func DefaultSettings() Settings {
	return Settings{
		PopulationSize:      300,
		CrossOverPercentage: 10,
		ElitismPercentage:   2,
		MutationPercentage:  0,
		MaxGenerations:      100000,
		StagnationCount:     100,
	}
}

func (s Settings) validate() error {
	switch {
	case s.PopulationSize < 2:
		return fmt.Errorf("population size must be at least 2")
	case s.CrossOverPercentage < 0 || s.CrossOverPercentage > 100:
		return fmt.Errorf("crossover percentage out of range")
	case s.ElitismPercentage < 0 || s.ElitismPercentage > 100:
		return fmt.Errorf("elitism percentage out of range")
	case s.MutationPercentage < 0 || s.MutationPercentage > 100:
		return fmt.Errorf("mutation percentage out of range")
	case s.MaxGenerations < 1:
		return fmt.Errorf("max generations must be positive")
	case s.StagnationCount < 1:
		return fmt.Errorf("stagnation count must be positive")
	}
	return nil
}

// penalty replaces unreachable weights so tour costs stay comparable.
const penalty = 1e15

func sanitize(weights [][]float64, size int) ([][]float64, error) {
	if len(weights) != size {
		return nil, fmt.Errorf("%w: matrix has %d rows, want %d", ErrInvalidProblem, len(weights), size)
	}
	out := make([][]float64, size)
	for i, row := range weights {
		if len(row) != size {
			return nil, fmt.Errorf("%w: matrix row %d has %d columns, want %d", ErrInvalidProblem, i, len(row), size)
		}
		out[i] = make([]float64, size)
		for j, w := range row {
			if math.IsInf(w, 0) || math.IsNaN(w) || w < 0 {
				w = penalty
			}
			out[i][j] = w
		}
	}
	return out, nil
}
