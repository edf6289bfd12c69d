package tsp

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// GASolver genetic tour search. Individuals are orderings of the locations
// that are not pinned by the problem.
type GASolver struct{}

type individual struct {
	genes  []int
	weight float64
}

// instance the fixed part of one search.
type instance struct {
	problem Problem
	weights [][]float64
	free    []int
	rng     *rand.Rand
}

// Solve searches for the cheapest tour. It fails with ErrNotConverged when no
// tour with finite weight exists or ctx ends first.
func (GASolver) Solve(ctx context.Context, problem Problem, weights [][]float64, settings Settings) (Tour, error) {
	if err := problem.Validate(); err != nil {
		return Tour{}, err
	}
	if err := settings.validate(); err != nil {
		return Tour{}, fmt.Errorf("%w: %v", ErrInvalidProblem, err)
	}
	w, err := sanitize(weights, problem.Size)
	if err != nil {
		return Tour{}, err
	}

	in := &instance{problem: problem, weights: w, rng: rngFromSeed(settings.Seed)}
	for i := 0; i < problem.Size; i++ {
		if i == problem.First || (problem.Last != nil && i == *problem.Last) {
			continue
		}
		in.free = append(in.free, i)
	}

	var best individual
	if len(in.free) <= 1 {
		best = in.evaluate(append([]int(nil), in.free...))
	} else {
		best, err = in.evolve(ctx, settings)
		if err != nil {
			return Tour{}, err
		}
	}
	if best.weight >= penalty {
		return Tour{}, fmt.Errorf("%w: no feasible tour", ErrNotConverged)
	}
	return Tour{
		Order:  in.order(best.genes),
		Weight: best.weight,
		Closed: problem.Closed(),
	}, nil
}

func (in *instance) evolve(ctx context.Context, s Settings) (individual, error) {
	population := in.initial(s.PopulationSize)

	elite := int(math.Ceil(float64(s.PopulationSize) * s.ElitismPercentage / 100))
	offspring := int(math.Round(float64(s.PopulationSize) * s.CrossOverPercentage / 100))
	offspring = max(1, min(offspring, s.PopulationSize-elite))

	best := population[0].weight
	stagnation := 0
	for generation := 0; generation < s.MaxGenerations; generation++ {
		if err := ctx.Err(); err != nil {
			return individual{}, fmt.Errorf("%w: %w", ErrNotConverged, err)
		}

		children := make([]individual, 0, offspring)
		for k := 0; k < offspring; k++ {
			a, b := in.tournament(population), in.tournament(population)
			genes := orderCrossover(a.genes, b.genes, in.rng)
			if in.rng.Float64()*100 < s.MutationPercentage {
				swapMutation(genes, in.rng)
			}
			in.twoOpt(genes)
			children = append(children, in.evaluate(genes))
		}
		copy(population[len(population)-offspring:], children)
		sortPopulation(population)

		if population[0].weight < best-1e-9 {
			best = population[0].weight
			stagnation = 0
			continue
		}
		stagnation++
		if stagnation >= s.StagnationCount {
			break
		}
	}
	return population[0], nil
}

// initial one greedy individual plus random ones, all polished.
func (in *instance) initial(size int) []individual {
	population := make([]individual, 0, size)
	greedy := in.nearestNeighbour()
	in.twoOpt(greedy)
	population = append(population, in.evaluate(greedy))
	for len(population) < size {
		genes := append([]int(nil), in.free...)
		shuffle(genes, in.rng)
		in.twoOpt(genes)
		population = append(population, in.evaluate(genes))
	}
	sortPopulation(population)
	return population
}

func (in *instance) nearestNeighbour() []int {
	remaining := append([]int(nil), in.free...)
	genes := make([]int, 0, len(remaining))
	current := in.problem.First
	for len(remaining) > 0 {
		next := 0
		for i, candidate := range remaining {
			if in.weights[current][candidate] < in.weights[current][remaining[next]] {
				next = i
			}
		}
		current = remaining[next]
		genes = append(genes, current)
		remaining = append(remaining[:next], remaining[next+1:]...)
	}
	return genes
}

func (in *instance) tournament(population []individual) individual {
	const size = 3
	best := population[in.rng.Intn(len(population))]
	for i := 1; i < size; i++ {
		c := population[in.rng.Intn(len(population))]
		if c.weight < best.weight {
			best = c
		}
	}
	return best
}

// order the full visiting order for genes.
func (in *instance) order(genes []int) []int {
	order := make([]int, 0, len(genes)+2)
	order = append(order, in.problem.First)
	order = append(order, genes...)
	if in.problem.Last != nil && !in.problem.Closed() {
		order = append(order, *in.problem.Last)
	}
	return order
}

// sequence the order including the return leg of a closed tour.
func (in *instance) sequence(genes []int) []int {
	seq := in.order(genes)
	if in.problem.Closed() {
		seq = append(seq, in.problem.First)
	}
	return seq
}

func (in *instance) evaluate(genes []int) individual {
	seq := in.sequence(genes)
	var weight float64
	for i := 1; i < len(seq); i++ {
		weight += in.weights[seq[i-1]][seq[i]]
	}
	return individual{genes: genes, weight: math.Min(weight, penalty)}
}

func sortPopulation(population []individual) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].weight < population[j].weight
	})
}

// orderCrossover copies a random slice of a and fills the rest in b's order.
func orderCrossover(a, b []int, rng *rand.Rand) []int {
	n := len(a)
	child := make([]int, n)
	i, j := rng.Intn(n), rng.Intn(n)
	if i > j {
		i, j = j, i
	}
	used := make(map[int]bool, n)
	for k := i; k <= j; k++ {
		child[k] = a[k]
		used[a[k]] = true
	}
	pos := (j + 1) % n
	for k := 0; k < n; k++ {
		gene := b[(j+1+k)%n]
		if used[gene] {
			continue
		}
		child[pos] = gene
		used[gene] = true
		pos = (pos + 1) % n
	}
	return child
}

func swapMutation(genes []int, rng *rand.Rand) {
	if len(genes) < 2 {
		return
	}
	i, j := rng.Intn(len(genes)), rng.Intn(len(genes))
	genes[i], genes[j] = genes[j], genes[i]
}
