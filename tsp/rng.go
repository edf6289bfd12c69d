package tsp

import "math/rand"

const defaultSeed int64 = 1

// rngFromSeed deterministic random source; seed 0 uses defaultSeed.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}
	return rand.New(rand.NewSource(seed))
}

func shuffle(a []int, rng *rand.Rand) {
	for i := len(a) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		a[i], a[j] = a[j], a[i]
	}
}
