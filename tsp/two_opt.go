package tsp

// maxTwoOptPasses bounds the improvement loop per individual.
const maxTwoOptPasses = 50

// twoOpt reverses gene segments while that lowers the tour weight. The
// weight change is computed exactly for asymmetric matrices using forward
// and backward prefix sums over the sequence.
func (in *instance) twoOpt(genes []int) {
	if len(genes) < 2 {
		return
	}
	for pass := 0; pass < maxTwoOptPasses; pass++ {
		if !in.twoOptPass(genes) {
			return
		}
	}
}

func (in *instance) twoOptPass(genes []int) bool {
	w := in.weights
	seq := in.sequence(genes)
	n := len(seq)

	// forward[x] cost of seq[0..x], backward[x] cost of the same prefix reversed
	forward := make([]float64, n)
	backward := make([]float64, n)
	for x := 1; x < n; x++ {
		forward[x] = forward[x-1] + w[seq[x-1]][seq[x]]
		backward[x] = backward[x-1] + w[seq[x]][seq[x-1]]
	}

	// genes occupy seq[1..len(genes)]
	for i := 1; i <= len(genes); i++ {
		for k := i + 1; k <= len(genes); k++ {
			before := w[seq[i-1]][seq[i]] + forward[k] - forward[i]
			after := w[seq[i-1]][seq[k]] + backward[k] - backward[i]
			if k+1 < n {
				before += w[seq[k]][seq[k+1]]
				after += w[seq[i]][seq[k+1]]
			}
			if after < before-1e-9 {
				reverseSegment(genes, i-1, k-1)
				return true
			}
		}
	}
	return false
}

func reverseSegment(a []int, i, k int) {
	for ; i < k; i, k = i+1, k-1 {
		a[i], a[k] = a[k], a[i]
	}
}
