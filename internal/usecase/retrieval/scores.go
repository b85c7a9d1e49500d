package retrieval

import "sort"

// minMaxNormalize maps scores onto [0,1]. A constant array carries no
// signal and normalizes to all zeros rather than dividing by zero.
func minMaxNormalize(scores []float64) []float64 {
	normed := make([]float64, len(scores))
	if len(scores) == 0 {
		return normed
	}

	lo, hi := scores[0], scores[0]
	for _, v := range scores[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == lo {
		return normed
	}

	span := hi - lo
	for i, v := range scores {
		normed[i] = (v - lo) / span
	}
	return normed
}

// topKIndices returns the indices of the k largest scores, best first.
// Ties keep the lower index first.
func topKIndices(scores []float64, k int) []int {
	if k <= 0 || len(scores) == 0 {
		return nil
	}

	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	if len(idx) > k {
		idx = idx[:k]
	}
	return idx
}

// unionPool merges two top-K index sets into one deduplicated candidate
// pool in ascending row order. The union guarantees a document ranked
// high by either signal survives even if the other signal buried it.
func unionPool(a, b []int) []int {
	seen := make(map[int]struct{}, len(a)+len(b))
	for _, i := range a {
		seen[i] = struct{}{}
	}
	for _, i := range b {
		seen[i] = struct{}{}
	}

	pool := make([]int, 0, len(seen))
	for i := range seen {
		pool = append(pool, i)
	}
	sort.Ints(pool)
	return pool
}
