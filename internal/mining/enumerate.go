package mining

import "gonum.org/v1/gonum/stat/combin"

// EnumerateItemsets returns every combination of size distinct items from
// items, each in increasing input order. Results are lexicographic in the
// input ordering and number exactly C(len(items), size).
func EnumerateItemsets(items []string, size int) ([]Itemset, error) {
	if size < 1 {
		return nil, ErrInvalidSize
	}
	if size > len(items) {
		return nil, nil
	}
	out := make([]Itemset, 0, combin.Binomial(len(items), size))
	eachCombination(len(items), size, func(idx []int) {
		set := make(Itemset, len(idx))
		for i, j := range idx {
			set[i] = items[j]
		}
		out = append(out, set)
	})
	return out, nil
}

// CandidateCount returns the number of itemsets of size 1..n-1 over n items.
func CandidateCount(n int) int {
	total := 0
	for k := 1; k < n; k++ {
		total += combin.Binomial(n, k)
	}
	return total
}

// eachCombination calls fn with every k-subset of 0..n-1 in lexicographic
// order. idx is reused between calls.
func eachCombination(n, k int, fn func(idx []int)) {
	gen := combin.NewCombinationGenerator(n, k)
	idx := make([]int, k)
	for gen.Next() {
		fn(gen.Combination(idx))
	}
}
