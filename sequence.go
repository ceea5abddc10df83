package verdict

// diffSequence compares a group against an ordered sequence requirement
// using a longest-common-subsequence alignment. Aligned equal runs
// produce no differences. Within each misaligned block, requirement-only
// elements become Missing (requirement order) followed by data-only
// elements as Extra (data order).
//
// Tie-break: when several alignments share the maximum length, the
// backtrack prefers matches that consume the earliest data elements.
func diffSequence(data, requirement []any) []Difference {
	pairs := lcsPairs(data, requirement)

	var diffs []Difference
	di, ri := 0, 0
	emitBlock := func(dEnd, rEnd int) {
		for ; ri < rEnd; ri++ {
			diffs = append(diffs, Missing{Value: requirement[ri]})
		}
		for ; di < dEnd; di++ {
			diffs = append(diffs, Extra{Value: data[di]})
		}
	}
	for _, p := range pairs {
		emitBlock(p.di, p.ri)
		di, ri = p.di+1, p.ri+1
	}
	emitBlock(len(data), len(requirement))
	return diffs
}

// alignPair is one matched (data index, requirement index) position.
type alignPair struct {
	di, ri int
}

// lcsPairs computes a longest common subsequence between data and
// requirement, returning matched index pairs in ascending order.
// Equality uses the same structural rules as literal matching.
func lcsPairs(data, requirement []any) []alignPair {
	m, n := len(data), len(requirement)
	if m == 0 || n == 0 {
		return nil
	}

	// lcs[i][j] = LCS length of data[i:] vs requirement[j:].
	lcs := make([][]int, m+1)
	for i := range lcs {
		lcs[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if valuesEqual(data[i], requirement[j]) {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	var pairs []alignPair
	i, j := 0, 0
	for i < m && j < n {
		switch {
		case valuesEqual(data[i], requirement[j]) && lcs[i][j] == lcs[i+1][j+1]+1:
			pairs = append(pairs, alignPair{di: i, ri: j})
			i++
			j++
		case lcs[i][j+1] >= lcs[i+1][j]:
			// Skipping the requirement element keeps an equal-length
			// alignment and leaves data[i] free to match as early as
			// possible.
			j++
		default:
			i++
		}
	}
	return pairs
}
