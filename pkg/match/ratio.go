package match

// Ratio computes the classic edit-similarity ratio between two strings:
// 2*M / (len(a)+len(b)) where M is the length of the longest common
// subsequence over runes. The result is in [0,1]. Two empty strings are
// identical (1); one empty string matches nothing (0).
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 || lb == 0 {
		return 0.0
	}

	// Two-row LCS table; keep the shorter string as the row to bound
	// memory by the smaller input.
	if la < lb {
		ra, rb = rb, ra
		la, lb = lb, la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	matches := prev[lb]
	return 2.0 * float64(matches) / float64(la+lb)
}
