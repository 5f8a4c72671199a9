package hangul

// Distance is the Levenshtein edit distance between a and b with unit cost
// for insertion, deletion and substitution.
func Distance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// two rows instead of the full matrix
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// StringDistance is Distance over the runes of two strings, without folding.
func StringDistance(a, b string) int {
	return Distance([]rune(a), []rune(b))
}

// Similarity returns (maxLen - distance) / maxLen over the case-folded jamo
// decomposition of a and b. Two empty strings are identical (1.0).
func Similarity(a, b string) float64 {
	return RuneSimilarity(Fold(a), Fold(b))
}

// RuneSimilarity is Similarity over already folded input.
func RuneSimilarity(a, b []rune) float64 {
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}
	return float64(maxLen-Distance(a, b)) / float64(maxLen)
}
