package hangul

// Hit is the best approximate occurrence of a pattern inside a text.
// Start and End index the text, End exclusive.
type Hit struct {
	Similarity float64
	Distance   int
	Start      int
	End        int
}

// Search finds the substring of text most similar to pattern in a single
// pass (Sellers' semi-global edit distance). For every end position it keeps
// the cheapest alignment of the whole pattern against some substring ending
// there, then scores that substring as Similarity would. Ties keep the
// leftmost occurrence. An empty pattern never matches.
//
// Every window a fixed-length scan would accept is dominated by a hit here,
// and every hit is a real substring whose similarity to pattern is the
// reported value.
func Search(text, pattern []rune) (Hit, bool) {
	m := len(pattern)
	if m == 0 {
		return Hit{}, false
	}

	// dist[i] / start[i]: cheapest alignment of pattern[:i] ending at the
	// current text position and where that alignment began in text.
	dist := make([]int, m+1)
	start := make([]int, m+1)
	nextDist := make([]int, m+1)
	nextStart := make([]int, m+1)
	for i := range dist {
		dist[i] = i
	}

	best := Hit{Similarity: -1}
	consider := func(end int) {
		d := dist[m]
		s := end - start[m]
		maxLen := max(m, s)
		sim := float64(maxLen-d) / float64(maxLen)
		if sim > best.Similarity {
			best = Hit{Similarity: sim, Distance: d, Start: start[m], End: end}
		}
	}
	consider(0)

	for j := 1; j <= len(text); j++ {
		c := text[j-1]
		nextDist[0] = 0
		nextStart[0] = j
		for i := 1; i <= m; i++ {
			cost := 1
			if pattern[i-1] == c {
				cost = 0
			}
			d, s := dist[i-1]+cost, start[i-1] // substitution / match
			if v := nextDist[i-1] + 1; v < d { // pattern rune missing from text
				d, s = v, nextStart[i-1]
			}
			if v := dist[i] + 1; v < d { // extra rune in text
				d, s = v, start[i]
			}
			nextDist[i], nextStart[i] = d, s
		}
		dist, nextDist = nextDist, dist
		start, nextStart = nextStart, start
		consider(j)
	}

	if best.Similarity <= 0 {
		return best, false
	}
	return best, true
}
