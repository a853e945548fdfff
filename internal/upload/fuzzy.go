package upload

import (
	"strings"

	"golang.org/x/text/cases"
)

const (
	// DefaultThreshold is the highest score still accepted as a match.
	DefaultThreshold = 0.3
	// locationDistance scales how much a late match start costs. A perfect
	// alignment starting this many runes into the candidate scores 1.0.
	locationDistance = 100
)

// Matcher snaps free-text values onto the closest entry of a reference list.
// Scores run from 0 (perfect) upward; candidates scoring above the threshold
// are ignored.
type Matcher struct {
	threshold float64
	entries   []corpusEntry
}

type corpusEntry struct {
	value  string
	folded []rune
}

func NewMatcher(corpus []string, threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	fold := cases.Fold()
	entries := make([]corpusEntry, 0, len(corpus))
	for _, value := range corpus {
		if strings.TrimSpace(value) == "" {
			continue
		}
		entries = append(entries, corpusEntry{value: value, folded: []rune(fold.String(value))})
	}
	return &Matcher{threshold: threshold, entries: entries}
}

// BestMatch returns the canonical spelling of query, or query itself when the
// corpus is empty or nothing is close enough. It never returns "".
func (m *Matcher) BestMatch(query string) string {
	if query == "" || len(m.entries) == 0 {
		return query
	}
	pattern := []rune(cases.Fold().String(query))

	best := -1
	var (
		bestScore   float64
		bestExact   bool
		bestLenDiff int
	)
	for i, entry := range m.entries {
		exact := string(entry.folded) == string(pattern)
		score := 0.0
		if !exact {
			score = matchScore(pattern, entry.folded)
		}
		if score > m.threshold {
			continue
		}
		lenDiff := absInt(len(entry.folded) - len(pattern))
		if best == -1 || preferCandidate(exact, score, lenDiff, bestExact, bestScore, bestLenDiff) {
			best, bestScore, bestExact, bestLenDiff = i, score, exact, lenDiff
		}
	}
	if best == -1 {
		return query
	}
	return m.entries[best].value
}

// BestMatch is a one-shot helper using DefaultThreshold.
func BestMatch(corpus []string, query string) string {
	return NewMatcher(corpus, DefaultThreshold).BestMatch(query)
}

// IsCorrected reports whether matching changed a value beyond letter case.
func IsCorrected(original, matched string) bool {
	return original != "" && matched != "" && !strings.EqualFold(original, matched)
}

func preferCandidate(exact bool, score float64, lenDiff int, bestExact bool, bestScore float64, bestLenDiff int) bool {
	if exact != bestExact {
		return exact
	}
	if score != bestScore {
		return score < bestScore
	}
	// Equal scores keep corpus order unless the candidate is closer in length.
	return lenDiff < bestLenDiff
}

// matchScore aligns pattern against every substring of text and returns
// errors/len(pattern) plus a penalty for how far into text the best alignment
// starts.
func matchScore(pattern, text []rune) float64 {
	m := len(pattern)
	if m == 0 {
		return 0
	}
	n := len(text)
	if n == 0 {
		return 1
	}

	prevCost := make([]int, n+1)
	prevStart := make([]int, n+1)
	curCost := make([]int, n+1)
	curStart := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prevStart[j] = j
	}

	for i := 1; i <= m; i++ {
		curCost[0] = i
		curStart[0] = 0
		for j := 1; j <= n; j++ {
			cost := prevCost[j-1]
			if pattern[i-1] != text[j-1] {
				cost++
			}
			start := prevStart[j-1]

			if skip := prevCost[j] + 1; skip < cost || (skip == cost && prevStart[j] < start) {
				cost, start = skip, prevStart[j]
			}
			if extra := curCost[j-1] + 1; extra < cost || (extra == cost && curStart[j-1] < start) {
				cost, start = extra, curStart[j-1]
			}
			curCost[j] = cost
			curStart[j] = start
		}
		prevCost, curCost = curCost, prevCost
		prevStart, curStart = curStart, prevStart
	}

	best := -1.0
	for j := 1; j <= n; j++ {
		score := float64(prevCost[j])/float64(m) + float64(prevStart[j])/locationDistance
		if best < 0 || score < best {
			best = score
		}
	}
	return best
}

func absInt(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
