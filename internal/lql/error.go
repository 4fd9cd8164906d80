package lql

import "fmt"

// ParseError is a structured error from the LQL parser with position
// information and an optional "did you mean" suggestion.
type ParseError struct {
	Message    string
	Col        int
	Pos        int
	Suggestion string
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("col %d: %s", e.Col, e.Message)
	if e.Suggestion != "" {
		msg += " (" + e.Suggestion + ")"
	}
	return msg
}

// Levenshtein computes the edit distance between two strings.
func Levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr := make([]int, lb+1)
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			ins := curr[j-1] + 1
			del := prev[j] + 1
			sub := prev[j-1] + cost
			curr[j] = min(ins, min(del, sub))
		}
		prev = curr
	}
	return prev[lb]
}

// SuggestFrom finds the closest match from candidates within a maximum
// edit distance. Returns "" if no good match is found.
func SuggestFrom(input string, candidates []string, maxDist int) string {
	best := ""
	bestDist := maxDist + 1
	for _, c := range candidates {
		d := Levenshtein(input, c)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	if bestDist <= maxDist {
		return fmt.Sprintf("did you mean '%s'?", best)
	}
	return ""
}
