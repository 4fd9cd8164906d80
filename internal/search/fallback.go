package search

import "strings"

// fallbackColumns are the free-text columns plain input degrades to.
var fallbackColumns = []string{"title", "description"}

// Fallback produces a plan for input that did not parse as LQL: a
// case-insensitive substring match over the issue's title and description,
// in default recency order. No input ever surfaces a syntax error to the
// caller; at worst it degrades to substring search.
func Fallback(raw string) *Plan {
	return &Plan{
		Predicate: TextContains{
			Columns: fallbackColumns,
			Term:    strings.TrimSpace(raw),
		},
	}
}
