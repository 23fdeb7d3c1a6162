// Package search suggests the nearest known matrix coordinate for a
// mistyped one, so unknown-cell errors stay actionable.
package search

import (
	"strings"
	"unicode"
)

// suggestThreshold is the minimum score for a suggestion to be offered.
// Below it, a wrong guess is worse than no guess.
const suggestThreshold = 0.5

// Closest returns the best-scoring candidate for input, or "" when nothing
// scores above the threshold.
func Closest(input string, candidates []string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}
	queryTokens := tokenize(input)

	best := ""
	bestScore := 0.0
	for _, candidate := range candidates {
		score := score(input, queryTokens, candidate)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	if bestScore < suggestThreshold {
		return ""
	}
	return best
}

// tokenize splits a string into letter/digit runs
func tokenize(s string) []string {
	var tokens []string
	var current strings.Builder

	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// score rates how well a candidate matches the query: exact match wins,
// then containment either way, then token overlap with a prefix bonus.
func score(query string, queryTokens []string, candidate string) float64 {
	c := strings.ToLower(candidate)
	if c == query {
		return 1.0
	}
	if strings.Contains(c, query) || strings.Contains(query, c) {
		return 0.9
	}

	candidateTokens := tokenize(c)
	if len(queryTokens) == 0 || len(candidateTokens) == 0 {
		return 0
	}

	matched := 0
	for _, qt := range queryTokens {
		for _, ct := range candidateTokens {
			if qt == ct || strings.HasPrefix(ct, qt) || strings.HasPrefix(qt, ct) {
				matched++
				break
			}
		}
	}
	s := float64(matched) / float64(len(queryTokens))
	if strings.HasPrefix(c, string(query[0])) {
		s += 0.05
	}
	if s > 1.0 {
		s = 1.0
	}
	return s
}
