// SPDX-License-Identifier: MPL-2.0

package pattern

import (
	"strings"
)

// matchAll is the whole-pattern literal that selects every action.
const matchAll = "all"

// MatchSet returns the candidates selected by the pattern expression, in
// first-seen order without duplicates. Empty sub-patterns (from leading,
// trailing, or doubled commas) are ignored. No match yields an empty result,
// never an error.
func MatchSet(pattern string, candidates []string) []string {
	subs := splitPattern(pattern)
	if len(subs) == 0 {
		return nil
	}

	var result []string
	seen := make(map[string]struct{})

	for _, sub := range subs {
		for _, candidate := range candidates {
			if _, ok := seen[candidate]; ok {
				continue
			}
			if matches(sub, candidate) {
				seen[candidate] = struct{}{}
				result = append(result, candidate)
			}
		}
	}

	return result
}

// MatchActions is MatchSet for action names, with one addition: the exact
// pattern "all" (case-sensitive, after trimming) returns every candidate
// unfiltered in original order.
func MatchActions(pattern string, actions []string) []string {
	if strings.TrimSpace(pattern) == matchAll {
		return append([]string(nil), actions...)
	}
	return MatchSet(pattern, actions)
}

func splitPattern(pattern string) []string {
	var subs []string
	for _, part := range strings.Split(pattern, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			subs = append(subs, trimmed)
		}
	}
	return subs
}

// matches evaluates one sub-pattern against one candidate: exact equality,
// then full-string glob when the sub-pattern contains '*', otherwise
// case-insensitive substring containment.
func matches(sub, candidate string) bool {
	if sub == candidate {
		return true
	}

	if strings.Contains(sub, "*") {
		return matchGlob(sub, candidate)
	}

	return strings.Contains(strings.ToLower(candidate), strings.ToLower(sub))
}

// matchGlob matches candidate against pattern, anchored to the full string.
// '*' matches any run of characters and is the only special character; every
// other rune matches literally.
func matchGlob(pattern, candidate string) bool {
	parts := strings.Split(pattern, "*")

	if !strings.HasPrefix(candidate, parts[0]) {
		return false
	}
	candidate = candidate[len(parts[0]):]

	// The leftmost occurrence of each inner segment leaves the longest tail
	// for the segments after it, so a greedy scan never misses a match.
	for _, part := range parts[1 : len(parts)-1] {
		i := strings.Index(candidate, part)
		if i < 0 {
			return false
		}
		candidate = candidate[i+len(part):]
	}

	return strings.HasSuffix(candidate, parts[len(parts)-1])
}
