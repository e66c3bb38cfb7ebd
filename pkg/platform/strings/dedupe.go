// Package strings holds helpers for string lists supplied by operators.
package strings

import "strings"

// Unique trims each value and drops blanks and repeats, keeping the first
// occurrence order.
func Unique(values []string) []string {
	return unique(values, strings.TrimSpace)
}

// UniqueFold is Unique with case folding. The lowercased form is returned,
// so "ABC" and "abc" collapse into "abc".
func UniqueFold(values []string) []string {
	return unique(values, func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	})
}

func unique(values []string, normalize func(string) string) []string {
	if values == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		n := normalize(v)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
