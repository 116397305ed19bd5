// Package strings provides string list helpers for configuration parsing.
package strings

import (
	"strings"
)

// SplitList splits a comma separated list, trimming each element and dropping
// empties and repeats. Order is preserved.
//
//	SplitList(" a, b,,a ")
//	// Returns: []string{"a", "b"}
func SplitList(s string) []string {
	return splitList(s, strings.TrimSpace)
}

// SplitListLower is like SplitList but lowercases each element, so repeats
// are detected case-insensitively.
//
//	SplitListLower("Backup, BACKUP, eu")
//	// Returns: []string{"backup", "eu"}
func SplitListLower(s string) []string {
	return splitList(s, func(v string) string {
		return strings.ToLower(strings.TrimSpace(v))
	})
}

func splitList(s string, norm func(string) string) []string {
	parts := strings.Split(s, ",")
	seen := make(map[string]struct{}, len(parts))
	var result []string
	for _, p := range parts {
		p = norm(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		result = append(result, p)
	}
	return result
}
