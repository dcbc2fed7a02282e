package game

import "strings"

// Suggest returns the answers in catalog whose lowercased text contains the
// lowercased input, in catalog order and without duplicates.
// An empty input yields no suggestions.
func Suggest(catalog []Question, input string) []string {
	if input == "" {
		return nil
	}
	needle := lower(input)
	seen := make(map[string]struct{})
	var out []string
	for _, q := range catalog {
		if !strings.Contains(lower(q.Answer), needle) {
			continue
		}
		if _, dup := seen[q.Answer]; dup {
			continue
		}
		seen[q.Answer] = struct{}{}
		out = append(out, q.Answer)
	}
	return out
}
