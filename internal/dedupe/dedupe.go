// Package dedupe collapses the merged fetcher output into a bounded list of
// distinct posts.
package dedupe

import "github.com/vvnmails-cpu/answeree/internal/source"

// Normalize walks posts in arrival order and keeps the first occurrence of
// each key, dropping posts with an empty key, until maxItems distinct posts
// are retained. Arrival order is fetcher order, so earlier sources win when
// the same post shows up twice. A maxItems of zero or less means no budget.
func Normalize(posts []source.RawPost, maxItems int) []source.RawPost {
	seen := make(map[string]struct{}, len(posts))
	out := make([]source.RawPost, 0, len(posts))

	for _, p := range posts {
		if maxItems > 0 && len(out) >= maxItems {
			break
		}
		key := p.Key()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
