// Package agg groups enriched items by category and ranks what's trending.
package agg

import (
	"sort"

	"github.com/vvnmails-cpu/answeree/internal/store"
)

// TrendingLimit caps how many categories a digest reports as trending.
const TrendingLimit = 3

// Result is the grouped view of one digest's items. Categories records
// first-seen order so iteration stays deterministic; ByCategory holds each
// category's items sorted by votes descending (stable, so equal-vote items
// keep their input order).
type Result struct {
	Categories []string
	ByCategory map[string][]store.EnrichedItem
	Trending   []string
}

// Aggregate is pure: same items in, same result out.
func Aggregate(items []store.EnrichedItem) Result {
	res := Result{
		Categories: []string{},
		ByCategory: make(map[string][]store.EnrichedItem),
		Trending:   []string{},
	}

	for _, it := range items {
		if _, ok := res.ByCategory[it.Category]; !ok {
			res.Categories = append(res.Categories, it.Category)
		}
		res.ByCategory[it.Category] = append(res.ByCategory[it.Category], it)
	}

	for _, cat := range res.Categories {
		group := res.ByCategory[cat]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Votes > group[j].Votes
		})
	}

	// Rank categories by item count; the stable sort keeps first-seen order
	// for ties.
	ranked := make([]string, len(res.Categories))
	copy(ranked, res.Categories)
	sort.SliceStable(ranked, func(i, j int) bool {
		return len(res.ByCategory[ranked[i]]) > len(res.ByCategory[ranked[j]])
	})
	if len(ranked) > TrendingLimit {
		ranked = ranked[:TrendingLimit]
	}
	res.Trending = ranked

	return res
}
