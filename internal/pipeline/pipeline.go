// Package pipeline wires the whole run together: fetch, dedupe, enrich,
// aggregate, persist.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vvnmails-cpu/answeree/internal/agg"
	"github.com/vvnmails-cpu/answeree/internal/dedupe"
	"github.com/vvnmails-cpu/answeree/internal/enrich"
	"github.com/vvnmails-cpu/answeree/internal/source"
	"github.com/vvnmails-cpu/answeree/internal/store"
)

type Pipeline struct {
	Fetchers   []source.Fetcher
	Classifier *enrich.Classifier
	Store      *store.Store
	MaxItems   int
	Workers    int
	Log        *slog.Logger
}

// Run builds and persists the digest for one date. Source and item failures
// degrade the digest but never abort it; the only fatal errors are failing to
// write the record or the index.
func (p *Pipeline) Run(ctx context.Context, date string) (store.Record, error) {
	posts := source.FetchAll(ctx, p.Fetchers, p.Log)
	p.Log.Info("fetched", "posts", len(posts))

	posts = dedupe.Normalize(posts, p.MaxItems)
	p.Log.Info("deduplicated", "posts", len(posts))

	items := p.enrichAll(ctx, posts)

	res := agg.Aggregate(items)
	rec := store.Record{Date: date, Trending: res.Trending, Items: items}

	if err := p.Store.Write(rec); err != nil {
		return store.Record{}, fmt.Errorf("writing digest record: %w", err)
	}
	if _, err := p.Store.RebuildIndex(); err != nil {
		return store.Record{}, fmt.Errorf("rebuilding index: %w", err)
	}

	p.Log.Info("digest written", "date", date, "items", len(items), "trending", res.Trending)
	return rec, nil
}

// enrichAll classifies every post through a bounded worker pool. Results land
// in index-addressed slots so the output keeps the input order regardless of
// which worker finishes first; downstream tie-breaks depend on that.
func (p *Pipeline) enrichAll(ctx context.Context, posts []source.RawPost) []store.EnrichedItem {
	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}

	items := make([]store.EnrichedItem, len(posts))

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for i, post := range posts {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, post source.RawPost) {
			defer wg.Done()
			defer func() { <-sem }()

			out := p.Classifier.Classify(ctx, post.Title, post.Snippet)
			if out.Origin == enrich.OriginFallback {
				p.Log.Debug("item classified locally", "title", post.Title, "reason", out.Reason)
			}
			items[i] = store.EnrichedItem{
				Source:    post.Source,
				OrigTitle: post.Title,
				Title:     out.Enrichment.Title,
				Summary:   out.Enrichment.Summary,
				Category:  out.Enrichment.Category,
				URL:       post.URL,
				Votes:     post.Votes,
			}
		}(i, post)
	}
	wg.Wait()

	return items
}
