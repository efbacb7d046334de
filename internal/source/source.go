// Package source fetches raw posts from the configured public origins and
// normalizes them into a single shape for the rest of the pipeline.
package source

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// RawPost is one post as it comes off a source, before enrichment.
// Votes is the origin's popularity signal, never negative.
type RawPost struct {
	Source  string
	Title   string
	Snippet string
	URL     string
	Votes   int
}

// Key returns the deduplication identity: the trimmed URL, or the trimmed
// title when the post has no URL. An empty key means the post is unusable.
func (p RawPost) Key() string {
	if key := strings.TrimSpace(p.URL); key != "" {
		return key
	}
	return strings.TrimSpace(p.Title)
}

// Fetcher retrieves posts from one origin. Implementations recover from
// sub-source failures internally and return whatever partial results they
// collected; a non-nil error reports total failure of the origin.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]RawPost, error)
}

// FetchAll runs every fetcher and concatenates their results in fetcher
// order. That order is what gives earlier sources priority when the
// deduplicator sees the same post twice, so it is preserved even though the
// fetchers themselves run concurrently. Failures are logged, never returned:
// a dead source contributes nothing and the run continues.
func FetchAll(ctx context.Context, fetchers []Fetcher, log *slog.Logger) []RawPost {
	results := make([][]RawPost, len(fetchers))

	var wg sync.WaitGroup
	for i, f := range fetchers {
		wg.Add(1)
		go func(i int, f Fetcher) {
			defer wg.Done()
			posts, err := f.Fetch(ctx)
			if err != nil {
				log.Warn("source failed", "source", f.Name(), "err", err, "partial", len(posts))
			}
			results[i] = posts
		}(i, f)
	}
	wg.Wait()

	var out []RawPost
	for i, posts := range results {
		log.Info("source fetched", "source", fetchers[i].Name(), "posts", len(posts))
		out = append(out, posts...)
	}
	return out
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func clampVotes(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
