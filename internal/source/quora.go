package source

import (
	"context"
	"log/slog"

	"github.com/mmcdole/gofeed"

	"github.com/vvnmails-cpu/answeree/internal/config"
)

const (
	defaultQuoraPerFeed = 5
	quoraSnippetMax     = 400
	quoraSourceLabel    = "Quora"
)

// QuoraFetcher pulls topic RSS feeds. Feeds carry no vote signal, so every
// post lands with zero votes.
type QuoraFetcher struct {
	feeds   []string
	perFeed int
	parser  *gofeed.Parser
	log     *slog.Logger
}

func NewQuoraFetcher(cfg config.QuoraConfig, log *slog.Logger) *QuoraFetcher {
	perFeed := cfg.PerFeed
	if perFeed <= 0 {
		perFeed = defaultQuoraPerFeed
	}
	return &QuoraFetcher{
		feeds:   cfg.Feeds,
		perFeed: perFeed,
		parser:  gofeed.NewParser(),
		log:     log,
	}
}

func (q *QuoraFetcher) Name() string { return "quora" }

func (q *QuoraFetcher) Fetch(ctx context.Context) ([]RawPost, error) {
	var out []RawPost
	for _, feedURL := range q.feeds {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}

		feed, err := q.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			q.log.Warn("feed failed", "feed", feedURL, "err", err)
			continue
		}

		items := feed.Items
		if len(items) > q.perFeed {
			items = items[:q.perFeed]
		}
		for _, item := range items {
			snippet := item.Description
			if snippet == "" {
				snippet = item.Content
			}
			out = append(out, RawPost{
				Source:  quoraSourceLabel,
				Title:   item.Title,
				Snippet: truncate(stripHTML(snippet), quoraSnippetMax),
				URL:     item.Link,
				Votes:   0,
			})
		}
	}
	return out, nil
}
