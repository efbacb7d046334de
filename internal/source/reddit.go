package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vvnmails-cpu/answeree/internal/config"
)

const (
	redditBaseURL       = "https://www.reddit.com"
	redditUserAgent     = "AnswereeDigestBot/1.0"
	redditTimeout       = 15 * time.Second
	redditPause         = 300 * time.Millisecond
	maxResponseBytes    = 1 << 20 // 1MB
	defaultPerSubreddit = 4
)

// RedditFetcher pulls the day's top posts from a list of subreddits.
type RedditFetcher struct {
	subreddits []string
	perSub     int
	baseURL    string
	pause      time.Duration
	client     *http.Client
	log        *slog.Logger
}

func NewRedditFetcher(cfg config.RedditConfig, log *slog.Logger) *RedditFetcher {
	perSub := cfg.PerSubreddit
	if perSub <= 0 {
		perSub = defaultPerSubreddit
	}
	return &RedditFetcher{
		subreddits: cfg.Subreddits,
		perSub:     perSub,
		baseURL:    redditBaseURL,
		pause:      redditPause,
		client:     &http.Client{Timeout: redditTimeout},
		log:        log,
	}
}

func (r *RedditFetcher) Name() string { return "reddit" }

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title     string `json:"title"`
				Selftext  string `json:"selftext"`
				Permalink string `json:"permalink"`
				Score     int    `json:"score"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Fetch iterates the configured subreddits in order with a courtesy pause
// between calls. A failing subreddit is logged and skipped.
func (r *RedditFetcher) Fetch(ctx context.Context) ([]RawPost, error) {
	var out []RawPost
	for i, sub := range r.subreddits {
		if i > 0 {
			sleepCtx(ctx, r.pause)
		}
		if ctx.Err() != nil {
			return out, ctx.Err()
		}

		posts, err := r.fetchSubreddit(ctx, sub)
		if err != nil {
			r.log.Warn("subreddit failed", "subreddit", sub, "err", err)
			continue
		}
		out = append(out, posts...)
	}
	return out, nil
}

func (r *RedditFetcher) fetchSubreddit(ctx context.Context, sub string) ([]RawPost, error) {
	url := fmt.Sprintf("%s/r/%s/top.json?t=day&limit=%d", r.baseURL, sub, r.perSub)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", redditUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decoding listing: %w", err)
	}

	posts := make([]RawPost, 0, len(listing.Data.Children))
	for _, ch := range listing.Data.Children {
		d := ch.Data
		snippet := d.Selftext
		if snippet == "" {
			snippet = d.Title
		}
		posts = append(posts, RawPost{
			Source:  "Reddit /r/" + sub,
			Title:   d.Title,
			Snippet: snippet,
			URL:     "https://reddit.com" + d.Permalink,
			Votes:   clampVotes(d.Score),
		})
	}
	return posts, nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
