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
	hnBaseURL     = "https://hacker-news.firebaseio.com/v0"
	hnTimeout     = 10 * time.Second
	hnPause       = 200 * time.Millisecond
	defaultHNTopN = 10
	hnSourceLabel = "Hacker News"
)

// HackerNewsFetcher pulls top stories via the official Firebase API: one call
// for the id list, then one call per story.
type HackerNewsFetcher struct {
	topN    int
	baseURL string
	pause   time.Duration
	client  *http.Client
	log     *slog.Logger
}

func NewHackerNewsFetcher(cfg config.HackerNewsConfig, log *slog.Logger) *HackerNewsFetcher {
	topN := cfg.TopN
	if topN <= 0 {
		topN = defaultHNTopN
	}
	return &HackerNewsFetcher{
		topN:    topN,
		baseURL: hnBaseURL,
		pause:   hnPause,
		client:  &http.Client{Timeout: hnTimeout},
		log:     log,
	}
}

func (h *HackerNewsFetcher) Name() string { return "hackernews" }

type hnItem struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
	Score int    `json:"score"`
}

func (h *HackerNewsFetcher) Fetch(ctx context.Context) ([]RawPost, error) {
	var ids []int
	if err := h.getJSON(ctx, h.baseURL+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("fetching top stories: %w", err)
	}
	if len(ids) > h.topN {
		ids = ids[:h.topN]
	}

	var out []RawPost
	for i, id := range ids {
		if i > 0 {
			sleepCtx(ctx, h.pause)
		}
		if ctx.Err() != nil {
			return out, ctx.Err()
		}

		var it hnItem
		if err := h.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", h.baseURL, id), &it); err != nil {
			h.log.Warn("hn item failed", "id", id, "err", err)
			continue
		}
		if it.Title == "" {
			continue
		}

		snippet := stripHTML(it.Text)
		if snippet == "" {
			snippet = it.Title
		}
		itemURL := it.URL
		if itemURL == "" {
			itemURL = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", id)
		}
		out = append(out, RawPost{
			Source:  hnSourceLabel,
			Title:   it.Title,
			Snippet: snippet,
			URL:     itemURL,
			Votes:   clampVotes(it.Score),
		})
	}
	return out, nil
}

func (h *HackerNewsFetcher) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(v)
}
