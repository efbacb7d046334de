package source

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vvnmails-cpu/answeree/internal/config"
)

const (
	soBaseURL         = "https://api.stackexchange.com/2.3"
	soTimeout         = 10 * time.Second
	defaultSOPageSize = 8
	soSnippetMax      = 400
	soSourceLabel     = "Stack Overflow"
)

// StackOverflowFetcher pulls top-voted questions from the StackExchange API.
// A single call covers the whole page, so no inter-request pause is needed.
type StackOverflowFetcher struct {
	pageSize int
	baseURL  string
	client   *http.Client
	log      *slog.Logger
}

func NewStackOverflowFetcher(cfg config.StackOverflowConfig, log *slog.Logger) *StackOverflowFetcher {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultSOPageSize
	}
	return &StackOverflowFetcher{
		pageSize: pageSize,
		baseURL:  soBaseURL,
		client:   &http.Client{Timeout: soTimeout},
		log:      log,
	}
}

func (s *StackOverflowFetcher) Name() string { return "stackoverflow" }

type soResponse struct {
	Items []struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		Link  string `json:"link"`
		Score int    `json:"score"`
	} `json:"items"`
}

func (s *StackOverflowFetcher) Fetch(ctx context.Context) ([]RawPost, error) {
	url := fmt.Sprintf("%s/questions?order=desc&sort=votes&site=stackoverflow&pagesize=%d&filter=withbody", s.baseURL, s.pageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var data soResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding questions: %w", err)
	}

	out := make([]RawPost, 0, len(data.Items))
	for _, q := range data.Items {
		// Titles come back HTML-entity-escaped from this API.
		out = append(out, RawPost{
			Source:  soSourceLabel,
			Title:   html.UnescapeString(q.Title),
			Snippet: truncate(stripHTML(q.Body), soSnippetMax),
			URL:     q.Link,
			Votes:   clampVotes(q.Score),
		})
	}
	return out, nil
}
