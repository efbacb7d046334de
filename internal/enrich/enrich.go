// Package enrich turns a raw post into a rewritten title, a short summary and
// exactly one category from the configured vocabulary. The remote backend is
// optional: every failure on that path degrades to a deterministic local
// heuristic instead of failing the item.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	maxRemoteSummary   = 400
	maxFallbackSummary = 240
	maxBackendTries    = 3
)

// Enrichment is the classifier's output for one post.
type Enrichment struct {
	Title    string
	Summary  string
	Category string
}

// Origin says which path produced an Enrichment.
type Origin int

const (
	OriginRemote Origin = iota
	OriginFallback
)

func (o Origin) String() string {
	if o == OriginRemote {
		return "remote"
	}
	return "fallback"
}

// Outcome carries the enrichment plus which path produced it. Reason is set
// only on the fallback path and names what pushed the item off the remote one.
type Outcome struct {
	Enrichment Enrichment
	Origin     Origin
	Reason     string
}

// Classifier applies the remote backend when one is configured, and the local
// heuristic otherwise. A nil backend is valid and routes everything local.
type Classifier struct {
	backend Backend
	vocab   []string
	log     *slog.Logger
}

func NewClassifier(backend Backend, vocab []string, log *slog.Logger) *Classifier {
	return &Classifier{backend: backend, vocab: vocab, log: log}
}

const classifyPrompt = `You are a helpful summarizer + tagger. Given a post title and a short snippet or text, do three things:
1) Produce a single short catchy rewritten title (keep factual meaning).
2) Produce a concise 1-2 sentence summary suitable for a daily digest.
3) Choose exactly one category from this list (and only one): %s.
Return only a JSON object exactly like:
{"rewritten_title":"...","summary":"...","category":"..."}
Title: %s
Text:
%s`

// Classify enriches one post. It never returns an error: any remote problem
// is absorbed into a fallback outcome.
func (c *Classifier) Classify(ctx context.Context, title, snippet string) Outcome {
	if c.backend == nil {
		return c.fallback(title, snippet, "backend not configured")
	}

	prompt := fmt.Sprintf(classifyPrompt, strings.Join(c.vocab, ", "), title, snippet)
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return c.fallback(title, snippet, fmt.Sprintf("backend call failed: %v", err))
	}

	raw, ok := extractJSON(text)
	if !ok {
		return c.fallback(title, snippet, "no JSON object in backend response")
	}

	var parsed struct {
		RewrittenTitle string `json:"rewritten_title"`
		Summary        string `json:"summary"`
		Category       string `json:"category"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return c.fallback(title, snippet, fmt.Sprintf("malformed JSON in backend response: %v", err))
	}

	if !c.inVocabulary(parsed.Category) {
		return c.fallback(title, snippet, fmt.Sprintf("category %q not in vocabulary", parsed.Category))
	}

	rewritten := strings.TrimSpace(parsed.RewrittenTitle)
	if rewritten == "" {
		rewritten = title
	}

	return Outcome{
		Enrichment: Enrichment{
			Title:    rewritten,
			Summary:  truncate(parsed.Summary, maxRemoteSummary),
			Category: parsed.Category,
		},
		Origin: OriginRemote,
	}
}

func (c *Classifier) generate(ctx context.Context, prompt string) (string, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	return backoff.Retry(ctx, func() (string, error) {
		return c.backend.Generate(ctx, prompt)
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(maxBackendTries))
}

// fallback classifies by case-insensitive substring match of each vocabulary
// entry against the post text, in vocabulary order. Deterministic for a fixed
// input, no network.
func (c *Classifier) fallback(title, snippet, reason string) Outcome {
	c.log.Debug("classifier fallback", "reason", reason, "title", title)

	text := strings.ToLower(title + " " + snippet)
	category := "General"
	for _, cat := range c.vocab {
		if strings.Contains(text, strings.ToLower(cat)) {
			category = cat
			break
		}
	}

	summary := snippet
	if summary == "" {
		summary = title
	}

	return Outcome{
		Enrichment: Enrichment{
			Title:    title,
			Summary:  truncate(summary, maxFallbackSummary),
			Category: category,
		},
		Origin: OriginFallback,
		Reason: reason,
	}
}

func (c *Classifier) inVocabulary(category string) bool {
	for _, cat := range c.vocab {
		if cat == category {
			return true
		}
	}
	return false
}

// extractJSON pulls the first candidate JSON object out of free-form backend
// output: everything from the first '{' to the last '}'. Whether it actually
// decodes is the second stage's problem.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
