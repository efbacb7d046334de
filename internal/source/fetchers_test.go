package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vvnmails-cpu/answeree/internal/config"
)

func TestRedditFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		switch {
		case strings.HasPrefix(r.URL.Path, "/r/technology/"):
			w.Write([]byte(`{"data":{"children":[
				{"data":{"title":"Post A","selftext":"Body A","permalink":"/r/technology/a","score":12}},
				{"data":{"title":"Post B","selftext":"","permalink":"/r/technology/b","score":-2}}
			]}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewRedditFetcher(config.RedditConfig{Subreddits: []string{"technology", "missing"}, PerSubreddit: 4}, discardLogger())
	f.baseURL = srv.URL
	f.pause = 0

	posts, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	// The 404 subreddit is skipped, not fatal.
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if gotUA != redditUserAgent {
		t.Errorf("expected custom user agent, got %q", gotUA)
	}
	if posts[0].Source != "Reddit /r/technology" {
		t.Errorf("unexpected source label %q", posts[0].Source)
	}
	if posts[0].URL != "https://reddit.com/r/technology/a" {
		t.Errorf("unexpected url %q", posts[0].URL)
	}
	if posts[0].Votes != 12 {
		t.Errorf("votes = %d, want 12", posts[0].Votes)
	}
	if posts[1].Snippet != "Post B" {
		t.Errorf("empty selftext should fall back to title, got %q", posts[1].Snippet)
	}
	if posts[1].Votes != 0 {
		t.Errorf("negative score should clamp to 0, got %d", posts[1].Votes)
	}
}

func TestHackerNewsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/topstories.json":
			w.Write([]byte(`[1, 2, 3]`))
		case "/item/1.json":
			w.Write([]byte(`{"id":1,"title":"Linked story","url":"https://example.com/one","score":42}`))
		case "/item/2.json":
			w.Write([]byte(`{"id":2,"title":"Ask HN: self post","text":"<i>Some</i> text","score":7}`))
		case "/item/3.json":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHackerNewsFetcher(config.HackerNewsConfig{TopN: 2}, discardLogger())
	f.baseURL = srv.URL
	f.pause = 0

	posts, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	// TopN=2 caps the id list, so item 3's failure is never even reached.
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].URL != "https://example.com/one" {
		t.Errorf("unexpected url %q", posts[0].URL)
	}
	if posts[0].Snippet != "Linked story" {
		t.Errorf("empty text should fall back to title, got %q", posts[0].Snippet)
	}
	if posts[1].URL != "https://news.ycombinator.com/item?id=2" {
		t.Errorf("missing url should point at the HN item page, got %q", posts[1].URL)
	}
	if posts[1].Snippet != "Some text" {
		t.Errorf("expected stripped text, got %q", posts[1].Snippet)
	}
}

func TestHackerNewsFetchTopStoriesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewHackerNewsFetcher(config.HackerNewsConfig{TopN: 5}, discardLogger())
	f.baseURL = srv.URL
	f.pause = 0

	if _, err := f.Fetch(context.Background()); err == nil {
		t.Error("expected error when the id list is unreachable")
	}
}

func TestStackOverflowFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("pagesize"); got != "8" {
			t.Errorf("pagesize = %q, want 8", got)
		}
		w.Write([]byte(`{"items":[
			{"title":"How to &quot;quote&quot; in Go?","body":"<p>A question body</p>","link":"https://stackoverflow.com/q/1","score":99}
		]}`))
	}))
	defer srv.Close()

	f := NewStackOverflowFetcher(config.StackOverflowConfig{PageSize: 8}, discardLogger())
	f.baseURL = srv.URL

	posts, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	if posts[0].Title != `How to "quote" in Go?` {
		t.Errorf("expected unescaped title, got %q", posts[0].Title)
	}
	if posts[0].Snippet != "A question body" {
		t.Errorf("expected stripped body, got %q", posts[0].Snippet)
	}
	if posts[0].Votes != 99 {
		t.Errorf("votes = %d, want 99", posts[0].Votes)
	}
}

const quoraFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Topic</title>
<item><title>Q one</title><link>https://quora.com/q1</link><description>&lt;p&gt;First answer&lt;/p&gt;</description></item>
<item><title>Q two</title><link>https://quora.com/q2</link><description>Second</description></item>
<item><title>Q three</title><link>https://quora.com/q3</link><description>Third</description></item>
</channel></rss>`

func TestQuoraFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(quoraFeedXML))
	}))
	defer srv.Close()

	f := NewQuoraFetcher(config.QuoraConfig{
		Feeds:   []string{srv.URL + "/broken", srv.URL + "/feed"},
		PerFeed: 2,
	}, discardLogger())

	posts, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	// Broken feed skipped; per-feed cap applies to the good one.
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].Title != "Q one" {
		t.Errorf("unexpected title %q", posts[0].Title)
	}
	if posts[0].Snippet != "First answer" {
		t.Errorf("expected stripped description, got %q", posts[0].Snippet)
	}
	if posts[0].Votes != 0 {
		t.Errorf("feed posts carry no votes, got %d", posts[0].Votes)
	}
}
