package enrich

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vvnmails-cpu/answeree/internal/config"
)

func TestNewBackend(t *testing.T) {
	if _, err := NewBackend(nil, "key"); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewBackend(&config.AIConfig{Provider: "gemini"}, ""); err == nil {
		t.Error("expected error for empty key")
	}
	if _, err := NewBackend(&config.AIConfig{Provider: "mystery"}, "key"); err == nil {
		t.Error("expected error for unknown provider")
	}
	for _, provider := range []string{"gemini", "openai"} {
		if _, err := NewBackend(&config.AIConfig{Provider: provider}, "key"); err != nil {
			t.Errorf("provider %q: unexpected error: %v", provider, err)
		}
	}
}

func TestGeminiGenerate(t *testing.T) {
	var gotKey, gotPath string
	var gotBody geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"generated text"}]}}]}`))
	}))
	defer srv.Close()

	b := &geminiBackend{
		apiKey:  "secret",
		model:   "gemini-2.5-flash-lite",
		client:  &http.Client{Timeout: time.Second},
		baseURL: srv.URL,
	}

	text, err := b.Generate(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "generated text" {
		t.Errorf("unexpected text %q", text)
	}
	if gotKey != "secret" {
		t.Errorf("api key header = %q", gotKey)
	}
	if !strings.Contains(gotPath, "gemini-2.5-flash-lite:generateContent") {
		t.Errorf("unexpected path %q", gotPath)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 1 || gotBody.Contents[0].Parts[0].Text != "the prompt" {
		t.Errorf("unexpected request body: %+v", gotBody)
	}
}

func TestGeminiGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}},
		{"empty candidates", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[]}`))
		}},
		{"no parts", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[{"content":{"parts":[]}}]}`))
		}},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(tt.handler)
		b := &geminiBackend{apiKey: "k", model: "m", client: srv.Client(), baseURL: srv.URL}
		if _, err := b.Generate(context.Background(), "p"); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
		srv.Close()
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var gotAuth string
	var gotBody openaiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)
		w.Write([]byte(`{"choices":[{"message":{"content":"model reply"}}]}`))
	}))
	defer srv.Close()

	b := &openaiBackend{
		apiKey:  "secret",
		model:   "gpt-4o-mini",
		client:  &http.Client{Timeout: time.Second},
		baseURL: srv.URL,
	}

	text, err := b.Generate(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "model reply" {
		t.Errorf("unexpected text %q", text)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotBody.Model != "gpt-4o-mini" || len(gotBody.Messages) != 1 || gotBody.Messages[0].Content != "the prompt" {
		t.Errorf("unexpected request body: %+v", gotBody)
	}
}

func TestOpenAIGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	b := &openaiBackend{apiKey: "k", model: "m", client: srv.Client(), baseURL: srv.URL}
	if _, err := b.Generate(context.Background(), "p"); err == nil {
		t.Error("expected error for empty choices")
	}
}
