package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// FallbackCategory is the mandatory vocabulary member every item can fall
// back to when nothing else matches.
const FallbackCategory = "General"

type RedditConfig struct {
	Subreddits   []string `yaml:"subreddits"`
	PerSubreddit int      `yaml:"per_subreddit"`
}

type HackerNewsConfig struct {
	TopN int `yaml:"top_n"`
}

type StackOverflowConfig struct {
	PageSize int `yaml:"page_size"`
}

type QuoraConfig struct {
	Feeds   []string `yaml:"feeds"`
	PerFeed int      `yaml:"per_feed"`
}

type SourcesConfig struct {
	Reddit        RedditConfig        `yaml:"reddit"`
	HackerNews    HackerNewsConfig    `yaml:"hackernews"`
	StackOverflow StackOverflowConfig `yaml:"stackoverflow"`
	Quora         QuoraConfig         `yaml:"quora"`
}

type AIConfig struct {
	Provider string `yaml:"provider"` // "gemini" or "openai"
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

type Config struct {
	SiteTitle     string        `yaml:"site_title"`
	DataDir       string        `yaml:"data_dir,omitempty"`
	OutputDir     string        `yaml:"output_dir,omitempty"`
	MaxItems      int           `yaml:"max_items"`
	Categories    []string      `yaml:"categories"`
	Sources       SourcesConfig `yaml:"sources"`
	AI            *AIConfig     `yaml:"ai,omitempty"`
	EnrichWorkers int           `yaml:"enrich_workers,omitempty"`
	LogLevel      string        `yaml:"log_level,omitempty"`
}

// AIEnabled returns true if the remote classifier is configured with an API key.
func (c *Config) AIEnabled() bool {
	if c.AI == nil {
		return false
	}
	return c.AIKey() != ""
}

// AIKey returns the resolved API key (config or env var).
func (c *Config) AIKey() string {
	if c.AI != nil && c.AI.APIKey != "" {
		return c.AI.APIKey
	}
	return os.Getenv("DIGEST_AI_KEY")
}

// GetMaxItems returns the per-run item budget, defaulting to 30.
func (c *Config) GetMaxItems() int {
	if c.MaxItems <= 0 {
		return 30
	}
	return c.MaxItems
}

// GetEnrichWorkers returns the classifier worker pool size, defaulting to 3.
func (c *Config) GetEnrichWorkers() int {
	if c.EnrichWorkers <= 0 {
		return 3
	}
	return c.EnrichWorkers
}

func (c *Config) GetDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return filepath.Join(xdg.DataHome, "answeree", "data")
}

func (c *Config) GetOutputDir() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return filepath.Join(xdg.DataHome, "answeree", "content")
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "answeree", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if len(cfg.Categories) == 0 {
		return fmt.Errorf("categories: at least one category is required")
	}
	hasFallback := false
	for _, cat := range cfg.Categories {
		if cat == FallbackCategory {
			hasFallback = true
			break
		}
	}
	if !hasFallback {
		return fmt.Errorf("categories: %q is required as the fallback member", FallbackCategory)
	}

	for _, feed := range cfg.Sources.Quora.Feeds {
		u, err := url.Parse(feed)
		if err != nil {
			return fmt.Errorf("quora feed %q: invalid url: %w", feed, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("quora feed %q: url scheme must be http or https, got %q", feed, u.Scheme)
		}
	}

	if cfg.AI != nil {
		switch cfg.AI.Provider {
		case "gemini", "openai":
		default:
			return fmt.Errorf("ai: unknown provider %q (valid: gemini, openai)", cfg.AI.Provider)
		}
	}

	return nil
}
