package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvnmails-cpu/answeree/internal/config"
	"github.com/vvnmails-cpu/answeree/internal/enrich"
	"github.com/vvnmails-cpu/answeree/internal/logging"
	"github.com/vvnmails-cpu/answeree/internal/pipeline"
	"github.com/vvnmails-cpu/answeree/internal/source"
	"github.com/vvnmails-cpu/answeree/internal/store"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig  string
	flagDate    string
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "answeree",
	Short: "Daily digest builder",
	Long:  "answeree pulls posts from public sources, classifies and summarizes them, and writes a dated digest plus a rolling index.",
	RunE:  runBuild,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "override the digest data directory")
	rootCmd.Flags().StringVar(&flagDate, "date", "", "digest date (YYYY-MM-DD, default today)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("answeree %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := logging.New(cfg.LogLevel)

	digestDate, err := resolveDate(flagDate)
	if err != nil {
		return err
	}

	st, err := store.Open(dataDir(cfg), log)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	var backend enrich.Backend
	if cfg.AIEnabled() {
		backend, err = enrich.NewBackend(cfg.AI, cfg.AIKey())
		if err != nil {
			return fmt.Errorf("configuring remote classifier: %w", err)
		}
	} else {
		log.Info("remote classifier not configured, classifying locally")
	}

	p := &pipeline.Pipeline{
		Fetchers: []source.Fetcher{
			source.NewRedditFetcher(cfg.Sources.Reddit, log),
			source.NewHackerNewsFetcher(cfg.Sources.HackerNews, log),
			source.NewStackOverflowFetcher(cfg.Sources.StackOverflow, log),
			source.NewQuoraFetcher(cfg.Sources.Quora, log),
		},
		Classifier: enrich.NewClassifier(backend, cfg.Categories, log),
		Store:      st,
		MaxItems:   cfg.GetMaxItems(),
		Workers:    cfg.GetEnrichWorkers(),
		Log:        log,
	}

	rec, err := p.Run(cmd.Context(), digestDate)
	if err != nil {
		return err
	}

	fmt.Printf("Digest for %s: %d item(s)", rec.Date, len(rec.Items))
	if len(rec.Trending) > 0 {
		fmt.Printf(", trending: %s", strings.Join(rec.Trending, ", "))
	}
	fmt.Printf("\nRecord: %s\n", st.RecordPath(rec.Date))
	return nil
}

// resolveDate validates an explicit date or defaults to today.
func resolveDate(s string) (string, error) {
	if s == "" {
		return time.Now().Format("2006-01-02"), nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return s, nil
}

func dataDir(cfg *config.Config) string {
	if flagDataDir != "" {
		return flagDataDir
	}
	return cfg.GetDataDir()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
