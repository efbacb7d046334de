package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvnmails-cpu/answeree/internal/config"
	"github.com/vvnmails-cpu/answeree/internal/logging"
	"github.com/vvnmails-cpu/answeree/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show digest storage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		log := logging.New(cfg.LogLevel)

		dir := dataDir(cfg)
		st, err := store.Open(dir, log)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}

		count, size, err := st.Stats()
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("Data dir: %s\n", dir)
		fmt.Printf("Digests: %d\n", count)
		fmt.Printf("Size: %s\n", formatBytes(size))
		return nil
	},
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
