package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvnmails-cpu/answeree/internal/config"
	"github.com/vvnmails-cpu/answeree/internal/logging"
	"github.com/vvnmails-cpu/answeree/internal/store"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the digest index from the persisted records",
	Long: `Rescan every dated record and rewrite index.json from scratch.

The build command does this automatically; use this after moving or deleting
record files by hand.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		log := logging.New(cfg.LogLevel)

		st, err := store.Open(dataDir(cfg), log)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}

		idx, err := st.RebuildIndex()
		if err != nil {
			return fmt.Errorf("rebuilding index: %w", err)
		}

		fmt.Printf("Indexed %d digest(s).\n", len(idx.Dates))
		if len(idx.Dates) > 0 {
			fmt.Printf("Latest: %s\n", idx.Dates[0])
		}
		return nil
	},
}
