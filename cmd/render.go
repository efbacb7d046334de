package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvnmails-cpu/answeree/internal/config"
	"github.com/vvnmails-cpu/answeree/internal/logging"
	"github.com/vvnmails-cpu/answeree/internal/render"
	"github.com/vvnmails-cpu/answeree/internal/store"
)

var (
	flagRenderDate string
	flagOutputDir  string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a digest record to a static HTML page",
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

		renderDate := flagRenderDate
		if renderDate == "" {
			dates, err := st.Dates()
			if err != nil {
				return err
			}
			if len(dates) == 0 {
				return fmt.Errorf("no digest records to render")
			}
			renderDate = dates[0]
		}

		rec, err := st.Load(renderDate)
		if err != nil {
			return fmt.Errorf("loading record: %w", err)
		}

		outputDir := flagOutputDir
		if outputDir == "" {
			outputDir = cfg.GetOutputDir()
		}

		path, err := render.WriteFile(outputDir, cfg.SiteTitle, rec)
		if err != nil {
			return err
		}
		fmt.Printf("Rendered %s to %s\n", renderDate, path)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&flagRenderDate, "date", "", "date to render (default: latest)")
	renderCmd.Flags().StringVar(&flagOutputDir, "output", "", "override the output directory")
}
