package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbellanger/salescope/internal/analytics"
	"github.com/kbellanger/salescope/internal/chart"
	"github.com/kbellanger/salescope/internal/report"
)

var (
	repFlags      pipelineFlags
	repOutputPath string
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Generate the PDF report for a sales CSV/XLSX",
	Example: `  salescope report ventes.csv
  salescope report ventes.xlsx --from 2024-01-01 --to 2024-06-30 -o rapport.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := runPipeline(args[0], &repFlags)
		if err != nil {
			return err
		}

		renderer := chart.NewRenderer(cfg.ChartWidth, cfg.ChartHeight)
		images, err := report.RenderCharts(renderer, analytics.Charts(out.result))
		if err != nil {
			return fmt.Errorf("render charts: %w", err)
		}

		now := time.Now()
		doc, err := report.Build(report.Summary{
			Period:      out.periodLabel(),
			Total:       out.result.KPIs.Total,
			Count:       out.result.KPIs.Count,
			Mean:        out.result.KPIs.Mean,
			GeneratedAt: now,
		}, images)
		if err != nil {
			return fmt.Errorf("assemble report: %w", err)
		}

		path := repOutputPath
		if path == "" {
			path = report.Filename(now)
		}
		if err := os.WriteFile(path, doc, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("✓ Wrote report to %s (%d charts, %d rows)\n", path, len(images), out.result.KPIs.Count)
		return nil
	},
}

func init() {
	repFlags.register(reportCmd.Flags())
	reportCmd.Flags().StringVarP(&repOutputPath, "output", "o", "", "output path (default rapport_ventes_<timestamp>.pdf)")
	rootCmd.AddCommand(reportCmd)
}
