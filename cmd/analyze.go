package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbellanger/salescope/internal/analytics"
)

var anaFlags pipelineFlags

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a sales CSV/XLSX and print KPIs and aggregate tables",
	Example: `  salescope analyze ventes.csv
  salescope analyze ventes.xlsx --from 2024-01-01 --to 2024-06-30
  salescope analyze ventes.csv --region Nord --region Sud --value-col montant`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := runPipeline(args[0], &anaFlags)
		if err != nil {
			return err
		}
		fmt.Print(renderSummary(out))
		return nil
	},
}

func init() {
	anaFlags.register(analyzeCmd.Flags())
	rootCmd.AddCommand(analyzeCmd)
}

// renderSummary formats one pipeline pass as a compact text report.
func renderSummary(out *pipelineOutput) string {
	var b strings.Builder

	b.WriteString("[CLEANING]\n")
	fmt.Fprintf(&b, "Rows: %d (dropped %d of %d)\n",
		out.cleaned.NumRows(), out.diagnostics.RowsDropped, out.diagnostics.RowsBefore)
	for _, oc := range out.diagnostics.Outcomes {
		if oc.Replaced > 0 {
			fmt.Fprintf(&b, "- %s: %s (%d values became missing)\n", oc.Column, oc.Action, oc.Replaced)
		} else {
			fmt.Fprintf(&b, "- %s: %s\n", oc.Column, oc.Action)
		}
	}

	b.WriteString("\n[COLUMNS]\n")
	fmt.Fprintf(&b, "date=%s value=%s region=%s product=%s\n",
		out.roles.Date, out.roles.Value, out.roles.Region, out.roles.Product)

	b.WriteString("\n[KPI]\n")
	fmt.Fprintf(&b, "Période: %s\n", out.periodLabel())
	fmt.Fprintf(&b, "Chiffre d'affaires total: %.2f\n", out.result.KPIs.Total)
	fmt.Fprintf(&b, "Transactions: %d\n", out.result.KPIs.Count)
	fmt.Fprintf(&b, "Valeur moyenne: %.2f\n", out.result.KPIs.Mean)

	writeSeries := func(title string, entries []analytics.Entry) {
		fmt.Fprintf(&b, "\n[%s]\n", title)
		if len(entries) == 0 {
			b.WriteString("(empty)\n")
			return
		}
		for _, e := range entries {
			fmt.Fprintf(&b, "- %s: %.2f\n", e.Label, e.Total)
		}
	}
	writeSeries("CA PAR RÉGION", out.result.RegionTotals)
	writeSeries("TOP PRODUITS", out.result.TopProducts)
	if out.result.TimeSeries != nil {
		writeSeries("CA MENSUEL", out.result.TimeSeries)
	}
	return b.String()
}
