package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/kbellanger/salescope/internal/analytics"
	"github.com/kbellanger/salescope/internal/classify"
	"github.com/kbellanger/salescope/internal/filter"
	"github.com/kbellanger/salescope/internal/loader"
	"github.com/kbellanger/salescope/internal/table"
)

// pipelineFlags are the column-role and filter selections shared by the
// analyze and report commands.
type pipelineFlags struct {
	dateCol    string
	valueCol   string
	regionCol  string
	productCol string
	from       string
	to         string
	regions    []string
	products   []string
	top        int
}

func (p *pipelineFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&p.dateCol, "date-col", "", "date column (default: auto-detected)")
	fs.StringVar(&p.valueCol, "value-col", "", "value column to sum (default: first numeric column)")
	fs.StringVar(&p.regionCol, "region-col", "", "region column (default: auto-detected)")
	fs.StringVar(&p.productCol, "product-col", "", "product column (default: auto-detected)")
	fs.StringVar(&p.from, "from", "", "start of the date range (YYYY-MM-DD)")
	fs.StringVar(&p.to, "to", "", "end of the date range (YYYY-MM-DD)")
	fs.StringSliceVar(&p.regions, "region", nil, "regions to include (default: all)")
	fs.StringSliceVar(&p.products, "product", nil, "products to include (default: all)")
	fs.IntVar(&p.top, "top", analytics.DefaultTopN, "how many top products to keep")
}

// pipelineOutput is everything one synchronous pass produces.
type pipelineOutput struct {
	cleaned     *table.Table
	filtered    *table.Table
	diagnostics *loader.Diagnostics
	roles       classify.Assignment
	criteria    filter.Criteria
	result      analytics.Result
}

// runPipeline executes load -> clean -> classify -> filter -> aggregate for
// one file. Unset region/product selections default to every distinct value,
// matching the dashboard's select-all initial state.
func runPipeline(path string, flags *pipelineFlags) (*pipelineOutput, error) {
	raw, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	cleaned, diag := loader.Clean(raw)
	logger.Debug().
		Int("rows_before", diag.RowsBefore).
		Int("rows_dropped", diag.RowsDropped).
		Msg("cleaned table")

	candidates := classify.Detect(cleaned)
	roles, err := classify.Resolve(cleaned, candidates, classify.Overrides{
		Date:    flags.dateCol,
		Value:   flags.valueCol,
		Region:  flags.regionCol,
		Product: flags.productCol,
	})
	if err != nil {
		return nil, err
	}

	criteria := filter.Criteria{Regions: flags.regions, Products: flags.products}
	if len(criteria.Regions) == 0 {
		criteria.Regions = cleaned.Distinct(roles.Region)
	}
	if len(criteria.Products) == 0 {
		criteria.Products = cleaned.Distinct(roles.Product)
	}
	if flags.from != "" {
		criteria.From, err = time.Parse("2006-01-02", flags.from)
		if err != nil {
			return nil, fmt.Errorf("bad --from date %q: use YYYY-MM-DD", flags.from)
		}
	}
	if flags.to != "" {
		criteria.To, err = time.Parse("2006-01-02", flags.to)
		if err != nil {
			return nil, fmt.Errorf("bad --to date %q: use YYYY-MM-DD", flags.to)
		}
	}

	filtered := filter.Apply(cleaned, roles, criteria)
	result := analytics.Aggregate(filtered, roles, flags.top)

	return &pipelineOutput{
		cleaned:     cleaned,
		filtered:    filtered,
		diagnostics: diag,
		roles:       roles,
		criteria:    criteria,
		result:      result,
	}, nil
}

// periodLabel describes the analyzed period for report headers.
func (o *pipelineOutput) periodLabel() string {
	if !o.criteria.From.IsZero() && !o.criteria.To.IsZero() {
		return fmt.Sprintf("%s au %s",
			o.criteria.From.Format("02/01/2006"), o.criteria.To.Format("02/01/2006"))
	}
	if min, max, ok := o.cleaned.DateRange(o.roles.Date); ok {
		return fmt.Sprintf("%s au %s", min.Format("02/01/2006"), max.Format("02/01/2006"))
	}
	return "toutes dates"
}
