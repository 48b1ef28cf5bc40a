package analytics

// ChartKind selects how a series should be drawn.
type ChartKind string

const (
	Bar  ChartKind = "bar"
	Line ChartKind = "line"
)

// Spec is a renderable chart description: a titled, axis-labeled series.
// It carries no pixels; rendering belongs to the chart package.
type Spec struct {
	Name   string    `json:"name"`
	Title  string    `json:"title"`
	XLabel string    `json:"x_label"`
	YLabel string    `json:"y_label"`
	Kind   ChartKind `json:"kind"`
	Points []Entry   `json:"points"`
}

// Charts builds the dashboard's chart specs from a result, in the fixed
// order region totals, top products, time series. The time-series spec is
// present only when the result has one (date column was date-kind); report
// assembly relies on this exact order.
func Charts(res Result) []Spec {
	specs := []Spec{
		{
			Name:   "region_sales",
			Title:  "Chiffre d'affaires par région",
			XLabel: "Région",
			YLabel: "CA (€)",
			Kind:   Bar,
			Points: res.RegionTotals,
		},
		{
			Name:   "top_products",
			Title:  "Top 10 produits par CA",
			XLabel: "Produit",
			YLabel: "CA (€)",
			Kind:   Bar,
			Points: res.TopProducts,
		},
	}
	if res.TimeSeries != nil {
		specs = append(specs, Spec{
			Name:   "time_series",
			Title:  "Évolution mensuelle du CA",
			XLabel: "Mois",
			YLabel: "CA (€)",
			Kind:   Line,
			Points: res.TimeSeries,
		})
	}
	return specs
}
