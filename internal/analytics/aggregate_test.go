package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/kbellanger/salescope/internal/classify"
	"github.com/kbellanger/salescope/internal/table"
)

var roles = classify.Assignment{Date: "date", Value: "montant", Region: "région", Product: "produit"}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func salesTable(rows ...[]table.Cell) *table.Table {
	return &table.Table{
		Columns: []table.Column{
			{Name: "date", Kind: table.Date},
			{Name: "région", Kind: table.Text},
			{Name: "produit", Kind: table.Text},
			{Name: "montant", Kind: table.Number},
		},
		Rows: rows,
	}
}

func row(d time.Time, region, product string, v float64) []table.Cell {
	return []table.Cell{table.DateCell(d), table.TextCell(region), table.TextCell(product), table.NumberCell(v)}
}

func TestAggregateScenario(t *testing.T) {
	tbl := salesTable(
		row(day(2024, 1, 5), "North", "A", 100),
		row(day(2024, 1, 20), "North", "B", 50),
		row(day(2024, 2, 1), "South", "A", 75),
	)
	res := Aggregate(tbl, roles, DefaultTopN)

	if res.KPIs.Total != 225 {
		t.Errorf("total = %v, want 225", res.KPIs.Total)
	}
	if res.KPIs.Count != 3 {
		t.Errorf("count = %v, want 3", res.KPIs.Count)
	}
	if res.KPIs.Mean != 75 {
		t.Errorf("mean = %v, want 75", res.KPIs.Mean)
	}

	wantRegions := []Entry{{"North", 150}, {"South", 75}}
	if len(res.RegionTotals) != len(wantRegions) {
		t.Fatalf("region totals = %+v, want %+v", res.RegionTotals, wantRegions)
	}
	for i, w := range wantRegions {
		if res.RegionTotals[i] != w {
			t.Errorf("region[%d] = %+v, want %+v", i, res.RegionTotals[i], w)
		}
	}

	wantSeries := []Entry{{"2024-01-01", 150}, {"2024-02-01", 75}}
	if len(res.TimeSeries) != len(wantSeries) {
		t.Fatalf("time series = %+v, want %+v", res.TimeSeries, wantSeries)
	}
	for i, w := range wantSeries {
		if res.TimeSeries[i] != w {
			t.Errorf("series[%d] = %+v, want %+v", i, res.TimeSeries[i], w)
		}
	}
}

func TestRegionTotalsSumEqualsTotalKPI(t *testing.T) {
	tbl := salesTable(
		row(day(2024, 1, 5), "North", "A", 12.5),
		row(day(2024, 1, 6), "South", "B", 30),
		row(day(2024, 1, 7), "East", "C", 7.25),
		row(day(2024, 1, 8), "North", "C", 99),
	)
	res := Aggregate(tbl, roles, DefaultTopN)
	var sum float64
	for _, e := range res.RegionTotals {
		sum += e.Total
	}
	if sum != res.KPIs.Total {
		t.Fatalf("sum(region totals) = %v, total kpi = %v", sum, res.KPIs.Total)
	}
}

func TestTopProductsLimitAndOrder(t *testing.T) {
	var rows [][]table.Cell
	for i := 0; i < 15; i++ {
		rows = append(rows, row(day(2024, 1, 1+i%27), "R", fmt.Sprintf("P%02d", i), float64(i+1)))
	}
	res := Aggregate(salesTable(rows...), roles, DefaultTopN)

	if len(res.TopProducts) != 10 {
		t.Fatalf("top products length = %d, want 10", len(res.TopProducts))
	}
	for i := 1; i < len(res.TopProducts); i++ {
		if res.TopProducts[i].Total > res.TopProducts[i-1].Total {
			t.Fatalf("top products not descending: %+v", res.TopProducts)
		}
	}
	if res.TopProducts[0].Label != "P14" {
		t.Errorf("largest product = %s, want P14", res.TopProducts[0].Label)
	}
}

func TestTopProductsFewerThanN(t *testing.T) {
	tbl := salesTable(
		row(day(2024, 1, 1), "R", "A", 1),
		row(day(2024, 1, 2), "R", "B", 2),
	)
	res := Aggregate(tbl, roles, DefaultTopN)
	if len(res.TopProducts) != 2 {
		t.Fatalf("top products length = %d, want 2", len(res.TopProducts))
	}
}

func TestTopProductsTiesKeepEncounterOrder(t *testing.T) {
	tbl := salesTable(
		row(day(2024, 1, 1), "R", "B", 10),
		row(day(2024, 1, 2), "R", "A", 10),
	)
	res := Aggregate(tbl, roles, DefaultTopN)
	if res.TopProducts[0].Label != "B" || res.TopProducts[1].Label != "A" {
		t.Fatalf("tie order = %+v, want encounter order B then A", res.TopProducts)
	}
}

func TestTimeSeriesStrictlyIncreasing(t *testing.T) {
	tbl := salesTable(
		row(day(2024, 3, 10), "R", "A", 1),
		row(day(2024, 1, 5), "R", "A", 2),
		row(day(2024, 3, 2), "R", "A", 3),
		row(day(2023, 12, 31), "R", "A", 4),
	)
	res := Aggregate(tbl, roles, DefaultTopN)
	seen := map[string]bool{}
	for i, e := range res.TimeSeries {
		if seen[e.Label] {
			t.Fatalf("duplicate month bucket %s", e.Label)
		}
		seen[e.Label] = true
		if i > 0 && res.TimeSeries[i-1].Label >= e.Label {
			t.Fatalf("buckets not increasing: %+v", res.TimeSeries)
		}
	}
	if res.TimeSeries[0].Label != "2023-12-01" {
		t.Errorf("first bucket = %s, want 2023-12-01", res.TimeSeries[0].Label)
	}
}

func TestNoTimeSeriesWithoutDateKind(t *testing.T) {
	tbl := salesTable(row(day(2024, 1, 1), "R", "A", 1))
	tbl.Columns[0].Kind = table.Text
	res := Aggregate(tbl, roles, DefaultTopN)
	if res.TimeSeries != nil {
		t.Fatalf("time series = %+v, want nil for non-date column", res.TimeSeries)
	}
}

func TestAggregateEmptyTable(t *testing.T) {
	res := Aggregate(salesTable(), roles, DefaultTopN)
	if res.KPIs.Total != 0 || res.KPIs.Count != 0 || res.KPIs.Mean != 0 {
		t.Fatalf("kpis = %+v, want zeros (mean defined as 0)", res.KPIs)
	}
	if len(res.RegionTotals) != 0 || len(res.TopProducts) != 0 {
		t.Fatalf("expected empty series, got %+v", res)
	}
	if res.TimeSeries == nil || len(res.TimeSeries) != 0 {
		t.Fatalf("time series = %v, want empty non-nil for a date-kind column", res.TimeSeries)
	}
}

func TestChartsOrder(t *testing.T) {
	res := Aggregate(salesTable(row(day(2024, 1, 1), "R", "A", 1)), roles, DefaultTopN)
	specs := Charts(res)
	if len(specs) != 3 {
		t.Fatalf("specs = %d, want 3", len(specs))
	}
	order := []string{"region_sales", "top_products", "time_series"}
	for i, name := range order {
		if specs[i].Name != name {
			t.Fatalf("spec[%d] = %s, want %s", i, specs[i].Name, name)
		}
	}
}

func TestChartsOmitTimeSeriesWhenAbsent(t *testing.T) {
	specs := Charts(Result{})
	if len(specs) != 2 {
		t.Fatalf("specs = %d, want 2 without a time series", len(specs))
	}
}
