// Package analytics turns a filtered record table into the KPI scalars and
// chart-ready series the dashboard and the PDF report render. Everything here
// is a pure function of its inputs; results are regenerated on every filter
// change and never cached.
package analytics

import (
	"sort"
	"time"

	"github.com/kbellanger/salescope/internal/classify"
	"github.com/kbellanger/salescope/internal/table"
)

// DefaultTopN is how many products the top-products ranking keeps.
const DefaultTopN = 10

// Entry is one (label, total) pair of an aggregate series.
type Entry struct {
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

// KPIs are the scalar indicators shown above the charts.
// Mean is defined as 0 when Count is 0.
type KPIs struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
}

// Result holds every aggregate derived from one filtered table.
// TimeSeries is nil when the date column is not date-kind, and empty (but
// non-nil) when it is date-kind over zero rows.
type Result struct {
	KPIs         KPIs    `json:"kpis"`
	RegionTotals []Entry `json:"region_totals"`
	TopProducts  []Entry `json:"top_products"`
	TimeSeries   []Entry `json:"time_series,omitempty"`
}

// Aggregate computes region totals (descending by total), the topN products
// (descending, ties by encounter order), the calendar-month time series
// (ascending, labels YYYY-MM-DD on the first of the month), and the KPIs.
func Aggregate(t *table.Table, a classify.Assignment, topN int) Result {
	if topN <= 0 {
		topN = DefaultTopN
	}
	var res Result

	valueIdx := t.ColumnIndex(a.Value)
	regionIdx := t.ColumnIndex(a.Region)
	productIdx := t.ColumnIndex(a.Product)
	dateIdx := t.ColumnIndex(a.Date)
	dateKind, _ := t.ColumnKind(a.Date)

	value := func(row []table.Cell) float64 {
		if valueIdx < 0 {
			return 0
		}
		return row[valueIdx].Number
	}

	for _, row := range t.Rows {
		res.KPIs.Total += value(row)
	}
	res.KPIs.Count = t.NumRows()
	if res.KPIs.Count > 0 {
		res.KPIs.Mean = res.KPIs.Total / float64(res.KPIs.Count)
	}

	if regionIdx >= 0 {
		res.RegionTotals = groupSum(t.Rows, regionIdx, value)
		sortDescending(res.RegionTotals)
	}

	if productIdx >= 0 {
		res.TopProducts = groupSum(t.Rows, productIdx, value)
		sortDescending(res.TopProducts)
		if len(res.TopProducts) > topN {
			res.TopProducts = res.TopProducts[:topN]
		}
	}

	if dateIdx >= 0 && dateKind == table.Date {
		res.TimeSeries = monthlySum(t.Rows, dateIdx, value)
	}

	return res
}

// groupSum sums the value column per distinct label in encounter order.
func groupSum(rows [][]table.Cell, keyIdx int, value func([]table.Cell) float64) []Entry {
	totals := make(map[string]float64)
	order := []Entry{}
	for _, row := range rows {
		k := row[keyIdx].String()
		if _, seen := totals[k]; !seen {
			order = append(order, Entry{Label: k})
		}
		totals[k] += value(row)
	}
	for i := range order {
		order[i].Total = totals[order[i].Label]
	}
	return order
}

// sortDescending orders by total, keeping encounter order on ties.
func sortDescending(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total > entries[j].Total
	})
}

// monthlySum buckets rows by the first-of-month of their date value.
func monthlySum(rows [][]table.Cell, dateIdx int, value func([]table.Cell) float64) []Entry {
	totals := make(map[time.Time]float64)
	for _, row := range rows {
		c := row[dateIdx]
		if c.Kind != table.Date {
			continue
		}
		bucket := time.Date(c.Date.Year(), c.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		totals[bucket] += value(row)
	}
	buckets := make([]time.Time, 0, len(totals))
	for b := range totals {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Before(buckets[j]) })

	out := make([]Entry, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, Entry{Label: b.Format("2006-01-02"), Total: totals[b]})
	}
	return out
}
