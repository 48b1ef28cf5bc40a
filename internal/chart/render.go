// Package chart rasterizes chart specs to PNG for report embedding.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/kbellanger/salescope/internal/analytics"
)

// ErrEmptySeries is returned when a spec has no points to draw.
var ErrEmptySeries = errors.New("chart has no points")

// Renderer draws chart specs at a fixed pixel size.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer returns a renderer with sane defaults for zero dimensions.
func NewRenderer(width, height int) Renderer {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 500
	}
	return Renderer{Width: width, Height: height}
}

// Render draws the spec and returns PNG bytes.
func (r Renderer) Render(spec analytics.Spec) ([]byte, error) {
	if len(spec.Points) == 0 {
		return nil, ErrEmptySeries
	}
	switch spec.Kind {
	case analytics.Line:
		return r.renderLine(spec)
	default:
		return r.renderBar(spec)
	}
}

func (r Renderer) renderBar(spec analytics.Spec) ([]byte, error) {
	bars := make([]chart.Value, 0, len(spec.Points))
	for _, p := range spec.Points {
		bars = append(bars, chart.Value{Label: p.Label, Value: p.Total})
	}
	ch := chart.BarChart{
		Title:      spec.Title,
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   barWidth(r.Width, len(bars)),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 30}},
		YAxis: chart.YAxis{
			Name:  spec.YLabel,
			Range: yRange(spec.Points),
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", spec.Name, err)
	}
	return buf.Bytes(), nil
}

func (r Renderer) renderLine(spec analytics.Spec) ([]byte, error) {
	times := make([]time.Time, 0, len(spec.Points))
	values := make([]float64, 0, len(spec.Points))
	for _, p := range spec.Points {
		t, err := time.Parse("2006-01-02", p.Label)
		if err != nil {
			return nil, fmt.Errorf("render %s: bad bucket label %q: %w", spec.Name, p.Label, err)
		}
		times = append(times, t)
		values = append(values, p.Total)
	}
	// go-chart needs at least two X values; pad a single bucket.
	if len(times) == 1 {
		times = append(times, times[0].AddDate(0, 1, 0))
		values = append(values, values[0])
	}
	ch := chart.Chart{
		Title:      spec.Title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 30}},
		XAxis: chart.XAxis{
			Name:           spec.XLabel,
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:  spec.YLabel,
			Range: yRange(spec.Points),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    spec.Title,
				XValues: times,
				YValues: values,
				Style:   chart.Style{StrokeWidth: 2, DotWidth: 4},
			},
		},
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", spec.Name, err)
	}
	return buf.Bytes(), nil
}

// yRange pins the value axis to [min(0, data), max+10%]. go-chart refuses a
// zero-delta range, which a series of identical totals would otherwise hit.
func yRange(points []analytics.Entry) chart.Range {
	min, max := 0.0, 0.0
	for _, p := range points {
		if p.Total < min {
			min = p.Total
		}
		if p.Total > max {
			max = p.Total
		}
	}
	max += (max - min) * 0.1
	if max <= min {
		max = min + 1
	}
	return &chart.ContinuousRange{Min: min, Max: max}
}

// barWidth spreads bars across ~80% of the canvas.
func barWidth(width, bars int) int {
	if bars == 0 {
		return 20
	}
	w := width * 4 / 5 / bars
	if w < 12 {
		w = 12
	}
	if w > 80 {
		w = 80
	}
	return w
}
