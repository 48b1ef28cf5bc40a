// Package report assembles the exportable PDF: a KPI summary page followed
// by one heading and one chart image per rendered chart. It only sequences
// content blocks; chart pixels come from the chart package and page painting
// from fpdf.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/kbellanger/salescope/internal/analytics"
	"github.com/kbellanger/salescope/internal/chart"
)

// Summary is the KPI block shown on the first page.
type Summary struct {
	Period      string
	Total       float64
	Count       int
	Mean        float64
	GeneratedAt time.Time
}

// ChartImage is a rendered chart ready for embedding, in report order.
type ChartImage struct {
	Name  string
	Title string
	PNG   []byte
}

// Filename returns the timestamped download name for a report.
func Filename(now time.Time) string {
	return fmt.Sprintf("rapport_ventes_%s.pdf", now.Format("20060102_1504"))
}

// RenderCharts rasterizes specs in order, skipping those with no points so
// that an empty aggregate never fails report generation.
func RenderCharts(r chart.Renderer, specs []analytics.Spec) ([]ChartImage, error) {
	out := make([]ChartImage, 0, len(specs))
	for _, spec := range specs {
		if len(spec.Points) == 0 {
			continue
		}
		png, err := r.Render(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, ChartImage{Name: spec.Name, Title: spec.Title, PNG: png})
	}
	return out, nil
}

// Build assembles the document and returns its bytes. Chart images are
// staged in a temporary directory that is removed on every exit path.
// An empty chart list produces a summary-only document.
func Build(s Summary, charts []ChartImage) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "salescope-report-")
	if err != nil {
		return nil, fmt.Errorf("stage chart images: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("Rapport d'Analyse Commerciale"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	generated := s.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Généré le %s", generated.Format("02/01/2006 15:04"))), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr("Résumé Analytique"), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	for _, line := range []string{
		fmt.Sprintf("Période analysée: %s", s.Period),
		fmt.Sprintf("Chiffre d'affaires total: %.2f €", s.Total),
		fmt.Sprintf("Nombre de transactions: %d", s.Count),
		fmt.Sprintf("Valeur moyenne: %.2f €", s.Mean),
	} {
		pdf.MultiCell(0, 10, tr(line), "", "L", false)
	}
	pdf.Ln(8)

	if len(charts) > 0 {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr("Visualisations Clés"), "", 1, "L", false, 0, "")
		for _, c := range charts {
			path := filepath.Join(tmpDir, c.Name+".png")
			if err := os.WriteFile(path, c.PNG, 0o644); err != nil {
				return nil, fmt.Errorf("stage chart %s: %w", c.Name, err)
			}
			pdf.SetFont("Arial", "B", 12)
			pdf.CellFormat(0, 10, tr(fmt.Sprintf("Graphique: %s", c.Title)), "", 1, "L", false, 0, "")
			pdf.ImageOptions(path, 15, 0, 180, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
			pdf.Ln(5)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
