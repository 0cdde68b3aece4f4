package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/vantagemro/hardtime/config"
	"github.com/vantagemro/hardtime/internal/analytics"
	"github.com/vantagemro/hardtime/pkg/diag"
)

// WritePDF creates a lightweight report: headline metrics, breakdown
// tables, and the rendered charts.
func WritePDF(path string, b Bundle, opts config.Options) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Hard-Time Component Analytics", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Hard-Time Component Analytics", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	writeHeading(pdf, "Headline Metrics")
	rows := summaryRows(b.Summary)
	rows = append(rows, [2]string{"Weekly due trend", formatTrend(b.Trend)})
	metricRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		metricRows = append(metricRows, []string{r[0], r[1]})
	}
	writeTable(pdf, []string{"Metric", "Value"}, metricRows, []float64{90, 90})

	writeBreakdownTable(pdf, "Aircraft Exposure", "Aircraft", b.Aircraft, opts)
	writeBreakdownTable(pdf, "Top Components", "Part Name", b.Parts, opts)
	writeBreakdownTable(pdf, "Due Bucket Mix", "Due Bucket", b.Buckets, opts)

	writeCharts(pdf, b)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return diag.Wrap(diag.ExportFailed, err)
	}
	return nil
}

func writeHeading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func writeBreakdownTable(pdf *fpdf.Fpdf, heading, label string, b analytics.Breakdown, opts config.Options) {
	groups := b.Top(opts.TopN)
	if len(groups) == 0 {
		return
	}
	pdf.Ln(4)
	writeHeading(pdf, heading)
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			g.Value,
			fmt.Sprintf("%d", g.Count),
			fmt.Sprintf("%d", g.Overdue),
			fmt.Sprintf("%d", g.DueSoon),
		})
	}
	headers := []string{label, "Components", "Overdue", fmt.Sprintf("Due <= %dd", opts.DueSoonDays)}
	writeTable(pdf, headers, rows, []float64{75, 35, 35, 35})
}

func writeTable(pdf *fpdf.Fpdf, headers []string, rows [][]string, widths []float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(0, 43, 85)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func writeCharts(pdf *fpdf.Fpdf, b Bundle) {
	charts := []struct {
		name string
		data []byte
	}{
		{"due_buckets", b.Charts.DueBuckets},
		{"aircraft", b.Charts.Aircraft},
		{"parts", b.Charts.Parts},
		{"trend", b.Charts.Trend},
		{"histogram", b.Charts.Histogram},
	}
	imgOpts := fpdf.ImageOptions{ImageType: "PNG"}
	for _, c := range charts {
		if len(c.data) == 0 {
			continue
		}
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(c.name, imgOpts, bytes.NewReader(c.data))
		// 180mm wide, height scaled by aspect ratio.
		pdf.ImageOptions(c.name, 15, 30, 180, 0, false, imgOpts, 0, "")
	}
}
