// Package report serializes pipeline outputs into Excel and PDF
// artifacts. It reads the computed structures and never feeds back into
// the analytics core.
package report

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vantagemro/hardtime/config"
	"github.com/vantagemro/hardtime/internal/analytics"
	"github.com/vantagemro/hardtime/internal/dataset"
	"github.com/vantagemro/hardtime/internal/visuals"
)

// Bundle is everything one run computed, handed read-only to exporters.
type Bundle struct {
	Snapshot *dataset.Snapshot
	Summary  analytics.Summary
	Aircraft analytics.Breakdown
	Parts    analytics.Breakdown
	Buckets  analytics.Breakdown
	Profiles []analytics.ColumnProfile
	Trend    *analytics.WeeklyTrend
	Charts   visuals.ChartSet
}

// WriteAll writes the Excel and PDF artifacts. The two writers touch
// disjoint files, so they fan out concurrently; the core pipeline stays
// single-pass.
func WriteAll(ctx context.Context, excelPath, pdfPath string, b Bundle, opts config.Options) error {
	g, _ := errgroup.WithContext(ctx)
	if excelPath != "" {
		g.Go(func() error { return WriteExcel(excelPath, b, opts) })
	}
	if pdfPath != "" {
		g.Go(func() error { return WritePDF(pdfPath, b, opts) })
	}
	return g.Wait()
}

// summaryRows flattens the summary into metric/value pairs shared by
// both exporters.
func summaryRows(s analytics.Summary) [][2]string {
	return [][2]string{
		{"Total components", fmt.Sprintf("%d", s.TotalComponents)},
		{"Unique parts", fmt.Sprintf("%d", s.UniqueParts)},
		{"Unique aircraft", fmt.Sprintf("%d", s.UniqueAircraft)},
		{"Overdue components", fmt.Sprintf("%d", s.OverdueComponents)},
		{"Due soon", fmt.Sprintf("%d", s.DueSoonComponents)},
		{"Rows with invalid dates", fmt.Sprintf("%d", s.InvalidDates)},
		{"Min days until due", formatStat(s.MinDaysToDue)},
		{"Max days until due", formatStat(s.MaxDaysToDue)},
		{"Mean days until due", formatStat(s.MeanDaysToDue)},
		{"Mean days overdue", formatStat(s.MeanDaysOverdue)},
		{"Report generated", s.GeneratedAt.Format("2006-01-02")},
	}
}

func formatStat(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatTrend(t *analytics.WeeklyTrend) string {
	if t == nil || t.Fit == nil {
		return "no trend available"
	}
	return fmt.Sprintf("%s (slope %.3f +/- %.3f per week)", t.Direction(), t.Fit.Slope, t.Fit.StdErr)
}
