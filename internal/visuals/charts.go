// Package visuals renders the pipeline outputs as PNG charts for
// embedding into the exported reports. It consumes the computed
// structures read-only and is not part of the analytics core.
package visuals

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/vantagemro/hardtime/config"
	"github.com/vantagemro/hardtime/internal/analytics"
	"github.com/vantagemro/hardtime/internal/dataset"
)

// ChartSet bundles the rendered PNGs for one run.
type ChartSet struct {
	DueBuckets []byte
	Aircraft   []byte
	Parts      []byte
	Trend      []byte
	Histogram  []byte
}

// RenderAll produces the full chart set. Empty inputs yield placeholder
// charts rather than errors so reports always carry a visual section.
func RenderAll(snap *dataset.Snapshot, aircraft, parts, buckets analytics.Breakdown, trend *analytics.WeeklyTrend, opts config.Options) (ChartSet, error) {
	var set ChartSet
	var err error

	if set.DueBuckets, err = DueBucketPie(buckets, opts); err != nil {
		return set, err
	}
	if set.Aircraft, err = BreakdownBar("Component exposure by aircraft", aircraft, opts); err != nil {
		return set, err
	}
	if set.Parts, err = BreakdownBar("Top components by count", parts, opts); err != nil {
		return set, err
	}
	if set.Trend, err = WeeklyTrendLine(trend, opts); err != nil {
		return set, err
	}
	if set.Histogram, err = DaysHistogram(snap, opts); err != nil {
		return set, err
	}
	return set, nil
}

// DueBucketPie renders the due-status distribution.
func DueBucketPie(buckets analytics.Breakdown, opts config.Options) ([]byte, error) {
	values := make([]chart.Value, 0, len(buckets.Groups))
	total := 0
	for _, g := range buckets.Groups {
		if g.Count > 0 {
			values = append(values, chart.Value{Label: g.Value, Value: float64(g.Count)})
			total += g.Count
		}
	}
	if total == 0 {
		return placeholder("Due status distribution", opts)
	}
	pie := chart.PieChart{
		Title:  "Due status distribution",
		Width:  opts.ChartWidth,
		Height: opts.ChartHeight,
		Values: values,
	}
	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BreakdownBar renders the top groups of a breakdown as a bar chart.
func BreakdownBar(title string, b analytics.Breakdown, opts config.Options) ([]byte, error) {
	groups := b.Top(opts.TopN)
	if len(groups) == 0 {
		return placeholder(title, opts)
	}
	bars := make([]chart.Value, 0, len(groups))
	maxCount := 0
	for _, g := range groups {
		bars = append(bars, chart.Value{Label: g.Value, Value: float64(g.Count)})
		if g.Count > maxCount {
			maxCount = g.Count
		}
	}
	bar := chart.BarChart{
		Title:    title,
		Width:    opts.ChartWidth,
		Height:   opts.ChartHeight,
		BarWidth: 40,
		YAxis:    chart.YAxis{Range: yRange(float64(maxCount))},
		Bars:     bars,
	}
	var buf bytes.Buffer
	if err := bar.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WeeklyTrendLine renders weekly due counts with the OLS line overlaid
// when a fit exists.
func WeeklyTrendLine(trend *analytics.WeeklyTrend, opts config.Options) ([]byte, error) {
	if trend == nil || len(trend.Points) == 0 {
		return placeholder("Weekly due-volume trend", opts)
	}
	xs := make([]float64, len(trend.Points))
	ys := make([]float64, len(trend.Points))
	for i, p := range trend.Points {
		xs[i] = float64(i)
		ys[i] = float64(p.Count)
	}
	maxY := 0.0
	for _, y := range ys {
		if y > maxY {
			maxY = y
		}
	}
	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Components due",
			XValues: xs,
			YValues: ys,
		},
	}
	if trend.Fit != nil {
		fitted := make([]float64, len(xs))
		for i := range xs {
			fitted[i] = trend.Predicted(i)
			if fitted[i] > maxY {
				maxY = fitted[i]
			}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    "Trend (OLS)",
			XValues: xs,
			YValues: fitted,
			Style:   chart.Style{StrokeColor: chart.ColorRed},
		})
	}
	c := chart.Chart{
		Title:  "Weekly due-volume trend",
		Width:  opts.ChartWidth,
		Height: opts.ChartHeight,
		XAxis:  chart.XAxis{Name: "Week index"},
		YAxis:  chart.YAxis{Name: "Components due", Range: yRange(maxY)},
		Series: series,
	}
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DaysHistogram renders the distribution of days-to-due over rows with
// valid dates, bucketed into fixed-width bins.
func DaysHistogram(snap *dataset.Snapshot, opts config.Options) ([]byte, error) {
	var days []int
	if snap != nil {
		for i := range snap.Components {
			if snap.Components[i].DateValid {
				days = append(days, snap.Components[i].DaysToDue)
			}
		}
	}
	if len(days) == 0 {
		return placeholder("Distribution of days until due", opts)
	}

	min, max := days[0], days[0]
	for _, d := range days {
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	const bins = 10
	width := (max - min + bins) / bins
	if width < 1 {
		width = 1
	}
	counts := make([]int, bins)
	for _, d := range days {
		idx := (d - min) / width
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	bars := make([]chart.Value, 0, bins)
	maxBin := 0
	for i, n := range counts {
		lo := min + i*width
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%d..%d", lo, lo+width-1),
			Value: float64(n),
		})
		if n > maxBin {
			maxBin = n
		}
	}
	bar := chart.BarChart{
		Title:    "Distribution of days until due",
		Width:    opts.ChartWidth,
		Height:   opts.ChartHeight,
		BarWidth: 40,
		YAxis:    chart.YAxis{Range: yRange(float64(maxBin))},
		Bars:     bars,
	}
	var buf bytes.Buffer
	if err := bar.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// yRange pins the value axis to [0, max]. go-chart rejects a zero-span
// range, which uniform bar or series values would otherwise produce.
func yRange(max float64) chart.Range {
	if max <= 0 {
		max = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: max}
}

// placeholder renders a flat "no data" chart so consumers always get a
// valid PNG.
func placeholder(title string, opts config.Options) ([]byte, error) {
	c := chart.Chart{
		Title:  title + " (no data)",
		Width:  opts.ChartWidth,
		Height: opts.ChartHeight,
		Series: []chart.Series{
			// Non-flat values keep the renderer's y-range valid.
			chart.ContinuousSeries{XValues: []float64{0, 1}, YValues: []float64{0, 1}},
		},
	}
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
