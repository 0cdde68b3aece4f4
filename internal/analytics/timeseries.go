package analytics

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/vantagemro/hardtime/config"
	"github.com/vantagemro/hardtime/internal/dataset"
)

// TrendPoint is one weekly bucket of due-date volume.
type TrendPoint struct {
	WeekStart time.Time `json:"week_start"`
	Count     int       `json:"count"`
}

// TrendFit is the ordinary-least-squares line over (week index, count).
type TrendFit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	StdErr    float64 `json:"std_err"`
}

// WeeklyTrend carries the resampled series and the fitted trend. Fit is
// nil when fewer than two distinct weeks exist; that condition surfaces
// as "no trend available", not as an error.
type WeeklyTrend struct {
	Points []TrendPoint `json:"points"`
	Fit    *TrendFit    `json:"fit,omitempty"`
}

// Direction reports the trend sign: "increasing", "decreasing", "flat",
// or "none" when no fit is available.
func (w *WeeklyTrend) Direction() string {
	if w == nil || w.Fit == nil {
		return "none"
	}
	switch {
	case w.Fit.Slope > 0:
		return "increasing"
	case w.Fit.Slope < 0:
		return "decreasing"
	default:
		return "flat"
	}
}

// Predicted evaluates the fitted line at a week index.
func (w *WeeklyTrend) Predicted(weekIndex int) float64 {
	if w == nil || w.Fit == nil {
		return math.NaN()
	}
	return w.Fit.Intercept + w.Fit.Slope*float64(weekIndex)
}

// WeeklyDueTrend resamples valid due dates into weekly buckets (week
// boundary per opts.WeekStart) and fits an OLS line over week index vs
// count. Interior weeks with no due dates count as zero, matching a
// calendar resample. Deterministic for a fixed snapshot.
func WeeklyDueTrend(snap *dataset.Snapshot, opts config.Options) *WeeklyTrend {
	trend := &WeeklyTrend{}
	if snap == nil || snap.Len() == 0 {
		return trend
	}

	weekday := opts.WeekStartDay()
	buckets := make(map[time.Time]int)
	for i := range snap.Components {
		c := &snap.Components[i]
		if !c.DateValid {
			continue
		}
		buckets[weekStartOf(c.DueDate, weekday)]++
	}
	if len(buckets) == 0 {
		return trend
	}

	weeks := make([]time.Time, 0, len(buckets))
	for w := range buckets {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	// Zero-fill between the first and last observed weeks.
	for w := weeks[0]; !w.After(weeks[len(weeks)-1]); w = w.AddDate(0, 0, 7) {
		trend.Points = append(trend.Points, TrendPoint{WeekStart: w, Count: buckets[w]})
	}

	if len(buckets) < 2 {
		// A single distinct week cannot anchor a line.
		return trend
	}

	xs := make([]float64, len(trend.Points))
	ys := make([]float64, len(trend.Points))
	for i, p := range trend.Points {
		xs[i] = float64(i)
		ys[i] = float64(p.Count)
	}
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	trend.Fit = &TrendFit{
		Slope:     slope,
		Intercept: intercept,
		StdErr:    slopeStdErr(xs, ys, intercept, slope),
	}
	return trend
}

// weekStartOf truncates a date to the start of its configured week.
func weekStartOf(t time.Time, start time.Weekday) time.Time {
	d := dateOnly(t)
	offset := (int(d.Weekday()) - int(start) + 7) % 7
	return d.AddDate(0, 0, -offset)
}

// slopeStdErr computes the standard error of the fitted slope. With
// fewer than three points the n-2 denominator degenerates; report 0.
func slopeStdErr(xs, ys []float64, intercept, slope float64) float64 {
	n := len(xs)
	if n <= 2 {
		return 0
	}
	var sse, sxx float64
	meanX := stat.Mean(xs, nil)
	for i := range xs {
		resid := ys[i] - (intercept + slope*xs[i])
		sse += resid * resid
		dx := xs[i] - meanX
		sxx += dx * dx
	}
	if sxx == 0 {
		return 0
	}
	return math.Sqrt(sse / float64(n-2) / sxx)
}
