package visuals

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vantagemro/hardtime/config"
	"github.com/vantagemro/hardtime/internal/analytics"
	"github.com/vantagemro/hardtime/internal/dataset"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func chartOptions() config.Options {
	return config.Options{DueSoonDays: 30, WeekStart: "Monday", TopN: 10, ChartWidth: 400, ChartHeight: 300}
}

func chartSnapshot() *dataset.Snapshot {
	due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	return &dataset.Snapshot{Components: []dataset.Component{
		{PartName: "Fuel Pump", DateValid: true, DueDate: due, DaysToDue: 22, DueBucket: dataset.BucketMonth},
		{PartName: "Slide Raft", DateValid: true, DueDate: due.AddDate(0, 0, 7), DaysToDue: 29, DueBucket: dataset.BucketMonth},
		{PartName: "Oxygen Bottle", DateValid: true, DueDate: due, DaysToDue: -4, IsOverdue: true, DaysOverdue: 4, DueBucket: dataset.BucketOverdue},
	}}
}

func TestRenderAll(t *testing.T) {
	opts := chartOptions()
	snap := chartSnapshot()
	aircraft, err := analytics.BreakDown(snap, analytics.DimensionAircraft, opts)
	require.NoError(t, err)
	parts, err := analytics.BreakDown(snap, analytics.DimensionPart, opts)
	require.NoError(t, err)
	buckets, err := analytics.BreakDown(snap, analytics.DimensionDueBucket, opts)
	require.NoError(t, err)
	trend := analytics.WeeklyDueTrend(snap, opts)

	set, err := RenderAll(snap, aircraft, parts, buckets, trend, opts)
	require.NoError(t, err)
	for name, data := range map[string][]byte{
		"due_buckets": set.DueBuckets,
		"aircraft":    set.Aircraft,
		"parts":       set.Parts,
		"trend":       set.Trend,
		"histogram":   set.Histogram,
	} {
		require.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a PNG", name)
	}
}

func TestBreakdownBar_FlatValues(t *testing.T) {
	opts := chartOptions()

	// Single group, e.g. every aircraft unparsed.
	single := analytics.Breakdown{Groups: []analytics.Group{{Value: "(unknown)", Count: 3}}}
	png, err := BreakdownBar("Component exposure by aircraft", single, opts)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, pngMagic))

	// Uniform counts across groups.
	uniform := analytics.Breakdown{Groups: []analytics.Group{
		{Value: "TC-ABC", Count: 1},
		{Value: "TC-JRE", Count: 1},
	}}
	png, err = BreakdownBar("Component exposure by aircraft", uniform, opts)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestDaysHistogram_UniformBins(t *testing.T) {
	// One component per day over ten days fills every bin with the same
	// count.
	snap := &dataset.Snapshot{}
	for d := 0; d < 10; d++ {
		snap.Components = append(snap.Components, dataset.Component{DateValid: true, DaysToDue: d})
	}
	png, err := DaysHistogram(snap, chartOptions())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestWeeklyTrendLine_FlatCounts(t *testing.T) {
	trend := &analytics.WeeklyTrend{
		Points: []analytics.TrendPoint{
			{WeekStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Count: 1},
			{WeekStart: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), Count: 1},
		},
		Fit: &analytics.TrendFit{Slope: 0, Intercept: 1},
	}
	png, err := WeeklyTrendLine(trend, chartOptions())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestRenderAll_EmptyInputsYieldPlaceholders(t *testing.T) {
	opts := chartOptions()
	set, err := RenderAll(&dataset.Snapshot{}, analytics.Breakdown{}, analytics.Breakdown{}, analytics.Breakdown{}, &analytics.WeeklyTrend{}, opts)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(set.DueBuckets, pngMagic))
	require.True(t, bytes.HasPrefix(set.Trend, pngMagic))
	require.True(t, bytes.HasPrefix(set.Histogram, pngMagic))
}
