package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vantagemro/hardtime/internal/dataset"
)

func dueComponent(t *testing.T, date string) dataset.Component {
	t.Helper()
	due, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return dataset.Component{DueDate: due.UTC(), DateValid: true}
}

func trendSnapshot(t *testing.T, dates ...string) *dataset.Snapshot {
	t.Helper()
	snap := &dataset.Snapshot{}
	for _, d := range dates {
		snap.Components = append(snap.Components, dueComponent(t, d))
	}
	return snap
}

func TestWeeklyDueTrend_LinearFit(t *testing.T) {
	// 2024-01-01 is a Monday. One due in week 0, two in week 1, three in week 2.
	snap := trendSnapshot(t,
		"2024-01-02",
		"2024-01-08", "2024-01-10",
		"2024-01-15", "2024-01-16", "2024-01-21",
	)
	trend := WeeklyDueTrend(snap, testOptions())

	require.Len(t, trend.Points, 3)
	require.Equal(t, "2024-01-01", trend.Points[0].WeekStart.Format("2006-01-02"))
	require.Equal(t, "2024-01-08", trend.Points[1].WeekStart.Format("2006-01-02"))
	require.Equal(t, "2024-01-15", trend.Points[2].WeekStart.Format("2006-01-02"))
	require.Equal(t, []int{1, 2, 3}, []int{trend.Points[0].Count, trend.Points[1].Count, trend.Points[2].Count})

	require.NotNil(t, trend.Fit)
	require.InDelta(t, 1.0, trend.Fit.Slope, 1e-9)
	require.InDelta(t, 1.0, trend.Fit.Intercept, 1e-9)
	require.InDelta(t, 0.0, trend.Fit.StdErr, 1e-9, "perfect fit has zero slope error")
	require.Equal(t, "increasing", trend.Direction())
}

func TestWeeklyDueTrend_Deterministic(t *testing.T) {
	snap := trendSnapshot(t, "2024-01-02", "2024-01-08", "2024-01-16", "2024-01-16")
	a := WeeklyDueTrend(snap, testOptions())
	b := WeeklyDueTrend(snap, testOptions())
	require.Equal(t, a.Points, b.Points)
	require.Equal(t, a.Fit, b.Fit)
}

func TestWeeklyDueTrend_ZeroFillsInteriorWeeks(t *testing.T) {
	snap := trendSnapshot(t, "2024-01-02", "2024-01-16")
	trend := WeeklyDueTrend(snap, testOptions())
	require.Len(t, trend.Points, 3)
	require.Equal(t, 0, trend.Points[1].Count, "empty interior week counted as zero")
}

func TestWeeklyDueTrend_InsufficientData(t *testing.T) {
	single := trendSnapshot(t, "2024-01-02", "2024-01-03")
	trend := WeeklyDueTrend(single, testOptions())
	require.Len(t, trend.Points, 1)
	require.Nil(t, trend.Fit, "fewer than two distinct weeks yields a null trend")
	require.Equal(t, "none", trend.Direction())

	empty := WeeklyDueTrend(&dataset.Snapshot{}, testOptions())
	require.Empty(t, empty.Points)
	require.Nil(t, empty.Fit)

	invalidOnly := &dataset.Snapshot{Components: []dataset.Component{{DateValid: false}}}
	trend = WeeklyDueTrend(invalidOnly, testOptions())
	require.Nil(t, trend.Fit)
}

func TestWeeklyDueTrend_WeekStartConvention(t *testing.T) {
	opts := testOptions()
	opts.WeekStart = "Sunday"
	// 2024-01-02 is a Tuesday; its Sunday-start week opens 2023-12-31.
	snap := trendSnapshot(t, "2024-01-02", "2024-01-09")
	trend := WeeklyDueTrend(snap, opts)
	require.Equal(t, "2023-12-31", trend.Points[0].WeekStart.Format("2006-01-02"))
}
