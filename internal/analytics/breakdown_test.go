package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vantagemro/hardtime/internal/dataset"
	"github.com/vantagemro/hardtime/pkg/diag"
)

func breakdownSnapshot() *dataset.Snapshot {
	return &dataset.Snapshot{Components: []dataset.Component{
		{PartName: "Fuel Pump", Aircraft: dataset.Aircraft{Registration: "TC-JRE"}, DateValid: true, DaysToDue: -2, IsOverdue: true, DueBucket: dataset.BucketOverdue},
		{PartName: "Fuel Pump", Aircraft: dataset.Aircraft{Registration: "TC-JRE"}, DateValid: true, DaysToDue: 5, DueBucket: dataset.BucketWeek},
		{PartName: "Slide Raft", Aircraft: dataset.Aircraft{Registration: "TC-ABC"}, DateValid: true, DaysToDue: 45, DueBucket: dataset.BucketQuarter},
		{PartName: "Oxygen Bottle", DateValid: false, DueBucket: dataset.BucketUnknown},
	}}
}

func TestBreakDown_GroupsSumToTotal(t *testing.T) {
	snap := breakdownSnapshot()
	for _, dim := range []string{DimensionAircraft, DimensionPart, DimensionDueBucket} {
		b, err := BreakDown(snap, dim, testOptions())
		require.NoError(t, err)
		require.Equal(t, snap.Len(), b.Total(), "dimension %s", dim)
	}
}

func TestBreakDown_UnknownBucketAndOrdering(t *testing.T) {
	b, err := BreakDown(breakdownSnapshot(), DimensionAircraft, testOptions())
	require.NoError(t, err)
	require.Len(t, b.Groups, 3)

	// Count desc first, then ties lexical ascending.
	require.Equal(t, Group{Value: "TC-JRE", Count: 2, Overdue: 1, DueSoon: 1}, b.Groups[0])
	require.Equal(t, UnknownGroup, b.Groups[1].Value)
	require.Equal(t, "TC-ABC", b.Groups[2].Value)
}

func TestBreakDown_DueBucket(t *testing.T) {
	b, err := BreakDown(breakdownSnapshot(), DimensionDueBucket, testOptions())
	require.NoError(t, err)
	counts := map[string]int{}
	for _, g := range b.Groups {
		counts[g.Value] = g.Count
	}
	require.Equal(t, 1, counts[dataset.BucketOverdue])
	require.Equal(t, 1, counts[dataset.BucketWeek])
	require.Equal(t, 1, counts[dataset.BucketQuarter])
	require.Equal(t, 1, counts[dataset.BucketUnknown])
}

func TestBreakDown_InvalidDimension(t *testing.T) {
	_, err := BreakDown(breakdownSnapshot(), "serial", testOptions())
	require.Error(t, err)
	require.Equal(t, diag.Validation, diag.CodeOf(err))
}

func TestBreakdown_Top(t *testing.T) {
	b := Breakdown{Groups: []Group{{Value: "a", Count: 3}, {Value: "b", Count: 2}, {Value: "c", Count: 1}}}
	require.Len(t, b.Top(2), 2)
	require.Len(t, b.Top(0), 3)
	require.Len(t, b.Top(10), 3)
}
