package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vantagemro/hardtime/config"
	"github.com/vantagemro/hardtime/internal/dataset"
	"github.com/vantagemro/hardtime/pkg/diag"
)

func testOptions() config.Options {
	return config.Options{
		ReferenceDate: "2024-01-10",
		DueSoonDays:   30,
		WeekStart:     "Monday",
		TopN:          15,
		ChartWidth:    400,
		ChartHeight:   300,
	}
}

func reportTable(rows [][]string) *dataset.RawTable {
	return &dataset.RawTable{
		Path:    "fixture.xls",
		Sheet:   "Report",
		Headers: []string{"Part Name", "OEM Part No.", "Installed On", "Due Date"},
		Rows:    rows,
	}
}

func TestPrepare_DerivedFields(t *testing.T) {
	table := reportTable([][]string{
		{"Fuel Pump", "FP-100", "A320 - TC-JRE", "2024-01-01"},
		{"Oxygen Bottle", "OB-200", "A320 - TC-JRE", "2024-01-05"},
		{"Slide Raft", "SR-300", "B737 - TC-ABC", "2024-02-01"},
	})

	snap, err := Prepare(table, testOptions())
	require.NoError(t, err)
	require.Equal(t, table.RowCount(), snap.Len(), "one clean record per raw row")

	wantDays := []int{-9, -5, 22}
	wantOverdue := []bool{true, true, false}
	wantBuckets := []string{dataset.BucketOverdue, dataset.BucketOverdue, dataset.BucketMonth}
	for i, c := range snap.Components {
		require.True(t, c.DateValid)
		require.Equal(t, wantDays[i], c.DaysToDue)
		require.Equal(t, wantOverdue[i], c.IsOverdue)
		require.Equal(t, c.DaysToDue < 0, c.IsOverdue)
		require.Equal(t, wantBuckets[i], c.DueBucket)
	}
	require.Equal(t, 9, snap.Components[0].DaysOverdue)
	require.Equal(t, 0, snap.Components[2].DaysOverdue)
}

func TestPrepare_Deterministic(t *testing.T) {
	table := reportTable([][]string{
		{"Fuel Pump", "FP-100", "A320 - TC-JRE", "2024-01-01"},
	})
	a, err := Prepare(table, testOptions())
	require.NoError(t, err)
	b, err := Prepare(table, testOptions())
	require.NoError(t, err)
	require.Equal(t, a.Components, b.Components)
}

func TestPrepare_MissingRequiredColumn(t *testing.T) {
	table := &dataset.RawTable{
		Headers: []string{"Part Name", "Serial No./Batch No."},
		Rows:    [][]string{{"Fuel Pump", "SN-1"}},
	}
	_, err := Prepare(table, testOptions())
	require.Error(t, err)
	require.Equal(t, diag.SchemaMissingColumn, diag.CodeOf(err))
	require.True(t, diag.IsFatal(err))
}

func TestPrepare_UnparseableDateRetained(t *testing.T) {
	table := reportTable([][]string{
		{"Fuel Pump", "FP-100", "A320 - TC-JRE", "next Tuesday"},
		{"Slide Raft", "SR-300", "B737 - TC-ABC", "2024-02-01"},
	})
	snap, err := Prepare(table, testOptions())
	require.NoError(t, err, "row-level date problems never abort the batch")
	require.Equal(t, 2, snap.Len())

	bad := snap.Components[0]
	require.False(t, bad.DateValid)
	require.True(t, bad.HasWarning(diag.DateParse))
	require.Equal(t, dataset.BucketUnknown, bad.DueBucket)
	require.True(t, snap.Components[1].DateValid)
}

func TestPrepare_DateLayoutsAndSerials(t *testing.T) {
	cases := map[string]string{
		"2024-02-01":          "2024-02-01",
		"02/01/2024":          "2024-02-01",
		"2024/02/01":          "2024-02-01",
		"1-Feb-2024":          "2024-02-01",
		"45323":               "2024-02-01", // Excel serial
		"2024-02-01 09:30:00": "2024-02-01",
	}
	for raw, want := range cases {
		got, ok := parseDate(raw)
		require.True(t, ok, "layout %q", raw)
		require.Equal(t, want, got.Format("2006-01-02"), "layout %q", raw)
	}
	_, ok := parseDate("???")
	require.False(t, ok)
}

func TestPrepare_AircraftParsing(t *testing.T) {
	table := reportTable([][]string{
		{"Fuel Pump", "FP-100", "A320 - TC-JRE", "2024-02-01"},
		{"Oxygen Bottle", "OB-200", "N123AB-HTC", "2024-02-01"},
		{"Slide Raft", "SR-300", "???", "2024-02-01"},
	})
	snap, err := Prepare(table, testOptions())
	require.NoError(t, err)

	icao := snap.Components[0]
	require.Equal(t, "TC-JRE", icao.Aircraft.Registration)
	require.Equal(t, "A320", icao.Aircraft.Type)
	require.False(t, icao.HasWarning(diag.AircraftParse))

	faa := snap.Components[1]
	require.Equal(t, "N123AB", faa.Aircraft.Registration, "fleet prefix")
	require.Equal(t, "HTC", faa.Aircraft.TailSuffix)

	malformed := snap.Components[2]
	require.Equal(t, "???", malformed.InstallationSite, "raw text retained")
	require.Empty(t, malformed.Aircraft.Registration)
	require.Empty(t, malformed.Aircraft.TailSuffix)
	require.True(t, malformed.HasWarning(diag.AircraftParse))
}

func TestPrepare_AircraftFallbackToConfigSlot(t *testing.T) {
	table := &dataset.RawTable{
		Headers: []string{"Part Name", "Due Date", "Config Slot"},
		Rows:    [][]string{{"Fuel Pump", "2024-02-01", "SLOT TC-JRE"}},
	}
	snap, err := Prepare(table, testOptions())
	require.NoError(t, err)
	require.Equal(t, "TC-JRE", snap.Components[0].Aircraft.Registration)
}

func TestPrepare_AircraftCapturesDoNotMixAcrossSources(t *testing.T) {
	opts := testOptions()
	opts.AircraftPatterns = []string{
		`^(?P<type>[A-Z][0-9]{3})$`,
		`\b(?P<reg>[A-Z]{2}-[A-Z0-9]{2,})\b`,
	}
	table := &dataset.RawTable{
		Headers: []string{"Part Name", "Due Date", "Installed On", "Config Slot"},
		Rows:    [][]string{{"Fuel Pump", "2024-02-01", "A320", "SLOT TC-JRE"}},
	}
	snap, err := Prepare(table, opts)
	require.NoError(t, err)

	ac := snap.Components[0].Aircraft
	require.Equal(t, "TC-JRE", ac.Registration)
	require.Empty(t, ac.Type, "type captured from a non-winning source is discarded")
	require.Empty(t, ac.TailSuffix)
}

func TestBuildSchema_AliasesAndUniqueness(t *testing.T) {
	s := buildSchema([]string{"Part Name", "OEM Part No.", "Due Dt (Local)", "Part Name", ""})
	require.Equal(t, 0, s["part_name"])
	require.Equal(t, 1, s["oem_part_number"])
	require.Equal(t, 2, s["due_date"])
	require.Equal(t, 3, s["part_name_2"], "duplicate headers stay unique")
	require.Equal(t, 4, s["column_5"])
	require.Empty(t, s.missingRequired())
}

func TestCanonicalize(t *testing.T) {
	require.Equal(t, "serial_no_batch_no", canonicalize("Serial No./Batch No."))
	require.Equal(t, "due_date", canonicalize("  Due   Date "))
}
