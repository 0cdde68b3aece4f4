package analytics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/vantagemro/hardtime/config"
	"github.com/vantagemro/hardtime/internal/dataset"
)

// ColumnProfile describes the observed type and quality of one raw
// column for diagnostic display.
type ColumnProfile struct {
	Index       int      `json:"index"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	MissingPct  float64  `json:"missing_pct"`
	NumericPct  float64  `json:"numeric_pct"`
	UniqueRatio float64  `json:"unique_ratio"`
	Samples     []string `json:"samples,omitempty"`
}

// ProfileColumns inspects every column of the raw table: dominant value
// type, null rate, numeric compatibility, uniqueness, and a few sample
// values. Purely diagnostic; an empty table yields an empty slice.
func ProfileColumns(table *dataset.RawTable) []ColumnProfile {
	if table == nil || table.IsEmpty() {
		return nil
	}

	colCount := len(table.Headers)
	rows := table.RowCount()
	profiles := make([]ColumnProfile, 0, colCount)

	for col := 0; col < colCount; col++ {
		var counter typeCounter
		uniq := make(map[string]struct{})
		missing := 0
		numeric := 0
		var samples []string

		for row := 0; row < rows; row++ {
			cell := table.Cell(row, col)
			if cell == "" {
				missing++
				continue
			}
			counter.observe(cell)
			uniq[cell] = struct{}{}
			if _, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64); err == nil {
				numeric++
			}
			if len(samples) < config.DefaultProfileSampleValues {
				samples = append(samples, cell)
			}
		}

		p := ColumnProfile{
			Index:   col + 1,
			Name:    table.Headers[col],
			Type:    counter.dominantType(),
			Samples: samples,
		}
		if rows > 0 {
			p.MissingPct = round2(100 * float64(missing) / float64(rows))
			p.NumericPct = round2(100 * float64(numeric) / float64(rows))
		}
		if nonEmpty := rows - missing; nonEmpty > 0 {
			p.UniqueRatio = round3(float64(len(uniq)) / float64(nonEmpty))
		}
		profiles = append(profiles, p)
	}
	return profiles
}

// typeCounter tracks observed value categories for a column.
type typeCounter struct {
	numCount  int
	textCount int
	dateCount int
	boolCount int
}

func (t *typeCounter) observe(s string) {
	low := strings.ToLower(s)
	if low == "true" || low == "false" || low == "yes" || low == "no" {
		t.boolCount++
		return
	}
	clean := strings.ReplaceAll(s, ",", "")
	if _, err := strconv.ParseFloat(clean, 64); err == nil {
		t.numCount++
		return
	}
	if _, ok := parseDate(s); ok {
		t.dateCount++
		return
	}
	t.textCount++
}

func (t *typeCounter) dominantType() string {
	max := 0
	typeName := "unknown"
	set := []struct {
		n int
		k string
	}{
		{t.numCount, "numeric"},
		{t.dateCount, "date"},
		{t.boolCount, "boolean"},
		{t.textCount, "text"},
	}
	for _, s := range set {
		if s.n > max {
			max = s.n
			typeName = s.k
		}
	}
	counts := []int{t.numCount, t.dateCount, t.boolCount, t.textCount}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))
	if counts[0] > 0 && counts[1] > 0 && float64(counts[1]) >= 0.2*float64(counts[0]) {
		return "mixed"
	}
	return typeName
}
