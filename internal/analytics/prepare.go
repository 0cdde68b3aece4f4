// Package analytics implements the hard-time component pipeline core:
// preparation of the clean dataset and the summary, breakdown, profile,
// and weekly-trend computations over it. All stages are pure transforms
// over dataset structures; identical input yields identical output.
package analytics

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vantagemro/hardtime/config"
	"github.com/vantagemro/hardtime/internal/dataset"
	"github.com/vantagemro/hardtime/pkg/diag"
)

var (
	nonAlnum        = regexp.MustCompile(`[^0-9a-zA-Z]+`)
	multiUnderscore = regexp.MustCompile(`_+`)
)

// columnAliases maps canonicalized header variants observed in legacy
// exports to the stable canonical column set.
var columnAliases = map[string]string{
	"part_name":              "part_name",
	"oem_part_no":            "oem_part_number",
	"oem_part_number":        "oem_part_number",
	"serial_no_batch_no":     "serial_number",
	"serial_number":          "serial_number",
	"installed_on":           "installation_site",
	"aircraft":               "installation_site",
	"aircraft_description":   "installation_site",
	"installation_site":      "installation_site",
	"config_slot":            "config_slot",
	"config_slot_definition": "config_slot",
	"due_date":               "due_date",
	"due":                    "due_date",
	"due_dt":                 "due_date",
	"due_dt_local":           "due_date",
	"due_dt_utc":             "due_date",
	"task":                   "task_code",
	"task_code":              "task_code",
	"position":               "position",
}

// requiredColumns must survive alias resolution or preparation aborts.
var requiredColumns = []string{"part_name", "due_date"}

// dateLayouts are tried in order when coercing due-date text.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"1/2/2006",
	"1/2/06",
	"2-Jan-2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// canonicalize converts a header to a snake_case identifier.
func canonicalize(header string) string {
	clean := nonAlnum.ReplaceAllString(strings.ToLower(strings.TrimSpace(header)), "_")
	clean = multiUnderscore.ReplaceAllString(clean, "_")
	return strings.Trim(clean, "_")
}

// schema maps canonical column names to their zero-based column index.
// Duplicate canonical names are disambiguated with a numeric suffix so
// the clean column set stays unique and stable across runs.
type schema map[string]int

func buildSchema(headers []string) schema {
	s := make(schema, len(headers))
	for i, h := range headers {
		canonical := canonicalize(h)
		if canonical == "" {
			canonical = fmt.Sprintf("column_%d", i+1)
		}
		if target, ok := columnAliases[canonical]; ok {
			canonical = target
		}
		name := canonical
		for n := 2; ; n++ {
			if _, taken := s[name]; !taken {
				break
			}
			name = fmt.Sprintf("%s_%d", canonical, n)
		}
		s[name] = i
	}
	return s
}

func (s schema) missingRequired() []string {
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := s[col]; !ok {
			missing = append(missing, col)
		}
	}
	sort.Strings(missing)
	return missing
}

// Prepare transforms the raw table into a clean component snapshot.
// Row-level problems (bad dates, unparseable aircraft identifiers) are
// absorbed into per-row flags; only a missing required column is fatal.
func Prepare(table *dataset.RawTable, opts config.Options) (*dataset.Snapshot, error) {
	if table == nil || table.IsEmpty() {
		return nil, diag.New(diag.EmptyWorkbook, "")
	}

	s := buildSchema(table.Headers)
	if missing := s.missingRequired(); len(missing) > 0 {
		return nil, diag.Wrapf(diag.SchemaMissingColumn, "missing required columns: %s", strings.Join(missing, ", "))
	}

	patterns, err := compilePatterns(opts.Patterns())
	if err != nil {
		return nil, err
	}

	reference := dateOnly(opts.Reference())
	components := make([]dataset.Component, 0, table.RowCount())
	for i := 0; i < table.RowCount(); i++ {
		components = append(components, prepareRow(table, s, i, reference, patterns))
	}
	return dataset.NewSnapshot(table, reference, components), nil
}

func prepareRow(table *dataset.RawTable, s schema, row int, reference time.Time, patterns []*regexp.Regexp) dataset.Component {
	cell := func(name string) string {
		idx, ok := s[name]
		if !ok {
			return ""
		}
		return table.Cell(row, idx)
	}

	c := dataset.Component{
		PartName:         cell("part_name"),
		OEMPartNumber:    cell("oem_part_number"),
		SerialNumber:     cell("serial_number"),
		InstallationSite: cell("installation_site"),
		TaskCode:         cell("task_code"),
		Position:         cell("position"),
		ConfigSlot:       cell("config_slot"),
	}

	// Canonical columns the schema does not model explicitly are kept
	// verbatim so exports can round-trip the full record.
	for name, idx := range s {
		switch name {
		case "part_name", "oem_part_number", "serial_number", "installation_site", "task_code", "position", "config_slot", "due_date":
			continue
		}
		if v := table.Cell(row, idx); v != "" {
			if c.Extra == nil {
				c.Extra = make(map[string]string)
			}
			c.Extra[name] = v
		}
	}

	rawDue := cell("due_date")
	if due, ok := parseDate(rawDue); ok {
		c.DueDate = due
		c.DateValid = true
		c.DaysToDue = wholeDays(due.Sub(reference))
		c.IsOverdue = c.DaysToDue < 0
		if c.IsOverdue {
			c.DaysOverdue = -c.DaysToDue
		}
	} else {
		c.Warnings = append(c.Warnings, diag.DateParse)
	}
	c.DueBucket = dueBucket(c.DaysToDue, c.DateValid)

	c.Aircraft = parseAircraft(patterns, c.InstallationSite, c.ConfigSlot, c.Position)
	if !c.Aircraft.Parsed() && anyNonEmpty(c.InstallationSite, c.ConfigSlot, c.Position) {
		c.Warnings = append(c.Warnings, diag.AircraftParse)
	}
	return c
}

// parseDate coerces heterogeneous due-date text to a calendar date.
// Excel serial numbers (days since 1899-12-30) are accepted alongside
// the textual layouts; failure yields ok=false, never an error.
func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t.UTC()), true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 59 && serial < 300_000 {
		epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
		return epoch.AddDate(0, 0, int(serial)), true
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func wholeDays(d time.Duration) int {
	return int(d.Hours() / 24)
}

func dueBucket(daysToDue int, valid bool) string {
	switch {
	case !valid:
		return dataset.BucketUnknown
	case daysToDue < 0:
		return dataset.BucketOverdue
	case daysToDue <= 7:
		return dataset.BucketWeek
	case daysToDue <= 30:
		return dataset.BucketMonth
	case daysToDue <= 90:
		return dataset.BucketQuarter
	default:
		return dataset.BucketLater
	}
}

func compilePatterns(exprs []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, diag.Wrapf(diag.Validation, "aircraft pattern %q: %v", expr, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// parseAircraft runs the tolerant pattern set over the installation
// site, falling back to config slot and position. The first pattern
// producing a registration wins; no match leaves sub-fields empty.
// Each (source, pattern) attempt starts from a fresh candidate so
// partial captures never bleed between texts.
func parseAircraft(patterns []*regexp.Regexp, sources ...string) dataset.Aircraft {
	for _, text := range sources {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		for _, re := range patterns {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			var ac dataset.Aircraft
			for gi, name := range re.SubexpNames() {
				if gi == 0 || gi >= len(m) || m[gi] == "" {
					continue
				}
				switch name {
				case "reg":
					ac.Registration = m[gi]
				case "tail":
					ac.TailSuffix = m[gi]
				case "type":
					ac.Type = m[gi]
				}
			}
			if ac.Registration == "" {
				continue
			}
			// Aircraft type falls out of the "<type> - <registration>"
			// convention when no pattern group captured it.
			if ac.Type == "" {
				if idx := strings.Index(text, " - "); idx > 0 {
					ac.Type = strings.TrimSpace(text[:idx])
				}
			}
			return ac
		}
	}
	return dataset.Aircraft{}
}

func anyNonEmpty(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
