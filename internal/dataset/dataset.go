// Package dataset defines the in-memory structures handed between
// pipeline stages: the raw worksheet table produced by the loader and
// the prepared component snapshot consumed by analytics and reporting.
package dataset

import (
	"time"

	"github.com/google/uuid"
	"github.com/vantagemro/hardtime/pkg/diag"
)

// RawTable is one worksheet read as-is: unnormalized headers and
// string-typed cells. Type coercion happens during preparation.
type RawTable struct {
	Path    string     `json:"path"`
	Sheet   string     `json:"sheet"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// RowCount returns the number of data rows (header excluded).
func (t *RawTable) RowCount() int { return len(t.Rows) }

// IsEmpty reports whether the table has no header at all.
func (t *RawTable) IsEmpty() bool { return len(t.Headers) == 0 }

// Cell returns the trimmed value at (row, column index), or "" when the
// row is ragged and does not reach that column.
func (t *RawTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Aircraft holds the structured sub-fields parsed out of a free-text
// installation-site identifier. Fields are empty when no configured
// pattern matched; the raw text stays on the Component.
type Aircraft struct {
	Registration string `json:"registration,omitempty"`
	TailSuffix   string `json:"tail_suffix,omitempty"`
	Type         string `json:"type,omitempty"`
}

// Parsed reports whether at least the registration was extracted.
func (a Aircraft) Parsed() bool { return a.Registration != "" }

// Due-bucket labels assigned during preparation.
const (
	BucketOverdue = "Overdue"
	BucketWeek    = "Due <= 7d"
	BucketMonth   = "Due <= 30d"
	BucketQuarter = "Due <= 90d"
	BucketLater   = "Due > 90d"
	BucketUnknown = "Unknown"
)

// Component is one clean record: a hard-time maintenance entry after
// normalization, date parsing, and derived-metric computation.
type Component struct {
	PartName         string `json:"part_name"`
	OEMPartNumber    string `json:"oem_part_number,omitempty"`
	SerialNumber     string `json:"serial_number,omitempty"`
	InstallationSite string `json:"installation_site,omitempty"`
	TaskCode         string `json:"task_code,omitempty"`
	Position         string `json:"position,omitempty"`
	ConfigSlot       string `json:"config_slot,omitempty"`

	DueDate   time.Time `json:"due_date"`
	DateValid bool      `json:"is_valid_date"`

	DaysToDue   int    `json:"days_to_due"`
	IsOverdue   bool   `json:"is_overdue"`
	DaysOverdue int    `json:"days_overdue"`
	DueBucket   string `json:"due_bucket"`

	Aircraft Aircraft `json:"aircraft"`

	// Extra keeps canonical columns the schema does not model explicitly.
	Extra map[string]string `json:"extra,omitempty"`

	// Warnings carries row-level data-quality codes (DATE_PARSE, AIRCRAFT_PARSE).
	Warnings []diag.Code `json:"warnings,omitempty"`
}

// HasWarning reports whether the row carries the given quality flag.
func (c *Component) HasWarning(code diag.Code) bool {
	for _, w := range c.Warnings {
		if w == code {
			return true
		}
	}
	return false
}

// Snapshot is the immutable clean dataset for one run. Everything
// downstream (summaries, breakdowns, trend, exports) reads from it and
// never mutates it.
type Snapshot struct {
	ID          string      `json:"id"`
	SourcePath  string      `json:"source_path"`
	SourceSheet string      `json:"source_sheet"`
	Reference   time.Time   `json:"reference_date"`
	PreparedAt  time.Time   `json:"prepared_at"`
	Components  []Component `json:"components"`
}

// NewSnapshot stamps a fresh snapshot with a unique ID.
func NewSnapshot(src *RawTable, reference time.Time, components []Component) *Snapshot {
	snap := &Snapshot{
		ID:         uuid.NewString(),
		Reference:  reference,
		PreparedAt: time.Now().UTC(),
		Components: components,
	}
	if src != nil {
		snap.SourcePath = src.Path
		snap.SourceSheet = src.Sheet
	}
	return snap
}

// Len returns the number of clean records.
func (s *Snapshot) Len() int { return len(s.Components) }

// WarningCounts tallies row-level quality flags across the snapshot.
func (s *Snapshot) WarningCounts() map[diag.Code]int {
	counts := make(map[diag.Code]int)
	for i := range s.Components {
		for _, w := range s.Components[i].Warnings {
			counts[w]++
		}
	}
	return counts
}
