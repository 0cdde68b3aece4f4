package analytics

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vantagemro/hardtime/config"
	"github.com/vantagemro/hardtime/internal/dataset"
)

// Summary holds headline KPIs computed once per snapshot. Statistics
// over days-to-due cover valid-date rows only and are nil when no such
// rows exist.
type Summary struct {
	TotalComponents   int `json:"total_components"`
	UniqueParts       int `json:"unique_parts"`
	UniqueAircraft    int `json:"unique_aircraft"`
	OverdueComponents int `json:"overdue_components"`
	DueSoonComponents int `json:"due_soon_components"`
	InvalidDates      int `json:"invalid_dates"`

	MinDaysToDue  *float64 `json:"min_days_to_due,omitempty"`
	MaxDaysToDue  *float64 `json:"max_days_to_due,omitempty"`
	MeanDaysToDue *float64 `json:"mean_days_to_due,omitempty"`

	MeanDaysOverdue *float64 `json:"mean_days_overdue,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Summarize computes the component summary for a snapshot. An empty
// snapshot yields zeroed counts and nil statistics, never an error.
func Summarize(snap *dataset.Snapshot, opts config.Options) Summary {
	sum := Summary{GeneratedAt: time.Now().UTC()}
	if snap == nil || snap.Len() == 0 {
		return sum
	}

	parts := make(map[string]struct{})
	aircraft := make(map[string]struct{})
	var days []float64
	var overdueDays []float64

	for i := range snap.Components {
		c := &snap.Components[i]
		sum.TotalComponents++
		if c.PartName != "" {
			parts[c.PartName] = struct{}{}
		}
		if c.Aircraft.Registration != "" {
			aircraft[c.Aircraft.Registration] = struct{}{}
		}
		if !c.DateValid {
			sum.InvalidDates++
			continue
		}
		days = append(days, float64(c.DaysToDue))
		if c.IsOverdue {
			sum.OverdueComponents++
			overdueDays = append(overdueDays, float64(c.DaysOverdue))
		}
		if c.DaysToDue >= 0 && c.DaysToDue <= opts.DueSoonDays {
			sum.DueSoonComponents++
		}
	}
	sum.UniqueParts = len(parts)
	sum.UniqueAircraft = len(aircraft)

	if len(days) > 0 {
		sum.MinDaysToDue = ptr(floats.Min(days))
		sum.MaxDaysToDue = ptr(floats.Max(days))
		sum.MeanDaysToDue = ptr(round2(stat.Mean(days, nil)))
	}
	if len(overdueDays) > 0 {
		sum.MeanDaysOverdue = ptr(round2(stat.Mean(overdueDays, nil)))
	}
	return sum
}

func ptr(v float64) *float64 { return &v }

func round2(x float64) float64 { return math.Round(x*100) / 100 }

func round3(x float64) float64 { return math.Round(x*1000) / 1000 }
