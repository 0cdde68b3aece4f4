package analytics

import (
	"sort"

	"github.com/vantagemro/hardtime/config"
	"github.com/vantagemro/hardtime/internal/dataset"
	"github.com/vantagemro/hardtime/pkg/diag"
)

// Breakdown dimensions accepted by BreakDown.
const (
	DimensionAircraft  = "aircraft"
	DimensionPart      = "part"
	DimensionDueBucket = "due_bucket"
)

// UnknownGroup labels rows whose dimension value is absent.
const UnknownGroup = "(unknown)"

// Group aggregates one dimension value.
type Group struct {
	Value   string `json:"value"`
	Count   int    `json:"count"`
	Overdue int    `json:"overdue"`
	DueSoon int    `json:"due_soon"`
}

// Breakdown is an ordered per-dimension aggregation. Group counts sum
// to the snapshot row count, the unknown bucket included.
type Breakdown struct {
	Dimension string  `json:"dimension"`
	Groups    []Group `json:"groups"`
}

// Top returns at most n leading groups (the full slice when n <= 0).
func (b Breakdown) Top(n int) []Group {
	if n <= 0 || n >= len(b.Groups) {
		return b.Groups
	}
	return b.Groups[:n]
}

// Total sums group counts.
func (b Breakdown) Total() int {
	total := 0
	for _, g := range b.Groups {
		total += g.Count
	}
	return total
}

// BreakDown groups the snapshot by the named dimension and aggregates
// per-group counts. Rows with an empty dimension value land in the
// explicit "(unknown)" group rather than being dropped. Output order:
// count descending, ties broken by value ascending.
func BreakDown(snap *dataset.Snapshot, dimension string, opts config.Options) (Breakdown, error) {
	keyOf, err := dimensionKey(dimension)
	if err != nil {
		return Breakdown{}, err
	}

	acc := make(map[string]*Group)
	if snap != nil {
		for i := range snap.Components {
			c := &snap.Components[i]
			key := keyOf(c)
			if key == "" {
				key = UnknownGroup
			}
			g, ok := acc[key]
			if !ok {
				g = &Group{Value: key}
				acc[key] = g
			}
			g.Count++
			if c.IsOverdue {
				g.Overdue++
			}
			if c.DateValid && c.DaysToDue >= 0 && c.DaysToDue <= opts.DueSoonDays {
				g.DueSoon++
			}
		}
	}

	groups := make([]Group, 0, len(acc))
	for _, g := range acc {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Value < groups[j].Value
	})
	return Breakdown{Dimension: dimension, Groups: groups}, nil
}

func dimensionKey(dimension string) (func(*dataset.Component) string, error) {
	switch dimension {
	case DimensionAircraft:
		return func(c *dataset.Component) string { return c.Aircraft.Registration }, nil
	case DimensionPart:
		return func(c *dataset.Component) string { return c.PartName }, nil
	case DimensionDueBucket:
		return func(c *dataset.Component) string { return c.DueBucket }, nil
	default:
		return nil, diag.Wrapf(diag.Validation, "unknown breakdown dimension %q", dimension)
	}
}
