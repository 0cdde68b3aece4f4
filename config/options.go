package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/vantagemro/hardtime/pkg/diag"
)

// Options is the run configuration consumed by the pipeline core.
// Values come from HARDTIME_* environment variables with CLI flags
// layered on top in main; the core receives Options explicitly so the
// stages stay pure and independently testable.
type Options struct {
	// ReferenceDate anchors days-to-due computation. Empty means "today"
	// (UTC, midnight). Accepts YYYY-MM-DD.
	ReferenceDate string `envconfig:"REFERENCE_DATE" validate:"omitempty,datetime=2006-01-02"`

	// DueSoonDays is the inclusive upper bound for the due-soon window.
	DueSoonDays int `envconfig:"DUE_SOON_DAYS" default:"30" validate:"gte=0,lte=3650"`

	// WeekStart names the weekday that opens each resampling bucket.
	WeekStart string `envconfig:"WEEK_START" default:"Monday" validate:"weekstart"`

	// TopN bounds breakdown rows shown in reports.
	TopN int `envconfig:"TOP_N" default:"15" validate:"gte=1,lte=500"`

	// AircraftPatterns overrides the tolerant identifier pattern set.
	// Empty keeps DefaultAircraftPatterns.
	AircraftPatterns []string `envconfig:"AIRCRAFT_PATTERNS"`

	ChartWidth  int `envconfig:"CHART_WIDTH" default:"900" validate:"gte=200,lte=4096"`
	ChartHeight int `envconfig:"CHART_HEIGHT" default:"420" validate:"gte=150,lte=4096"`
}

// FromEnv loads Options from the HARDTIME_* environment.
func FromEnv() (Options, error) {
	var opts Options
	if err := envconfig.Process("hardtime", &opts); err != nil {
		return opts, diag.Wrap(diag.Validation, err)
	}
	return opts, nil
}

// Reference resolves the configured reference date, defaulting to
// today's UTC date. The parse is guaranteed by validation; a malformed
// value falls back to today rather than panicking.
func (o Options) Reference() time.Time {
	if o.ReferenceDate != "" {
		if t, err := time.Parse("2006-01-02", o.ReferenceDate); err == nil {
			return t.UTC()
		}
	}
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStartDay maps the configured week-start name to a time.Weekday.
func (o Options) WeekStartDay() time.Weekday {
	switch o.WeekStart {
	case "Sunday":
		return time.Sunday
	case "Tuesday":
		return time.Tuesday
	case "Wednesday":
		return time.Wednesday
	case "Thursday":
		return time.Thursday
	case "Friday":
		return time.Friday
	case "Saturday":
		return time.Saturday
	default:
		return time.Monday
	}
}

// Patterns returns the effective aircraft-identifier pattern set.
func (o Options) Patterns() []string {
	if len(o.AircraftPatterns) > 0 {
		return o.AircraftPatterns
	}
	return DefaultAircraftPatterns
}
