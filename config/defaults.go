package config

// Default guardrails for the hard-time component analytics pipeline.
// These values can be overridden via environment (HARDTIME_* variables)
// or CLI flags. They are referenced by config.Options and the analytics
// stages.

const (
	// Due-date classification
	DefaultDueSoonDays = 30
	DefaultWeekStart   = "Monday"

	// Breakdown presentation
	DefaultTopN = 15

	// Chart rendering
	DefaultChartWidth  = 900
	DefaultChartHeight = 420

	// Profiling
	DefaultProfileSampleValues = 3
)

// DefaultAircraftPatterns is the tolerant pattern set applied, in order,
// to free-text aircraft identifiers. Named groups: reg (fleet prefix /
// registration), tail (tail suffix). The first matching pattern wins.
var DefaultAircraftPatterns = []string{
	// ICAO-style registration anywhere in the text, e.g. "A320 - TC-JRE".
	`\b(?P<reg>[A-Z]{2}-[A-Z0-9]{2,})\b`,
	// FAA-style fleet/tail compound, e.g. "N123AB-HTC".
	`^(?P<reg>N[0-9]{1,5}[A-Z]{0,2})-(?P<tail>[A-Z0-9]+)$`,
}
