package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Code defines a canonical pipeline diagnostic code used across stages.
type Code string

const (
	// Input & schema (fatal: the run cannot proceed)
	OpenFailed          Code = "OPEN_FAILED"
	UnsupportedFormat   Code = "UNSUPPORTED_FORMAT"
	SheetNotFound       Code = "SHEET_NOT_FOUND"
	EmptyWorkbook       Code = "EMPTY_WORKBOOK"
	SchemaMissingColumn Code = "SCHEMA_MISSING_COLUMN"

	// Row-level data quality (non-fatal: absorbed into per-row flags)
	DateParse     Code = "DATE_PARSE"
	AircraftParse Code = "AIRCRAFT_PARSE"

	// Analysis (non-fatal: surfaces as "no result available")
	InsufficientData Code = "INSUFFICIENT_DATA"

	// Inputs & output
	Validation   Code = "VALIDATION"
	ExportFailed Code = "EXPORT_FAILED"
)

// Entry documents a code's standard message, severity, and next steps.
type Entry struct {
	Code      Code
	Message   string
	Fatal     bool
	NextSteps []string
}

// catalog maps canonical codes to guidance. Messages can be overridden per error.
var catalog = map[Code]Entry{
	OpenFailed:          {Code: OpenFailed, Message: "failed to open workbook", Fatal: true, NextSteps: []string{"Verify path, permissions, and format"}},
	UnsupportedFormat:   {Code: UnsupportedFormat, Message: "unsupported workbook format", Fatal: true, NextSteps: []string{"Provide a .xls, .xlsx, or .xlsm workbook"}},
	SheetNotFound:       {Code: SheetNotFound, Message: "worksheet not found", Fatal: true, NextSteps: []string{"Run with -list-sheets to inspect worksheet names"}},
	EmptyWorkbook:       {Code: EmptyWorkbook, Message: "workbook contains no data rows", Fatal: true, NextSteps: []string{"Check the export produced at least a header row"}},
	SchemaMissingColumn: {Code: SchemaMissingColumn, Message: "required column missing from report", Fatal: true, NextSteps: []string{"Compare the header row against the expected hard-time export layout"}},

	DateParse:     {Code: DateParse, Message: "due date could not be parsed", Fatal: false, NextSteps: []string{"Row retained with invalid-date flag"}},
	AircraftParse: {Code: AircraftParse, Message: "aircraft identifier did not match any known pattern", Fatal: false, NextSteps: []string{"Raw identifier retained; extend the pattern set if needed"}},

	InsufficientData: {Code: InsufficientData, Message: "not enough data for trend fitting", Fatal: false, NextSteps: []string{"At least two distinct due-date weeks are required"}},

	Validation:   {Code: Validation, Message: "invalid inputs", Fatal: true, NextSteps: []string{"Correct the flag or environment value and retry"}},
	ExportFailed: {Code: ExportFailed, Message: "failed to write report artifact", Fatal: true, NextSteps: []string{"Verify the destination path is writable"}},
}

// Lookup returns the catalog entry for a code when present.
func Lookup(code Code) (Entry, bool) {
	e, ok := catalog[code]
	return e, ok
}

// Error is a coded pipeline error carrying an optional cause.
type Error struct {
	Code  Code
	msg   string
	cause error
}

// Error renders "CODE: message" plus compact next-steps guidance so that
// callers surfacing only the string still get actionable output.
func (e *Error) Error() string {
	base := strings.TrimSpace(e.msg)
	entry, ok := catalog[e.Code]
	if !ok {
		if base == "" {
			return string(e.Code)
		}
		return fmt.Sprintf("%s: %s", string(e.Code), base)
	}
	if base == "" {
		base = entry.Message
	}
	guidance := ""
	if len(entry.NextSteps) > 0 {
		guidance = " | nextSteps: " + strings.Join(entry.NextSteps, "; ")
	}
	return fmt.Sprintf("%s: %s%s", e.Code, base, guidance)
}

// Unwrap exposes the cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// New returns a coded error with an optional message override.
func New(code Code, message string) error {
	return &Error{Code: code, msg: message}
}

// Wrap attaches a cause to a coded error, reusing the cause's text.
func Wrap(code Code, cause error) error {
	if cause == nil {
		return New(code, "")
	}
	return &Error{Code: code, msg: cause.Error(), cause: cause}
}

// Wrapf formats details and returns a coded error.
func Wrapf(code Code, format string, args ...any) error {
	return &Error{Code: code, msg: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the diagnostic code from an error chain, or "" when none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsFatal reports whether the error carries a code the catalog marks fatal.
// Unknown codes are treated as fatal so structural problems never pass silently.
func IsFatal(err error) bool {
	code := CodeOf(err)
	if code == "" {
		return err != nil
	}
	entry, ok := catalog[code]
	if !ok {
		return true
	}
	return entry.Fatal
}
