package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v *validator.Validate

// Validator returns a singleton validator with pipeline rules registered.
func Validator() *validator.Validate {
	if v == nil {
		v = validator.New()
		// Custom: workbook path must have a supported extension
		_ = v.RegisterValidation("workbook_ext", func(fl validator.FieldLevel) bool {
			s := strings.ToLower(strings.TrimSpace(fl.Field().String()))
			if s == "" {
				return false
			}
			return strings.HasSuffix(s, ".xls") || strings.HasSuffix(s, ".xlsx") || strings.HasSuffix(s, ".xlsm")
		})
		// Custom: breakdown dimension name
		_ = v.RegisterValidation("dimension", func(fl validator.FieldLevel) bool {
			switch strings.TrimSpace(fl.Field().String()) {
			case "aircraft", "part", "due_bucket":
				return true
			}
			return false
		})
		// Custom: week-start weekday name
		_ = v.RegisterValidation("weekstart", func(fl validator.FieldLevel) bool {
			switch strings.TrimSpace(fl.Field().String()) {
			case "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday":
				return true
			}
			return false
		})
	}
	return v
}

// ValidateStruct validates a struct and returns a user-friendly message
// suitable for CLI output. Returns empty string when valid.
func ValidateStruct(s any) string {
	if err := Validator().Struct(s); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			fe := ve[0]
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				return fmt.Sprintf("%s is required", field)
			case "workbook_ext":
				return "workbook must be an Excel file (.xls, .xlsx, .xlsm)"
			case "dimension":
				return "dimension must be one of: aircraft, part, due_bucket"
			case "weekstart":
				return "week start must be a weekday name (Monday..Sunday)"
			case "datetime":
				return fmt.Sprintf("%s must use the YYYY-MM-DD format", field)
			case "min", "max", "gte", "lte":
				return fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param())
			}
			return fmt.Sprintf("invalid %s", field)
		}
		return "invalid inputs"
	}
	return ""
}
