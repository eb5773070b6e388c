package recipe

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult holds all validation errors for a matrix.
type ValidationResult struct {
	Errors []ValidationError
}

// Valid returns true if no validation errors were found.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Error returns a combined error message from all validation errors.
func (r ValidationResult) Error() string {
	if r.Valid() {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(msgs, "; "))
}

// Validate checks a matrix for structural correctness before any case runs.
func Validate(m Matrix) ValidationResult {
	var result ValidationResult

	seen := make(map[string]bool, len(m.Cases))
	for _, c := range m.Cases {
		field := fmt.Sprintf("test-cases.%s", c.Name)

		if seen[c.Name] {
			result.Errors = append(result.Errors, ValidationError{
				Field: field, Message: "duplicate case name",
			})
		}
		seen[c.Name] = true

		if c.Command(m.Executable) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field: field + ".executable", Message: "no executable declared for case or suite",
			})
		}

		if c.Timeout < 0 {
			result.Errors = append(result.Errors, ValidationError{
				Field: field + ".timeout", Message: "must not be negative",
			})
		}

		result.Errors = append(result.Errors, validateExpectation(field+".stdout", c.Stdout)...)
		result.Errors = append(result.Errors, validateExpectation(field+".stderr", c.Stderr)...)

		for i, f := range c.Ofstreams {
			ofield := fmt.Sprintf("%s.ofstreams[%d]", field, i)
			switch f.Type {
			case TypeText, TypeBinary, TypeImage:
			default:
				result.Errors = append(result.Errors, ValidationError{
					Field: ofield + ".type", Message: fmt.Sprintf("unknown type %q", f.Type),
				})
			}
			if f.File == "" {
				result.Errors = append(result.Errors, ValidationError{
					Field: ofield + ".file", Message: "required",
				})
			}
			if f.TestFile == "" {
				result.Errors = append(result.Errors, ValidationError{
					Field: ofield + ".test-file", Message: "required",
				})
			}
			if f.Start < 0 || f.Count < -1 {
				result.Errors = append(result.Errors, ValidationError{
					Field: ofield, Message: "window out of range",
				})
			}
		}

		for i, r := range c.Resources {
			if r.Src == "" {
				result.Errors = append(result.Errors, ValidationError{
					Field: fmt.Sprintf("%s.resources[%d].src", field, i), Message: "required",
				})
			}
		}
	}

	return result
}

func validateExpectation(field string, e *Expectation) []ValidationError {
	if e == nil {
		return nil
	}
	var errs []ValidationError
	if e.Start < 0 {
		errs = append(errs, ValidationError{Field: field + ".start", Message: "must not be negative"})
	}
	if e.Count < -1 {
		errs = append(errs, ValidationError{Field: field + ".count", Message: "must be -1 or greater"})
	}
	return errs
}
