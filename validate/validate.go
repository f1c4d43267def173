// Package validate holds the rule-based field validator. It is a pure
// function of (extraction result, field definition) and is independent of
// which strategy produced the value.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/intakekit/intake/form"
	"github.com/intakekit/intake/types"
)

var emailPattern = regexp.MustCompile(`^[\w.\-+]+@[\w.\-]+\.\w{2,}$`)

var nonDigits = regexp.MustCompile(`\D`)

// Check validates an extraction result against a field definition.
// The required-emptiness check runs before any type rule. An empty result
// carrying an extraction error is rejected even for optional fields: the
// user did answer, the answer just could not be understood.
func Check(res *types.Collected, f *form.Field) types.ValidationResult {
	if res.Empty() {
		if res != nil && res.Error != "" && strings.TrimSpace(res.RawInput) != "" {
			return invalid(res.Error)
		}
		if f.Required {
			return invalid("This field is required")
		}
		return valid()
	}

	var errs []string
	switch f.Type {
	case form.TypeEmail:
		if !emailPattern.MatchString(asString(res.Value)) {
			errs = append(errs, "Please provide a valid email address")
		}
	case form.TypePhone:
		digits := nonDigits.ReplaceAllString(asString(res.Value), "")
		if len(digits) < 10 {
			errs = append(errs, "Please provide a 10-digit phone number")
		}
	case form.TypeNumber:
		num, ok := res.Value.(float64)
		if !ok {
			errs = append(errs, "Please provide a numeric value")
			break
		}
		if r := f.Rules; r != nil {
			if r.Min != nil && num < *r.Min {
				errs = append(errs, fmt.Sprintf("Value must be at least %v", *r.Min))
			}
			if r.Max != nil && num > *r.Max {
				errs = append(errs, fmt.Sprintf("Value must be at most %v", *r.Max))
			}
		}
	case form.TypeBoolean:
		if _, ok := res.Value.(bool); !ok {
			errs = append(errs, "Must be yes or no")
		}
	case form.TypeSelect:
		got := asString(res.Value)
		found := false
		for _, opt := range f.Options {
			if opt == got {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, fmt.Sprintf("Please choose from: %s", strings.Join(f.Options, ", ")))
		}
	case form.TypeDate:
		if asString(res.Value) == "" {
			errs = append(errs, "Please provide a valid date")
		}
	case form.TypeAddress:
		r := form.Rules{MinLength: minLenOrDefault(f.Rules, 10)}
		if f.Rules != nil {
			r.MaxLength = f.Rules.MaxLength
		}
		errs = append(errs, checkLength(res.Value, &r)...)
	default: // text
		errs = append(errs, checkLength(res.Value, f.Rules)...)
	}

	if len(errs) > 0 {
		return types.ValidationResult{Valid: false, Errors: errs}
	}
	return valid()
}

func checkLength(value any, r *form.Rules) []string {
	s, ok := value.(string)
	if !ok {
		return []string{"Please provide text"}
	}
	if r == nil {
		return nil
	}
	var errs []string
	if r.MinLength != nil && len(s) < *r.MinLength {
		errs = append(errs, fmt.Sprintf("Text must be at least %d characters", *r.MinLength))
	}
	if r.MaxLength != nil && len(s) > *r.MaxLength {
		errs = append(errs, fmt.Sprintf("Text must be at most %d characters", *r.MaxLength))
	}
	return errs
}

func minLenOrDefault(r *form.Rules, def int) *int {
	if r != nil && r.MinLength != nil {
		return r.MinLength
	}
	return &def
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func valid() types.ValidationResult {
	return types.ValidationResult{Valid: true}
}

func invalid(msgs ...string) types.ValidationResult {
	return types.ValidationResult{Valid: false, Errors: msgs}
}
