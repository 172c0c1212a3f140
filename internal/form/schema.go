// Package form implements the validation and submission workflow shared by
// every auth page: declarative schemas, a per-form controller and the
// submission status it reports.
package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Values holds raw field values keyed by field name.
type Values map[string]string

// Errors maps a field name to the message shown next to it.
type Errors map[string]string

// validate is safe for concurrent use and caches parsed tags.
var validate = validator.New()

// Rule checks one field. Check returns the error message, or "" when the
// field passes. Rules may read other fields (see Matches) but only ever
// report against Field.
type Rule struct {
	Field string
	Check func(values Values) string
}

// Schema is an ordered set of rules. For each field the first failing rule
// wins, so list the cheap presence checks before the format checks.
type Schema struct {
	rules  []Rule
	fields []string
}

// NewSchema builds a schema from rules in evaluation order.
func NewSchema(rules ...Rule) *Schema {
	s := &Schema{rules: rules}
	seen := make(map[string]bool)
	for _, r := range rules {
		if !seen[r.Field] {
			seen[r.Field] = true
			s.fields = append(s.fields, r.Field)
		}
	}
	return s
}

// Fields returns the field names the schema covers, in rule order.
func (s *Schema) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// Validate runs every rule against values. An empty result means valid.
func (s *Schema) Validate(values Values) Errors {
	errs := make(Errors)
	for _, r := range s.rules {
		if _, failed := errs[r.Field]; failed {
			continue
		}
		if msg := r.Check(values); msg != "" {
			errs[r.Field] = msg
		}
	}
	return errs
}

// ValidateField runs only the rules attached to name.
func (s *Schema) ValidateField(name string, values Values) string {
	for _, r := range s.rules {
		if r.Field != name {
			continue
		}
		if msg := r.Check(values); msg != "" {
			return msg
		}
	}
	return ""
}

// =============================================================================
// Rules
// =============================================================================

// Email requires a syntactically valid email address.
func Email(field string) Rule {
	return Rule{
		Field: field,
		Check: func(values Values) string {
			if validate.Var(values[field], "required,email") != nil {
				return MsgInvalidEmail
			}
			return ""
		},
	}
}

// MinLength requires at least n characters. label names the field in the
// message, e.g. "Password must be at least 8 characters."
func MinLength(field, label string, n int) Rule {
	tag := "min=" + strconv.Itoa(n)
	msg := fmt.Sprintf("%s must be at least %d characters.", label, n)
	return Rule{
		Field: field,
		Check: func(values Values) string {
			if validate.Var(values[field], tag) != nil {
				return msg
			}
			return ""
		},
	}
}

// Matches requires field to equal other exactly. The error is reported on
// field, never on other.
func Matches(field, other, msg string) Rule {
	return Rule{
		Field: field,
		Check: func(values Values) string {
			if validate.VarWithValue(values[field], values[other], "eqfield") != nil {
				return msg
			}
			return ""
		},
	}
}

// Required rejects blank values.
func Required(field, msg string) Rule {
	return Rule{
		Field: field,
		Check: func(values Values) string {
			if validate.Var(strings.TrimSpace(values[field]), "required") != nil {
				return msg
			}
			return ""
		},
	}
}

// Checked requires a checkbox to have been ticked.
func Checked(field, msg string) Rule {
	return Rule{
		Field: field,
		Check: func(values Values) string {
			if !IsChecked(values[field]) {
				return msg
			}
			return ""
		},
	}
}

// IsChecked reports whether a checkbox value represents a ticked box.
func IsChecked(v string) bool {
	return validate.Var(v, "required,oneof=on true 1") == nil
}
