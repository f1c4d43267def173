package form

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldType enumerates the value types a field can collect.
type FieldType string

const (
	TypeText    FieldType = "text"
	TypeEmail   FieldType = "email"
	TypePhone   FieldType = "phone"
	TypeDate    FieldType = "date"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeSelect  FieldType = "select"
	TypeAddress FieldType = "address"
)

var knownTypes = map[FieldType]bool{
	TypeText:    true,
	TypeEmail:   true,
	TypePhone:   true,
	TypeDate:    true,
	TypeNumber:  true,
	TypeBoolean: true,
	TypeSelect:  true,
	TypeAddress: true,
}

// Rules holds the optional type-specific validation constraints of a field.
// Pointer fields distinguish "unset" from zero.
type Rules struct {
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MinLength *int     `json:"min_length,omitempty"`
	MaxLength *int     `json:"max_length,omitempty"`
}

// Condition controls whether a field is shown, based on an earlier field's
// collected value. A field without a condition is always visible.
type Condition struct {
	DependsOn string   `json:"depends_on"`
	Operator  string   `json:"operator"`
	Value     any      `json:"value,omitempty"`
	Values    []string `json:"values,omitempty"`
}

// Condition operators. Anything else is treated as satisfied so a schema
// typo degrades to "field visible" instead of silently hiding a field.
const (
	OpEquals      = "equals"
	OpNotEquals   = "not_equals"
	OpContains    = "contains"
	OpGreaterThan = "greater_than"
	OpLessThan    = "less_than"
	OpIn          = "in"
)

// Matches reports whether the condition is satisfied by the dependency's
// collected value. ok is false when the dependency has not been answered.
func (c *Condition) Matches(value any, ok bool) bool {
	if c == nil {
		return true
	}
	if !ok {
		return false
	}
	switch c.Operator {
	case OpEquals:
		return looseEqual(value, c.Value)
	case OpNotEquals:
		return !looseEqual(value, c.Value)
	case OpContains:
		return strings.Contains(stringify(value), stringify(c.Value))
	case OpGreaterThan:
		a, aok := toFloat(value)
		b, bok := toFloat(c.Value)
		return aok && bok && a > b
	case OpLessThan:
		a, aok := toFloat(value)
		b, bok := toFloat(c.Value)
		return aok && bok && a < b
	case OpIn:
		got := stringify(value)
		for _, want := range c.Values {
			if got == want {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func looseEqual(a, b any) bool {
	if a == b {
		return true
	}
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}
	return stringify(a) == stringify(b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

// Field is one named, typed slot in a form schema.
type Field struct {
	ID          string     `json:"id"`
	Type        FieldType  `json:"type"`
	Label       string     `json:"label"`
	Description string     `json:"description,omitempty"`
	Required    bool       `json:"required"`
	Options     []string   `json:"options,omitempty"`
	Rules       *Rules     `json:"rules,omitempty"`
	Condition   *Condition `json:"condition,omitempty"`
}

// Schema is an ordered list of field definitions.
type Schema struct {
	ID     string   `json:"id"`
	Name   string   `json:"name,omitempty"`
	Fields []*Field `json:"fields"`
}

// SchemaError reports a malformed schema. It is fatal at session start.
type SchemaError struct {
	FieldID string
	Reason  string
}

func (e *SchemaError) Error() string {
	if e.FieldID == "" {
		return fmt.Sprintf("invalid schema: %s", e.Reason)
	}
	return fmt.Sprintf("invalid schema: field %q: %s", e.FieldID, e.Reason)
}

// Validate checks structural invariants: at least one field, unique ids,
// known types, select fields with options, and display conditions that only
// reference fields appearing earlier in the list.
func (s *Schema) Validate() error {
	if s == nil || len(s.Fields) == 0 {
		return &SchemaError{Reason: "schema has no fields"}
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.ID == "" {
			return &SchemaError{Reason: "field with empty id"}
		}
		if seen[f.ID] {
			return &SchemaError{FieldID: f.ID, Reason: "duplicate id"}
		}
		if !knownTypes[f.Type] {
			return &SchemaError{FieldID: f.ID, Reason: fmt.Sprintf("unknown type %q", f.Type)}
		}
		if f.Type == TypeSelect && len(f.Options) == 0 {
			return &SchemaError{FieldID: f.ID, Reason: "select field without options"}
		}
		if f.Condition != nil {
			dep := f.Condition.DependsOn
			if dep == "" {
				return &SchemaError{FieldID: f.ID, Reason: "condition without depends_on"}
			}
			if dep == f.ID {
				return &SchemaError{FieldID: f.ID, Reason: "condition depends on itself"}
			}
			if !seen[dep] {
				return &SchemaError{FieldID: f.ID, Reason: fmt.Sprintf("condition depends on %q which is not an earlier field", dep)}
			}
		}
		seen[f.ID] = true
	}
	return nil
}

// FieldByID returns the field with the given id, or nil.
func (s *Schema) FieldByID(id string) *Field {
	if id == "" {
		return nil
	}
	for _, f := range s.Fields {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// FieldIndex returns the position of a field id in the ordered list, -1 if absent.
func (s *Schema) FieldIndex(id string) int {
	for i, f := range s.Fields {
		if f.ID == id {
			return i
		}
	}
	return -1
}
