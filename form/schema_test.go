package form

import "testing"

func TestSchemaValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		schema  *Schema
		wantErr bool
	}{
		{
			name: "valid schema",
			schema: &Schema{ID: "f", Fields: []*Field{
				{ID: "a", Type: TypeText, Label: "A"},
				{ID: "b", Type: TypeNumber, Label: "B"},
			}},
		},
		{
			name:    "no fields",
			schema:  &Schema{ID: "f"},
			wantErr: true,
		},
		{
			name: "duplicate id",
			schema: &Schema{ID: "f", Fields: []*Field{
				{ID: "a", Type: TypeText},
				{ID: "a", Type: TypeText},
			}},
			wantErr: true,
		},
		{
			name: "unknown type",
			schema: &Schema{ID: "f", Fields: []*Field{
				{ID: "a", Type: "slider"},
			}},
			wantErr: true,
		},
		{
			name: "select without options",
			schema: &Schema{ID: "f", Fields: []*Field{
				{ID: "a", Type: TypeSelect},
			}},
			wantErr: true,
		},
		{
			name: "condition on earlier field",
			schema: &Schema{ID: "f", Fields: []*Field{
				{ID: "a", Type: TypeBoolean},
				{ID: "b", Type: TypeText, Condition: &Condition{DependsOn: "a", Operator: OpEquals, Value: true}},
			}},
		},
		{
			name: "forward condition reference",
			schema: &Schema{ID: "f", Fields: []*Field{
				{ID: "a", Type: TypeText, Condition: &Condition{DependsOn: "b", Operator: OpEquals, Value: "x"}},
				{ID: "b", Type: TypeText},
			}},
			wantErr: true,
		},
		{
			name: "self condition reference",
			schema: &Schema{ID: "f", Fields: []*Field{
				{ID: "a", Type: TypeText, Condition: &Condition{DependsOn: "a", Operator: OpEquals, Value: "x"}},
			}},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.schema.Validate()
			if tc.wantErr && err == nil {
				t.Error("expected a schema error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConditionMatches(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		cond  *Condition
		value any
		ok    bool
		want  bool
	}{
		{"nil condition", nil, nil, false, true},
		{"dependency unanswered", &Condition{DependsOn: "a", Operator: OpEquals, Value: "x"}, nil, false, false},
		{"equals match", &Condition{Operator: OpEquals, Value: "x"}, "x", true, true},
		{"equals mismatch", &Condition{Operator: OpEquals, Value: "x"}, "y", true, false},
		{"equals numeric cross-type", &Condition{Operator: OpEquals, Value: 3}, 3.0, true, true},
		{"not equals", &Condition{Operator: OpNotEquals, Value: "x"}, "y", true, true},
		{"contains", &Condition{Operator: OpContains, Value: "oo"}, "foobar", true, true},
		{"greater than", &Condition{Operator: OpGreaterThan, Value: 5}, 6.0, true, true},
		{"greater than false", &Condition{Operator: OpGreaterThan, Value: 5}, 5.0, true, false},
		{"less than", &Condition{Operator: OpLessThan, Value: 5}, 4.0, true, true},
		{"in list", &Condition{Operator: OpIn, Values: []string{"a", "b"}}, "b", true, true},
		{"in list miss", &Condition{Operator: OpIn, Values: []string{"a", "b"}}, "c", true, false},
		{"unknown operator defaults to visible", &Condition{Operator: "matches_regex", Value: "x"}, "y", true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cond.Matches(tc.value, tc.ok); got != tc.want {
				t.Errorf("Matches(%v, %v) = %v, want %v", tc.value, tc.ok, got, tc.want)
			}
		})
	}
}

func TestRegistrySchemasAreValid(t *testing.T) {
	t.Parallel()
	for id := range Registry {
		schema := Lookup(id)
		if schema == nil {
			t.Fatalf("Lookup(%q) returned nil", id)
		}
		if err := schema.Validate(); err != nil {
			t.Errorf("built-in schema %q is invalid: %v", id, err)
		}
	}
	if Lookup("no_such_form") != nil {
		t.Error("Lookup of unknown id should return nil")
	}
}
