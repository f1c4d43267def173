package clarify

import (
	"context"
	"strings"
	"testing"

	"github.com/intakekit/intake/form"
	"github.com/intakekit/intake/types"
)

func TestLocalClarifyMatchesErrorToTemplate(t *testing.T) {
	t.Parallel()
	gen := NewLocalClarifyGenerator()

	cases := []struct {
		name   string
		field  *form.Field
		errors []string
		want   string
	}{
		{
			"email error",
			&form.Field{Type: form.TypeEmail, Label: "email"},
			[]string{"Please provide a valid email address"},
			"name@example.com",
		},
		{
			"required error",
			&form.Field{Type: form.TypeText, Label: "bank name"},
			[]string{"This field is required"},
			"The bank name is required",
		},
		{
			"select error",
			&form.Field{Type: form.TypeSelect, Label: "account type", Options: []string{"Checking", "Savings"}},
			[]string{"Please choose from: Checking, Savings"},
			"Please choose from: Checking, Savings",
		},
		{
			"number error",
			&form.Field{Type: form.TypeNumber, Label: "age"},
			[]string{"Please provide a numeric value"},
			"numeric value",
		},
		{
			"fallthrough",
			&form.Field{Type: form.TypeText, Label: "job title"},
			[]string{"something odd happened"},
			"Please provide a valid job title",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := gen.GenerateClarification(context.Background(), &types.TurnRequest{Field: tc.field, Errors: tc.errors})
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(got, tc.want) {
				t.Errorf("clarification %q does not contain %q", got, tc.want)
			}
		})
	}
}
