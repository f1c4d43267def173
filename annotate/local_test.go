package annotate

import (
	"context"
	"testing"

	"github.com/intakekit/intake/types"
)

func TestLocalAnnotator(t *testing.T) {
	t.Parallel()
	a := NewLocalAnnotator()

	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{"clean answer", "Chase Bank", nil},
		{"uncertainty", "I think it's Chase", []string{"Response contains uncertainty"}},
		{"approximate", "around 3000 per month", []string{"Approximate value provided"}},
		{
			"single uncertainty note despite multiple cues",
			"maybe, I'm not sure really",
			[]string{"Response contains uncertainty"},
		},
		{"conditional", "yes, unless I move next year", []string{"Response contains conditional language"}},
		{"time sensitive", "currently employed at Acme", []string{"Response may be time-sensitive"}},
		{"external reference", "see the attached pay stub", []string{"References external document"}},
		{
			"multiple categories",
			"I think it varies depending on the month, see the attached document",
			[]string{
				"Response contains uncertainty",
				"Response contains conditional language",
				"References external document",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := a.Annotate(context.Background(), &types.TurnRequest{RawInput: tc.input})
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("notes = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("note[%d] = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}
