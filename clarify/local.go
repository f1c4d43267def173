package clarify

import (
	"context"
	"fmt"
	"strings"

	"github.com/intakekit/intake/types"
)

// LocalClarifyGenerator maps validation errors onto canned re-ask messages.
type LocalClarifyGenerator struct{}

func NewLocalClarifyGenerator() *LocalClarifyGenerator {
	return &LocalClarifyGenerator{}
}

func (g *LocalClarifyGenerator) GenerateClarification(ctx context.Context, req *types.TurnRequest) (string, error) {
	label := "value"
	var options []string
	if req.Field != nil {
		if req.Field.Label != "" {
			label = req.Field.Label
		}
		options = req.Field.Options
	}

	templates := []struct {
		keyword string
		message string
	}{
		{"email", "Please provide a valid email address (e.g., name@example.com)"},
		{"phone", "Please provide your phone number with area code (e.g., 555-123-4567)"},
		{"date", "Please provide a valid date (e.g., 01/15/2024 or January 15, 2024)"},
		{"required", fmt.Sprintf("The %s is required. Please provide a response.", label)},
		{"choose", fmt.Sprintf("Please choose from: %s", strings.Join(options, ", "))},
		{"number", "Please provide a numeric value"},
		{"numeric", "Please provide a numeric value"},
		{"yes or no", "Please answer yes or no"},
	}

	for _, tpl := range templates {
		for _, e := range req.Errors {
			if strings.Contains(strings.ToLower(e), tpl.keyword) {
				return tpl.message, nil
			}
		}
	}
	return fmt.Sprintf("Please provide a valid %s", label), nil
}

// FailbackClarifyGenerator tries generators in order, local last.
type FailbackClarifyGenerator struct {
	generators []Generator
}

func NewFailbackClarifyGenerator(generators ...Generator) *FailbackClarifyGenerator {
	return &FailbackClarifyGenerator{generators: generators}
}

func (g *FailbackClarifyGenerator) GenerateClarification(ctx context.Context, req *types.TurnRequest) (string, error) {
	var lastErr error
	for _, gen := range g.generators {
		msg, err := gen.GenerateClarification(ctx, req)
		if err == nil {
			return msg, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("all clarify generators failed: %w", lastErr)
}
