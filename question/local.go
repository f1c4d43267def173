package question

import (
	"context"
	"fmt"
	"strings"

	"github.com/intakekit/intake/form"
	"github.com/intakekit/intake/types"
)

// LocalQuestionGenerator produces template questions with no oracle call.
type LocalQuestionGenerator struct{}

func NewLocalQuestionGenerator() *LocalQuestionGenerator {
	return &LocalQuestionGenerator{}
}

func (g *LocalQuestionGenerator) GenerateQuestion(ctx context.Context, req *types.TurnRequest) (string, error) {
	f := req.Field
	if f == nil {
		return "", fmt.Errorf("no field in request")
	}
	switch f.Type {
	case form.TypeEmail:
		return fmt.Sprintf("What is your %s? (e.g., name@example.com)", f.Label), nil
	case form.TypePhone:
		return fmt.Sprintf("What is your %s? Please include area code.", f.Label), nil
	case form.TypeDate:
		return fmt.Sprintf("What is your %s? (e.g., MM/DD/YYYY)", f.Label), nil
	case form.TypeSelect:
		return fmt.Sprintf("What is your %s?\n%s", f.Label, formatOptions(f.Options)), nil
	case form.TypeBoolean:
		return fmt.Sprintf("%s? (Yes/No)", f.Label), nil
	case form.TypeAddress:
		return fmt.Sprintf("What is your %s? Please include full address.", f.Label), nil
	default:
		return fmt.Sprintf("What is your %s?", f.Label), nil
	}
}

func formatOptions(options []string) string {
	if len(options) == 0 {
		return ""
	}
	lines := make([]string, 0, len(options))
	for _, opt := range options {
		lines = append(lines, "- "+opt)
	}
	return strings.Join(lines, "\n")
}

// FailbackQuestionGenerator tries generators in order and returns the first
// success. It is how oracle-backed generation keeps liveness: wrap the tool
// generator first and the local one last.
type FailbackQuestionGenerator struct {
	generators []Generator
}

func NewFailbackQuestionGenerator(generators ...Generator) *FailbackQuestionGenerator {
	return &FailbackQuestionGenerator{generators: generators}
}

func (g *FailbackQuestionGenerator) GenerateQuestion(ctx context.Context, req *types.TurnRequest) (string, error) {
	var lastErr error
	for _, gen := range g.generators {
		q, err := gen.GenerateQuestion(ctx, req)
		if err == nil {
			return q, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("all question generators failed: %w", lastErr)
}
