package annotate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/intakekit/intake/types"
)

var (
	uncertaintyPatterns = []struct {
		re   *regexp.Regexp
		note string
	}{
		{regexp.MustCompile(`\bi think\b`), "Response contains uncertainty"},
		{regexp.MustCompile(`\bmaybe\b`), "Response contains uncertainty"},
		{regexp.MustCompile(`\bapprox`), "Approximate value provided"},
		{regexp.MustCompile(`\baround\b`), "Approximate value provided"},
		{regexp.MustCompile(`\bnot sure\b`), "Respondent expressed uncertainty"},
	}
	conditionalPattern   = regexp.MustCompile(`\b(if|unless|depending|when)\b`)
	timeSensitivePattern = regexp.MustCompile(`\b(currently|right now|at the moment|as of)\b`)
	externalRefPattern   = regexp.MustCompile(`\b(attached|see |refer to|document)\b`)
)

// LocalAnnotator detects notable traits with fixed patterns. At most one
// uncertainty note is emitted per answer.
type LocalAnnotator struct{}

func NewLocalAnnotator() *LocalAnnotator {
	return &LocalAnnotator{}
}

func (a *LocalAnnotator) Annotate(ctx context.Context, req *types.TurnRequest) ([]string, error) {
	text := strings.ToLower(req.RawInput)

	var notes []string
	for _, p := range uncertaintyPatterns {
		if p.re.MatchString(text) {
			notes = append(notes, p.note)
			break
		}
	}
	if conditionalPattern.MatchString(text) {
		notes = append(notes, "Response contains conditional language")
	}
	if timeSensitivePattern.MatchString(text) {
		notes = append(notes, "Response may be time-sensitive")
	}
	if externalRefPattern.MatchString(text) {
		notes = append(notes, "References external document")
	}
	return notes, nil
}

// FailbackAnnotator tries annotators in order, local last.
type FailbackAnnotator struct {
	annotators []Annotator
}

func NewFailbackAnnotator(annotators ...Annotator) *FailbackAnnotator {
	return &FailbackAnnotator{annotators: annotators}
}

func (a *FailbackAnnotator) Annotate(ctx context.Context, req *types.TurnRequest) ([]string, error) {
	var lastErr error
	for _, an := range a.annotators {
		notes, err := an.Annotate(ctx, req)
		if err == nil {
			return notes, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("all annotators failed: %w", lastErr)
}
