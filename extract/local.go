package extract

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/intakekit/intake/form"
	"github.com/intakekit/intake/types"
)

var (
	emailToken  = regexp.MustCompile(`[\w.\-+]+@[\w.\-]+\.\w+`)
	numberToken = regexp.MustCompile(`-?\d+\.?\d*`)
	nonDigits   = regexp.MustCompile(`\D`)
)

var trueTokens = map[string]bool{
	"yes": true, "y": true, "yeah": true, "yep": true,
	"true": true, "1": true, "correct": true,
}

var falseTokens = map[string]bool{
	"no": true, "n": true, "nope": true,
	"false": true, "0": true, "incorrect": true,
}

// LocalExtractor is the deterministic pattern extractor.
type LocalExtractor struct{}

func NewLocalExtractor() *LocalExtractor {
	return &LocalExtractor{}
}

func (e *LocalExtractor) Extract(ctx context.Context, req *types.TurnRequest) (*types.Collected, error) {
	f := req.Field
	raw := req.RawInput
	trimmed := strings.TrimSpace(raw)

	res := &types.Collected{
		RawInput: raw,
		Method:   types.StrategyFast,
	}
	if f == nil {
		res.Value = trimmed
		res.Confidence = ConfidencePassthrough
		return res, nil
	}

	switch f.Type {
	case form.TypeEmail:
		if m := emailToken.FindString(raw); m != "" {
			res.Value = m
			res.Confidence = ConfidenceMatched
		} else {
			res.Value = trimmed
			res.Confidence = ConfidencePassthrough
		}

	case form.TypePhone:
		digits := nonDigits.ReplaceAllString(raw, "")
		switch {
		case len(digits) == 10:
			res.Value = fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
			res.Confidence = ConfidenceMatched
		case len(digits) > 10:
			res.Value = digits
			res.Confidence = ConfidenceMatched
		default:
			res.Value = trimmed
			res.Confidence = ConfidencePassthrough
		}

	case form.TypeNumber:
		m := numberToken.FindString(raw)
		if m == "" {
			res.Confidence = ConfidenceFailed
			res.Error = "no number found in response"
			return res, nil
		}
		num, err := strconv.ParseFloat(m, 64)
		if err != nil {
			res.Confidence = ConfidenceFailed
			res.Error = "no number found in response"
			return res, nil
		}
		res.Value = num
		res.Confidence = ConfidenceMatched

	case form.TypeBoolean:
		normalized := strings.ToLower(trimmed)
		switch {
		case trueTokens[normalized]:
			res.Value = true
			res.Confidence = ConfidenceMatched
		case falseTokens[normalized]:
			res.Value = false
			res.Confidence = ConfidenceMatched
		default:
			res.Confidence = ConfidenceFailed
			res.Error = "could not interpret response as yes or no"
		}

	case form.TypeSelect:
		res.Value = matchOption(trimmed, f.Options)
		if res.Value != trimmed || optionEqual(trimmed, f.Options) {
			res.Confidence = ConfidenceMatched
		} else {
			res.Confidence = ConfidencePassthrough
		}

	default: // text, address, date left for the validator / collaborators
		res.Value = trimmed
		if trimmed == "" {
			res.Confidence = ConfidencePassthrough
		} else {
			res.Confidence = ConfidenceMatched
		}
	}

	return res, nil
}

// matchOption resolves a select answer: exact case-insensitive match first,
// then substring containment either way, else the raw text passes through
// for the validator to reject.
func matchOption(text string, options []string) string {
	lower := strings.ToLower(text)
	for _, opt := range options {
		if strings.ToLower(opt) == lower {
			return opt
		}
	}
	for _, opt := range options {
		optLower := strings.ToLower(opt)
		if lower != "" && (strings.Contains(optLower, lower) || strings.Contains(lower, optLower)) {
			return opt
		}
	}
	return text
}

func optionEqual(text string, options []string) bool {
	for _, opt := range options {
		if opt == text {
			return true
		}
	}
	return false
}

// FailbackExtractor tries extractors in order. The tool extractor goes
// first, the local one last, which makes the oracle fallback mandatory.
type FailbackExtractor struct {
	extractors []Extractor
}

func NewFailbackExtractor(extractors ...Extractor) *FailbackExtractor {
	return &FailbackExtractor{extractors: extractors}
}

func (e *FailbackExtractor) Extract(ctx context.Context, req *types.TurnRequest) (*types.Collected, error) {
	var lastErr error
	for _, ex := range e.extractors {
		res, err := ex.Extract(ctx, req)
		if err == nil {
			return res, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("all extractors failed: %w", lastErr)
}
