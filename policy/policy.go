// Package policy implements the per-step fast/quality decision for hybrid
// sessions. Choose is a pure function so decisions are reproducible against
// fixed inputs.
package policy

import (
	"strings"

	"github.com/intakekit/intake/form"
	"github.com/intakekit/intake/types"
)

// Config carries the thresholds used by hybrid decisions. The zero value is
// unusable; use Default and override as needed.
type Config struct {
	// ComplexTypes lists field types whose questions and extraction benefit
	// from the quality strategy when the field description is long.
	ComplexTypes []form.FieldType
	// ComplexDescriptionLength is the description length above which a
	// complex-typed field escalates to quality.
	ComplexDescriptionLength int
	// ConfidenceThreshold escalates re-extraction to quality when the prior
	// attempt's confidence fell below it.
	ConfidenceThreshold float64
	// ComplexResponseLength and ComplexResponseWords escalate annotation to
	// quality for long raw answers.
	ComplexResponseLength int
	ComplexResponseWords  int
}

// Default returns the stock thresholds.
func Default() Config {
	return Config{
		ComplexTypes:             []form.FieldType{form.TypeAddress, form.TypeText},
		ComplexDescriptionLength: 50,
		ConfidenceThreshold:      0.7,
		ComplexResponseLength:    100,
		ComplexResponseWords:     20,
	}
}

// Choose picks the strategy for one step. prior is the stored result from an
// earlier attempt at the same field, nil on the first attempt. rawInput is
// the pending user answer (used for the annotate rule). Rules are evaluated
// in order; the first match wins.
func Choose(step types.Step, f *form.Field, prior *types.Collected, rawInput string, mode types.Mode, cfg Config) types.Strategy {
	if mode != types.ModeHybrid {
		if mode == types.ModeQuality {
			return types.StrategyQuality
		}
		return types.StrategyFast
	}
	if f == nil {
		return types.StrategyFast
	}

	if step == types.StepClarify {
		return types.StrategyQuality
	}

	if step == types.StepAsk || step == types.StepProcess {
		if cfg.isComplexType(f.Type) && len(f.Description) > cfg.ComplexDescriptionLength {
			return types.StrategyQuality
		}
	}

	if step == types.StepProcess && prior != nil && prior.Confidence < cfg.ConfidenceThreshold {
		return types.StrategyQuality
	}

	if step == types.StepAnnotate {
		if len(rawInput) > cfg.ComplexResponseLength || len(strings.Fields(rawInput)) > cfg.ComplexResponseWords {
			return types.StrategyQuality
		}
	}

	return types.StrategyFast
}

func (c Config) isComplexType(t form.FieldType) bool {
	for _, ct := range c.ComplexTypes {
		if ct == t {
			return true
		}
	}
	return false
}
