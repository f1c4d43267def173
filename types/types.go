package types

import "github.com/intakekit/intake/form"

// Mode is the global strategy hint for a session.
type Mode string

const (
	ModeFast    Mode = "fast"
	ModeQuality Mode = "quality"
	ModeHybrid  Mode = "hybrid"
)

// Valid reports whether m is a recognized mode.
func (m Mode) Valid() bool {
	return m == ModeFast || m == ModeQuality || m == ModeHybrid
}

// Strategy identifies which implementation of a capability handled a step.
type Strategy string

const (
	StrategyFast    Strategy = "fast"
	StrategyQuality Strategy = "quality"
)

// Step enumerates the states of the session machine.
type Step string

const (
	StepAsk      Step = "ask"
	StepProcess  Step = "process"
	StepValidate Step = "validate"
	StepClarify  Step = "clarify"
	StepAnnotate Step = "annotate"
	StepAdvance  Step = "advance"
	StepOutput   Step = "output"
)

// Speaker tags transcript messages.
type Speaker string

const (
	SpeakerAssistant Speaker = "assistant"
	SpeakerUser      Speaker = "user"
)

// Message is one speaker-tagged entry in the session transcript.
type Message struct {
	Speaker Speaker `json:"speaker"`
	Content string  `json:"content"`
}

// Collected is the extraction result for one field. Value is typed per the
// field type (string, float64 or bool) and nil when extraction failed.
type Collected struct {
	Value      any      `json:"value"`
	RawInput   string   `json:"raw_input"`
	Confidence float64  `json:"confidence"`
	Method     Strategy `json:"extraction_method"`
	Notes      []string `json:"notes,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Empty reports whether no value was extracted.
func (c *Collected) Empty() bool {
	if c == nil || c.Value == nil {
		return true
	}
	s, ok := c.Value.(string)
	return ok && s == ""
}

// ValidationResult is the verdict of the Validate step.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// CollectedEntry pairs a field id with its result, preserving visit order.
type CollectedEntry struct {
	FieldID string     `json:"field_id"`
	Result  *Collected `json:"result"`
}

// TurnRequest is the shared context handed to every strategy call: the field
// being worked on, the latest exchange, and everything gathered so far.
type TurnRequest struct {
	Field     *form.Field
	Question  string
	RawInput  string
	Attempt   int
	MaxTries  int
	Errors    []string
	Collected []CollectedEntry
}
