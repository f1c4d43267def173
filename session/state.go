package session

import (
	"github.com/intakekit/intake/form"
	"github.com/intakekit/intake/types"
)

// State is the full session aggregate threaded through every step. It is
// what the checkpoint store persists at each suspension point, so every
// field must round-trip through JSON without loss; collected results keep
// their visit order as a slice instead of a map.
type State struct {
	Schema             *form.Schema           `json:"schema"`
	Mode               types.Mode             `json:"mode"`
	Transcript         []types.Message        `json:"transcript"`
	CurrentFieldID     string                 `json:"current_field_id,omitempty"`
	Collected          []types.CollectedEntry `json:"collected_fields"`
	Validation         types.ValidationResult `json:"validation_result"`
	ClarificationCount int                    `json:"clarification_count"`
	Complete           bool                   `json:"is_complete"`
	// AwaitingInput is true exactly at the two suspension points (after Ask
	// and after Clarify). SubmitAnswer on a session where it is false is a
	// precondition violation.
	AwaitingInput bool `json:"awaiting_input"`
}

// NewState builds the initial state for a validated schema.
func NewState(schema *form.Schema, mode types.Mode) *State {
	return &State{
		Schema: schema,
		Mode:   mode,
	}
}

// Result returns the stored result for a field id, or nil when the field
// has not been processed.
func (s *State) Result(fieldID string) *types.Collected {
	for _, e := range s.Collected {
		if e.FieldID == fieldID {
			return e.Result
		}
	}
	return nil
}

// SetResult stores a result, replacing a prior attempt in place so the
// original visit order survives re-processing.
func (s *State) SetResult(fieldID string, res *types.Collected) {
	for i, e := range s.Collected {
		if e.FieldID == fieldID {
			s.Collected[i].Result = res
			return
		}
	}
	s.Collected = append(s.Collected, types.CollectedEntry{FieldID: fieldID, Result: res})
}

func (s *State) appendMessage(speaker types.Speaker, content string) {
	s.Transcript = append(s.Transcript, types.Message{Speaker: speaker, Content: content})
}

// LastQuestion returns the most recent assistant message, if any.
func (s *State) LastQuestion() string {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if s.Transcript[i].Speaker == types.SpeakerAssistant {
			return s.Transcript[i].Content
		}
	}
	return ""
}

// fieldVisible evaluates a display condition against the results gathered
// so far. Evaluation is lazy: it runs at Advance time, never earlier.
func (s *State) fieldVisible(f *form.Field) bool {
	if f.Condition == nil {
		return true
	}
	res := s.Result(f.Condition.DependsOn)
	if res == nil {
		return f.Condition.Matches(nil, false)
	}
	return f.Condition.Matches(res.Value, true)
}
