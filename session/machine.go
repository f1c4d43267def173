package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudwego/eino/components/model"

	"github.com/intakekit/intake/annotate"
	"github.com/intakekit/intake/clarify"
	"github.com/intakekit/intake/extract"
	"github.com/intakekit/intake/form"
	"github.com/intakekit/intake/policy"
	"github.com/intakekit/intake/question"
	"github.com/intakekit/intake/types"
	"github.com/intakekit/intake/validate"
	"github.com/intakekit/intake/verify"
)

// MaxAttemptsNote is appended to a field accepted because the clarification
// budget ran out.
const MaxAttemptsNote = "Accepted after max clarification attempts"

// ErrNotAwaitingInput is returned when an answer arrives while the machine
// is not at a suspension point. The session state is left untouched.
var ErrNotAwaitingInput = errors.New("session is not awaiting input")

// Capabilities bundles the fast and quality implementation of every
// strategy. Quality slots should be Failback wrappers ending in the local
// implementation; when a quality slot is nil the fast one is used, which
// keeps liveness for engines built without an oracle.
type Capabilities struct {
	FastQuestion    question.Generator
	QualityQuestion question.Generator
	FastExtract     extract.Extractor
	QualityExtract  extract.Extractor
	FastClarify     clarify.Generator
	QualityClarify  clarify.Generator
	FastAnnotate    annotate.Annotator
	QualityAnnotate annotate.Annotator
	// Verifier is the optional quality-mode second validation pass.
	Verifier verify.Checker
}

// LocalCapabilities wires every slot to the deterministic implementation.
func LocalCapabilities() Capabilities {
	return Capabilities{
		FastQuestion: question.NewLocalQuestionGenerator(),
		FastExtract:  extract.NewLocalExtractor(),
		FastClarify:  clarify.NewLocalClarifyGenerator(),
		FastAnnotate: annotate.NewLocalAnnotator(),
	}
}

// ToolCapabilities wires quality slots to oracle-backed strategies, each
// wrapped so oracle failure falls back to the deterministic result.
func ToolCapabilities(chatModel model.ToolCallingChatModel, timeout time.Duration) (Capabilities, error) {
	caps := LocalCapabilities()

	qGen, err := question.NewToolBasedQuestionGenerator(chatModel, timeout)
	if err != nil {
		return caps, fmt.Errorf("create question generator: %w", err)
	}
	caps.QualityQuestion = question.NewFailbackQuestionGenerator(qGen, caps.FastQuestion)

	ex, err := extract.NewToolBasedExtractor(chatModel, timeout)
	if err != nil {
		return caps, fmt.Errorf("create extractor: %w", err)
	}
	caps.QualityExtract = extract.NewFailbackExtractor(ex, caps.FastExtract)

	cGen, err := clarify.NewToolBasedClarifyGenerator(chatModel, timeout)
	if err != nil {
		return caps, fmt.Errorf("create clarify generator: %w", err)
	}
	caps.QualityClarify = clarify.NewFailbackClarifyGenerator(cGen, caps.FastClarify)

	an, err := annotate.NewToolBasedAnnotator(chatModel, timeout)
	if err != nil {
		return caps, fmt.Errorf("create annotator: %w", err)
	}
	caps.QualityAnnotate = annotate.NewFailbackAnnotator(an, caps.FastAnnotate)

	checker, err := verify.NewToolBasedChecker(chatModel, timeout)
	if err != nil {
		return caps, fmt.Errorf("create verifier: %w", err)
	}
	caps.Verifier = checker

	return caps, nil
}

// Options configures a Machine. Zero fields take defaults.
type Options struct {
	Policy *policy.Config
	// MaxClarificationAttempts is the clarification budget per field
	// (default 3). The attempt that reaches the budget is accepted with a
	// note instead of looping.
	MaxClarificationAttempts int
	// VerifyConfidenceThreshold gates the quality-mode verification pass:
	// it only runs below this extraction confidence (default 0.9). It is
	// deliberately independent of the policy's confidence threshold.
	VerifyConfidenceThreshold float64
}

const (
	defaultMaxClarificationAttempts  = 3
	defaultVerifyConfidenceThreshold = 0.9
)

// Machine executes session steps in the fixed order Ask, Process, Validate,
// Clarify, Annotate, Advance, Output. It holds no per-session state: the
// same Machine serves any number of concurrent sessions.
type Machine struct {
	caps            Capabilities
	policy          policy.Config
	maxAttempts     int
	verifyThreshold float64
}

func NewMachine(caps Capabilities, opts Options) *Machine {
	cfg := policy.Default()
	if opts.Policy != nil {
		cfg = *opts.Policy
	}
	maxAttempts := opts.MaxClarificationAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxClarificationAttempts
	}
	threshold := opts.VerifyConfidenceThreshold
	if threshold <= 0 {
		threshold = defaultVerifyConfidenceThreshold
	}
	return &Machine{
		caps:            caps,
		policy:          cfg,
		maxAttempts:     maxAttempts,
		verifyThreshold: threshold,
	}
}

// Turn is what one machine run hands back to the driver.
type Turn struct {
	// Question is the next message to show the user; empty once complete.
	Question string
	Complete bool
}

// Start selects the first visible field and runs Ask, leaving the state at
// the first suspension point.
func (m *Machine) Start(ctx context.Context, st *State) (*Turn, error) {
	next := m.advance(st)
	if next == "" {
		st.Complete = true
		st.CurrentFieldID = ""
		return &Turn{Complete: true}, nil
	}
	st.CurrentFieldID = next
	return m.ask(ctx, st)
}

// Resume feeds one user answer through Process, Validate and the rest of
// the step table, returning at the next suspension point or at Output.
func (m *Machine) Resume(ctx context.Context, st *State, userInput string) (*Turn, error) {
	if st.Complete || !st.AwaitingInput {
		return nil, ErrNotAwaitingInput
	}
	field := st.Schema.FieldByID(st.CurrentFieldID)
	if field == nil {
		return nil, fmt.Errorf("current field %q not in schema", st.CurrentFieldID)
	}
	st.AwaitingInput = false
	st.appendMessage(types.SpeakerUser, userInput)

	// Process
	prior := st.Result(field.ID)
	req := m.turnRequest(st, field, userInput)
	strategy := policy.Choose(types.StepProcess, field, prior, userInput, st.Mode, m.policy)
	slog.Debug("processing answer", "field", field.ID, "strategy", strategy)
	res, err := m.extractor(strategy).Extract(ctx, req)
	if err != nil || res == nil {
		// Extraction must always yield a result; a total strategy failure
		// becomes a low-confidence null result that validation rejects.
		msg := "extraction failed"
		if err != nil {
			msg = err.Error()
		}
		res = &types.Collected{
			RawInput:   userInput,
			Confidence: extract.ConfidenceFailed,
			Method:     strategy,
			Error:      msg,
		}
	}
	st.SetResult(field.ID, res)

	// Validate
	result := validate.Check(res, field)
	if result.Valid && st.Mode == types.ModeQuality {
		result = m.maybeVerify(ctx, st, field, res, result)
	}
	st.Validation = result
	slog.Debug("validated answer", "field", field.ID, "valid", result.Valid, "errors", result.Errors)

	if !result.Valid {
		attempt := st.ClarificationCount + 1
		if attempt < m.maxAttempts {
			return m.clarify(ctx, st, field, res, attempt)
		}
		// Budget exhausted: accept with a note and fall through to Annotate.
		res.Notes = append(res.Notes, MaxAttemptsNote)
		slog.Debug("accepted after max attempts", "field", field.ID, "attempts", attempt)
	}

	// Annotate
	m.annotate(ctx, st, field, res)

	// Advance
	next := m.advance(st)
	st.ClarificationCount = 0
	st.Validation = types.ValidationResult{}
	if next == "" {
		st.CurrentFieldID = ""
		st.Complete = true
		return &Turn{Complete: true}, nil
	}
	st.CurrentFieldID = next
	return m.ask(ctx, st)
}

func (m *Machine) ask(ctx context.Context, st *State) (*Turn, error) {
	field := st.Schema.FieldByID(st.CurrentFieldID)
	if field == nil {
		return nil, fmt.Errorf("current field %q not in schema", st.CurrentFieldID)
	}
	req := m.turnRequest(st, field, "")
	strategy := policy.Choose(types.StepAsk, field, st.Result(field.ID), "", st.Mode, m.policy)
	q, err := m.questioner(strategy).GenerateQuestion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate question for %q: %w", field.ID, err)
	}
	st.appendMessage(types.SpeakerAssistant, q)
	st.AwaitingInput = true
	slog.Debug("asked question", "field", field.ID, "strategy", strategy)
	return &Turn{Question: q}, nil
}

func (m *Machine) clarify(ctx context.Context, st *State, field *form.Field, res *types.Collected, attempt int) (*Turn, error) {
	req := m.turnRequest(st, field, res.RawInput)
	req.Attempt = attempt
	req.Errors = st.Validation.Errors
	strategy := policy.Choose(types.StepClarify, field, res, res.RawInput, st.Mode, m.policy)
	msg, err := m.clarifier(strategy).GenerateClarification(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate clarification for %q: %w", field.ID, err)
	}
	st.ClarificationCount = attempt
	st.appendMessage(types.SpeakerAssistant, msg)
	st.AwaitingInput = true
	slog.Debug("asked clarification", "field", field.ID, "attempt", attempt, "strategy", strategy)
	return &Turn{Question: msg}, nil
}

func (m *Machine) annotate(ctx context.Context, st *State, field *form.Field, res *types.Collected) {
	req := m.turnRequest(st, field, res.RawInput)
	strategy := policy.Choose(types.StepAnnotate, field, res, res.RawInput, st.Mode, m.policy)
	notes, err := m.annotator(strategy).Annotate(ctx, req)
	if err != nil {
		slog.Warn("annotation failed, keeping result without notes", "field", field.ID, "error", err)
		return
	}
	res.Notes = append(res.Notes, notes...)
}

// maybeVerify runs the oracle verification pass over a rule-valid value
// with low extraction confidence. Oracle failure keeps the rule verdict.
func (m *Machine) maybeVerify(ctx context.Context, st *State, field *form.Field, res *types.Collected, rule types.ValidationResult) types.ValidationResult {
	if m.caps.Verifier == nil || res.Confidence >= m.verifyThreshold {
		return rule
	}
	req := m.turnRequest(st, field, res.RawInput)
	verdict, err := m.caps.Verifier.Verify(ctx, req)
	if err != nil {
		slog.Warn("verification pass failed, keeping rule verdict", "field", field.ID, "error", err)
		return rule
	}
	if !verdict.Valid || verdict.NeedsClarification {
		reason := verdict.Reason
		if reason == "" {
			reason = "Please clarify your response"
		}
		return types.ValidationResult{Valid: false, Errors: []string{reason}}
	}
	return rule
}

// advance scans the schema past the current field and returns the id of the
// first field whose display condition holds, or "" when none remain.
func (m *Machine) advance(st *State) string {
	start := 0
	if st.CurrentFieldID != "" {
		start = st.Schema.FieldIndex(st.CurrentFieldID) + 1
	}
	for _, f := range st.Schema.Fields[start:] {
		if st.fieldVisible(f) {
			return f.ID
		}
	}
	return ""
}

func (m *Machine) turnRequest(st *State, field *form.Field, rawInput string) *types.TurnRequest {
	return &types.TurnRequest{
		Field:     field,
		Question:  st.LastQuestion(),
		RawInput:  rawInput,
		MaxTries:  m.maxAttempts,
		Collected: st.Collected,
	}
}

func (m *Machine) questioner(s types.Strategy) question.Generator {
	if s == types.StrategyQuality && m.caps.QualityQuestion != nil {
		return m.caps.QualityQuestion
	}
	return m.caps.FastQuestion
}

func (m *Machine) extractor(s types.Strategy) extract.Extractor {
	if s == types.StrategyQuality && m.caps.QualityExtract != nil {
		return m.caps.QualityExtract
	}
	return m.caps.FastExtract
}

func (m *Machine) clarifier(s types.Strategy) clarify.Generator {
	if s == types.StrategyQuality && m.caps.QualityClarify != nil {
		return m.caps.QualityClarify
	}
	return m.caps.FastClarify
}

func (m *Machine) annotator(s types.Strategy) annotate.Annotator {
	if s == types.StrategyQuality && m.caps.QualityAnnotate != nil {
		return m.caps.QualityAnnotate
	}
	return m.caps.FastAnnotate
}
