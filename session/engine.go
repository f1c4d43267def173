package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/google/uuid"

	"github.com/intakekit/intake/form"
	"github.com/intakekit/intake/types"
)

// DefaultOracleTimeout bounds each oracle call made by tool-based engines.
const DefaultOracleTimeout = 5 * time.Second

// Engine is the driver-facing surface of the core: three operations, with
// every suspension checkpointed through the store. Transport (HTTP, CLI,
// voice) lives outside.
type Engine struct {
	machine *Machine
	store   CheckpointStore
}

// NewEngine builds an engine from explicit capabilities.
func NewEngine(store CheckpointStore, caps Capabilities, opts Options) *Engine {
	return &Engine{
		machine: NewMachine(caps, opts),
		store:   store,
	}
}

// NewLocalEngine builds an engine that never calls an oracle. Quality and
// hybrid sessions degrade to the deterministic strategies.
func NewLocalEngine(store CheckpointStore) *Engine {
	return NewEngine(store, LocalCapabilities(), Options{})
}

// NewToolBasedEngine builds an engine whose quality strategies call the
// given chat model, bounded by timeout (DefaultOracleTimeout when zero).
func NewToolBasedEngine(store CheckpointStore, chatModel model.ToolCallingChatModel, timeout time.Duration, opts Options) (*Engine, error) {
	if timeout <= 0 {
		timeout = DefaultOracleTimeout
	}
	caps, err := ToolCapabilities(chatModel, timeout)
	if err != nil {
		return nil, err
	}
	return NewEngine(store, caps, opts), nil
}

// StartResult is the outcome of StartSession.
type StartResult struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
	Complete  bool   `json:"is_complete"`
}

// TurnResult is the outcome of SubmitAnswer.
type TurnResult struct {
	Question  string                 `json:"question,omitempty"`
	Complete  bool                   `json:"is_complete"`
	Collected []types.CollectedEntry `json:"collected_fields"`
}

// StartSession validates the schema, creates the session, generates the
// first question and checkpoints the state. A malformed schema is fatal:
// no session is created.
func (e *Engine) StartSession(ctx context.Context, schema *form.Schema, mode types.Mode) (*StartResult, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if mode == "" {
		mode = types.ModeHybrid
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	st := NewState(schema, mode)
	turn, err := e.machine.Start(ctx, st)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	if err := e.store.Save(ctx, sessionID, st); err != nil {
		return nil, fmt.Errorf("checkpoint session %s: %w", sessionID, err)
	}
	slog.Info("session started", "session_id", sessionID, "form", schema.ID, "mode", mode)
	return &StartResult{SessionID: sessionID, Question: turn.Question, Complete: turn.Complete}, nil
}

// SubmitAnswer resumes a suspended session with one user message. On a
// precondition violation (unknown session, session not awaiting input) the
// stored state is left unchanged.
func (e *Engine) SubmitAnswer(ctx context.Context, sessionID, text string) (*TurnResult, error) {
	st, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	turn, err := e.machine.Resume(ctx, st, text)
	if err != nil {
		return nil, err
	}
	if err := e.store.Save(ctx, sessionID, st); err != nil {
		return nil, fmt.Errorf("checkpoint session %s: %w", sessionID, err)
	}
	if turn.Complete {
		slog.Info("session complete", "session_id", sessionID, "fields", len(st.Collected))
	}
	return &TurnResult{Question: turn.Question, Complete: turn.Complete, Collected: st.Collected}, nil
}

// GetResult returns the collected fields in visit order.
func (e *Engine) GetResult(ctx context.Context, sessionID string) ([]types.CollectedEntry, error) {
	st, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return st.Collected, nil
}

// State exposes the full persisted state of a session, mainly for drivers
// that render transcripts or completion metadata.
func (e *Engine) State(ctx context.Context, sessionID string) (*State, error) {
	return e.store.Load(ctx, sessionID)
}

// Discard removes a session's checkpoint.
func (e *Engine) Discard(ctx context.Context, sessionID string) error {
	return e.store.Delete(ctx, sessionID)
}
