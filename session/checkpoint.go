package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
)

// ErrSessionNotFound is returned by Load for unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// CheckpointStore persists session state between suspension points. Save
// must capture full fidelity of the state, including transcript ordering
// and collected-field insertion order.
type CheckpointStore interface {
	Save(ctx context.Context, sessionID string, st *State) error
	Load(ctx context.Context, sessionID string) (*State, error)
	Delete(ctx context.Context, sessionID string) error
}

// MemoryCheckpointStore keeps serialized checkpoints in process memory.
// It stores marshalled bytes rather than pointers so every Load exercises
// the same round-trip a durable store would.
type MemoryCheckpointStore struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewMemoryCheckpointStore() *MemoryCheckpointStore {
	return &MemoryCheckpointStore{states: make(map[string][]byte)}
}

func (m *MemoryCheckpointStore) Save(ctx context.Context, sessionID string, st *State) error {
	data, err := sonic.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	m.mu.Lock()
	m.states[sessionID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryCheckpointStore) Load(ctx context.Context, sessionID string) (*State, error) {
	m.mu.RLock()
	data, ok := m.states[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	var st State
	if err := sonic.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	return &st, nil
}

func (m *MemoryCheckpointStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.states, sessionID)
	m.mu.Unlock()
	return nil
}

var _ CheckpointStore = (*MemoryCheckpointStore)(nil)
