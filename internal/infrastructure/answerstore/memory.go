// Package answerstore provides an in-memory ports.AnswerStore, the default
// collaborator for local development and tests. Production deployments are
// expected to supply their own (Redis, a session table) behind the same
// interface — the engine never depends on this package directly, only on
// ports.AnswerStore.
package answerstore

import (
	"context"
	"sync"
)

// Memory implements ports.AnswerStore with a process-local map keyed by
// session ID, guarded the same way as the other in-memory stores in
// internal/infrastructure/registry.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]map[string]interface{}
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]map[string]interface{})}
}

func (m *Memory) Get(ctx context.Context, sessionID, fieldCode string) (interface{}, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, false, nil
	}
	v, ok := session[fieldCode]
	return v, ok, nil
}

func (m *Memory) Set(ctx context.Context, sessionID, fieldCode string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		session = make(map[string]interface{})
		m.sessions[sessionID] = session
	}
	session[fieldCode] = value
	return nil
}

func (m *Memory) GetAll(ctx context.Context, sessionID string) (map[string]interface{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session := m.sessions[sessionID]
	out := make(map[string]interface{}, len(session))
	for k, v := range session {
		out[k] = v
	}
	return out, nil
}
