// Package registry implements the ports.FunctionRegistry and
// ports.ComponentRegistry concrete stores, grounded on the teacher's
// internal/infrastructure/plugin.Registry: an in-memory map guarded by
// sync.RWMutex, duplicate registration rejected rather than silently
// overwritten, lookups returning a domain error rather than (nil, false).
package registry

import (
	"sync"

	"github.com/formwright/formengine/internal/domain/form"
	"github.com/formwright/formengine/internal/ports"
)

// FunctionStore implements ports.FunctionRegistry with four independent maps,
// one per function kind, mirroring the teacher's single plugins map keyed by
// plugin type — functions here are partitioned by kind instead since a
// condition, transformer, generator, and effect may legitimately share a name.
type FunctionStore struct {
	mu           sync.RWMutex
	conditions   map[string]ports.ConditionFunc
	transformers map[string]ports.TransformerFunc
	generators   map[string]ports.GeneratorFunc
	effects      map[string]ports.EffectFunc
}

func NewFunctionStore() *FunctionStore {
	return &FunctionStore{
		conditions:   make(map[string]ports.ConditionFunc),
		transformers: make(map[string]ports.TransformerFunc),
		generators:   make(map[string]ports.GeneratorFunc),
		effects:      make(map[string]ports.EffectFunc),
	}
}

func (s *FunctionStore) RegisterCondition(name string, fn ports.ConditionFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.conditions[name]; exists {
		return form.NewDomainError(form.ErrCodeConflict, "condition function already registered", nil, map[string]interface{}{"name": name})
	}
	s.conditions[name] = fn
	return nil
}

func (s *FunctionStore) RegisterTransformer(name string, fn ports.TransformerFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.transformers[name]; exists {
		return form.NewDomainError(form.ErrCodeConflict, "transformer function already registered", nil, map[string]interface{}{"name": name})
	}
	s.transformers[name] = fn
	return nil
}

func (s *FunctionStore) RegisterGenerator(name string, fn ports.GeneratorFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.generators[name]; exists {
		return form.NewDomainError(form.ErrCodeConflict, "generator function already registered", nil, map[string]interface{}{"name": name})
	}
	s.generators[name] = fn
	return nil
}

func (s *FunctionStore) RegisterEffect(name string, fn ports.EffectFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.effects[name]; exists {
		return form.NewDomainError(form.ErrCodeConflict, "effect function already registered", nil, map[string]interface{}{"name": name})
	}
	s.effects[name] = fn
	return nil
}

func (s *FunctionStore) GetCondition(name string) (ports.ConditionFunc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn, ok := s.conditions[name]
	if !ok {
		return nil, form.NewDomainError(form.ErrCodeNotFound, "condition function not registered", nil, map[string]interface{}{"name": name})
	}
	return fn, nil
}

func (s *FunctionStore) GetTransformer(name string) (ports.TransformerFunc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn, ok := s.transformers[name]
	if !ok {
		return nil, form.NewDomainError(form.ErrCodeNotFound, "transformer function not registered", nil, map[string]interface{}{"name": name})
	}
	return fn, nil
}

func (s *FunctionStore) GetGenerator(name string) (ports.GeneratorFunc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn, ok := s.generators[name]
	if !ok {
		return nil, form.NewDomainError(form.ErrCodeNotFound, "generator function not registered", nil, map[string]interface{}{"name": name})
	}
	return fn, nil
}

func (s *FunctionStore) GetEffect(name string) (ports.EffectFunc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn, ok := s.effects[name]
	if !ok {
		return nil, form.NewDomainError(form.ErrCodeNotFound, "effect function not registered", nil, map[string]interface{}{"name": name})
	}
	return fn, nil
}

var _ ports.FunctionRegistry = (*FunctionStore)(nil)
