package registry

import (
	"sort"
	"sync"

	"github.com/formwright/formengine/internal/domain/form"
	"github.com/formwright/formengine/internal/ports"
)

// ComponentStore implements ports.ComponentRegistry, one renderer per block
// variant, grounded on the same teacher plugin.Registry idiom as FunctionStore.
type ComponentStore struct {
	mu         sync.RWMutex
	renderers  map[string]ports.ComponentRenderer
}

func NewComponentStore() *ComponentStore {
	return &ComponentStore{renderers: make(map[string]ports.ComponentRenderer)}
}

func (s *ComponentStore) Register(variant string, renderer ports.ComponentRenderer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.renderers[variant]; exists {
		return form.NewDomainError(form.ErrCodeConflict, "component renderer already registered", nil, map[string]interface{}{"variant": variant})
	}
	s.renderers[variant] = renderer
	return nil
}

func (s *ComponentStore) Get(variant string) (ports.ComponentRenderer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	renderer, ok := s.renderers[variant]
	if !ok {
		return nil, form.NewDomainError(form.ErrCodeNotFound, "component renderer not registered", nil, map[string]interface{}{"variant": variant})
	}
	return renderer, nil
}

// Variants lists every registered block variant, sorted for deterministic
// inspection output.
func (s *ComponentStore) Variants() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.renderers))
	for v := range s.renderers {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

var _ ports.ComponentRegistry = (*ComponentStore)(nil)
