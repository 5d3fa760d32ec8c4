package registry

import (
	"fmt"
	"sync"

	"github.com/formwright/formengine/internal/ast"
)

// ThunkHandler is implemented once per node subkind; handlers.RegisterAll in
// internal/thunk/handlers registers the built-in handlers here so the
// compiler and evaluator can look one up by subkind without a type switch.
type ThunkHandler interface {
	Subkind() ast.Subkind
}

// ThunkHandlerRegistry maps a node subkind to its handler. Populated once at
// process startup by an explicit handlers.RegisterAll call, then read
// concurrently by every compilation and evaluation.
type ThunkHandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[ast.Subkind]ThunkHandler
}

func NewThunkHandlerRegistry() *ThunkHandlerRegistry {
	return &ThunkHandlerRegistry{handlers: make(map[ast.Subkind]ThunkHandler)}
}

// Register adds a handler, erroring if one is already bound to the subkind.
func (r *ThunkHandlerRegistry) Register(h ThunkHandler) error {
	if h == nil {
		return fmt.Errorf("thunk registry: cannot register nil handler")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sub := h.Subkind()
	if _, exists := r.handlers[sub]; exists {
		return fmt.Errorf("thunk registry: handler for subkind %s already registered", sub)
	}
	r.handlers[sub] = h
	return nil
}

func (r *ThunkHandlerRegistry) Get(sub ast.Subkind) (ThunkHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[sub]
	return h, ok
}
