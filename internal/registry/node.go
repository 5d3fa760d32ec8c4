// Package registry holds the compile-time, in-memory registries populated by
// the registration traverser: every AST node by ID, the metadata stamped onto
// each node (parent/step membership/scope info), and the thunk handler for
// each node subkind. Mirrors the sync.RWMutex-guarded map idiom of the
// teacher's plugin.Registry and registry.StatusCache.
package registry

import (
	"fmt"
	"sync"

	"github.com/formwright/formengine/internal/ast"
)

// NodeRegistry indexes every node in a compiled AST by ID, including
// synthesized pseudo nodes. One instance is scoped to a single compilation.
type NodeRegistry struct {
	mu    sync.RWMutex
	nodes map[string]*ast.Node
}

func NewNodeRegistry() *NodeRegistry {
	return &NodeRegistry{nodes: make(map[string]*ast.Node)}
}

// Put registers a node, erroring if the ID is already taken (which would
// indicate an ID generator bug, not a recoverable input error).
func (r *NodeRegistry) Put(n *ast.Node) error {
	if n == nil {
		return fmt.Errorf("registry: cannot register nil node")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.nodes[n.ID]; exists {
		return fmt.Errorf("registry: node id %s already registered", n.ID)
	}
	r.nodes[n.ID] = n
	return nil
}

func (r *NodeRegistry) Get(id string) (*ast.Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[id]
	return n, ok
}

func (r *NodeRegistry) All() []*ast.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ast.Node, 0, len(r.nodes))
	for _, n := range r.nodes {
		out = append(out, n)
	}
	return out
}

func (r *NodeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}
