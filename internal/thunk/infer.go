package thunk

import (
	"github.com/formwright/formengine/internal/graph"
	"github.com/formwright/formengine/internal/registry"
)

// InferAsync computes, for every node, whether its evaluation must go
// through the async path (spec §4.5). The inference runs in two passes:
//
//  1. Intrinsic classification: a node is async if its registered handler
//     does not implement SyncCapableHandler (it necessarily touches an
//     external collaborator — AnswerStore, FunctionRegistry, HTTP render).
//  2. Topological propagation: walking nodes in dependency order (producers
//     before consumers, guaranteed by a DAG), a node inherits async if any of
//     its dependencies, over every edge type including STRUCTURAL, were
//     marked async in pass one or this pass.
//
// The result maps every node in the graph's order to isAsync; a node that is
// missing from the node registry or has no registered handler maps to true.
func InferAsync(g *graph.Graph, nodes *registry.NodeRegistry, handlers *registry.ThunkHandlerRegistry) (map[string]bool, error) {
	order, err := g.Order()
	if err != nil {
		return nil, err
	}

	isAsync := make(map[string]bool, len(order))

	// Pass 1: intrinsic classification.
	for _, id := range order {
		n, ok := nodes.Get(id)
		if !ok {
			isAsync[id] = true
			continue
		}
		h, ok := handlers.Get(n.Subkind)
		if !ok {
			isAsync[id] = true
			continue
		}
		if _, syncCapable := h.(SyncCapableHandler); !syncCapable {
			isAsync[id] = true
		}
	}

	// Pass 2: topological propagation. Iterating in dependency order means a
	// dependency's final isAsync value is already settled before its
	// dependents are visited.
	for _, id := range order {
		if isAsync[id] {
			continue
		}
		for _, dep := range g.Dependencies(id) {
			if isAsync[dep] {
				isAsync[id] = true
				break
			}
		}
	}

	return isAsync, nil
}
