// Package compile orchestrates the full pipeline from a raw JSON form
// definition to a CompiledForm ready for evaluation: transform → normalize →
// register → wire → infer async (spec §4.1-§4.5).
package compile

import (
	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/graph"
	"github.com/formwright/formengine/internal/normalize"
	"github.com/formwright/formengine/internal/register"
	"github.com/formwright/formengine/internal/registry"
	"github.com/formwright/formengine/internal/thunk"
	"github.com/formwright/formengine/internal/transform"
	"github.com/formwright/formengine/internal/wire"
)

// Result is everything downstream evaluation needs, kept together in memory.
// It is not persisted: the compiled-form cache records only summary counts,
// so a later process has to compile the document again to evaluate it.
type Result struct {
	Root     *ast.Node
	Graph    *graph.Graph
	Nodes    *registry.NodeRegistry
	Metadata *registry.MetadataRegistry
	IsAsync  map[string]bool
}

// Compile runs the whole compiler pipeline over a decoded JSON form document.
func Compile(doc map[string]interface{}, handlers *registry.ThunkHandlerRegistry) (*Result, error) {
	idGen := ast.NewIDGenerator()

	root, err := transform.Transform(doc, idGen)
	if err != nil {
		return nil, err
	}

	root, err = normalize.ResolveSelfReferences(root, idGen)
	if err != nil {
		return nil, err
	}

	reg, err := register.Register(root, idGen)
	if err != nil {
		return nil, err
	}

	g, err := wire.Wire(root, reg)
	if err != nil {
		return nil, err
	}
	if err := g.TopologicalSort(); err != nil {
		return nil, err
	}

	isAsync, err := thunk.InferAsync(g, reg.Nodes, handlers)
	if err != nil {
		return nil, err
	}

	return &Result{
		Root:     root,
		Graph:    g,
		Nodes:    reg.Nodes,
		Metadata: reg.Metadata,
		IsAsync:  isAsync,
	}, nil
}
