package ports

import (
	"context"

	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/domain/form"
	"github.com/formwright/formengine/internal/graph"
	"github.com/formwright/formengine/internal/registry"
)

// GraphBuilder runs the whole compile pipeline over a raw decoded form
// document — transform, self-reference normalization, registration, wiring,
// and isAsync inference (spec §4.1-§4.5) — and returns the immutable
// CompiledForm artifact.
type GraphBuilder interface {
	Build(ctx context.Context, doc map[string]interface{}) (*CompiledForm, error)
}

// CompiledForm is the immutable artifact produced by a successful compile:
// everything internal/eval needs to run a transition without touching the
// compiler packages again.
type CompiledForm struct {
	Root     *ast.Node
	Graph    *graph.Graph
	Nodes    *registry.NodeRegistry
	Metadata *registry.MetadataRegistry
	IsAsync  map[string]bool
}

// TransitionEvaluator runs one LOAD/ACCESS/ACTION/SUBMIT transition against a
// compiled form and a request snapshot. Implementations must respect context
// cancellation and translate internal failures into form.DomainError /
// pkg/thunkerr categories as appropriate.
type TransitionEvaluator interface {
	Load(ctx context.Context, compiled *CompiledForm, step *ast.Node, req *Request) (form.RenderContext, error)
	Access(ctx context.Context, compiled *CompiledForm, step *ast.Node, req *Request) (form.AccessOutcome, error)
	Action(ctx context.Context, compiled *CompiledForm, step *ast.Node, req *Request) (form.ActionOutcome, error)
	Submit(ctx context.Context, compiled *CompiledForm, step *ast.Node, req *Request) (form.SubmitOutcome, error)
}

// Request is the per-evaluation snapshot of everything external to the AST:
// the raw POST body, query/path params, and pre-loaded server data. It feeds
// the POST/QUERY/PARAMS/DATA pseudo nodes.
type Request struct {
	Post   map[string]interface{}
	Query  map[string]interface{}
	Params map[string]interface{}
	Data   map[string]interface{}
}
