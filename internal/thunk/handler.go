// Package thunk defines the handler contract every node kind implements and
// the two-pass isAsync inference that decides, for each node, whether its
// evaluation requires the async path or can run synchronously inline
// (spec §4.5).
package thunk

import (
	"context"

	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/ports"
)

// Context is the per-evaluation state a handler reads from: the scope stack,
// collaborators, and a way to resolve a dependency's already-computed value.
// internal/eval provides the concrete implementation; handlers depend only on
// this interface so they stay independent of the evaluator's internals.
type Context interface {
	context.Context
	// Resolve resolves a dependency node's evaluated value, computing it (and
	// memoizing) on first access if it hasn't run yet.
	Resolve(nodeID string) (interface{}, error)
	// ResolveSync is Resolve's synchronous counterpart, usable only when the
	// target node's isAsync is known false.
	ResolveSync(nodeID string) (interface{}, error)
	// PushScope/PopScope manage the @scope.* binding stack used by iteration
	// and collection templates.
	PushScope(bindings map[string]interface{})
	PopScope()
	// Scope returns the current top-of-stack scope bindings.
	Scope() map[string]interface{}
	// Functions resolves author-registered condition/transformer/generator/
	// effect functions by name.
	Functions() ports.FunctionRegistry
	// Answers gives REFERENCE/remote-answer handling access to persisted
	// field values from earlier steps.
	Answers() ports.AnswerStore
	// Request returns the raw post/query/params/data snapshot for this
	// evaluation, backing the POST/QUERY/PARAMS/DATA pseudo nodes.
	Request() *ports.Request
	// SessionID identifies the journey session, used as the AnswerStore key.
	SessionID() string
}

// Invoker gives a handler a way to ask the evaluator to run another node (a
// per-item template, a branch) rather than resolving it as a plain value
// dependency — used by iterator/collection handlers evaluating per-element
// subtrees under a fresh scope.
type Invoker interface {
	Invoke(ctx Context, node *ast.Node) (interface{}, error)
	InvokeSync(ctx Context, node *ast.Node) (interface{}, error)
}

// Hooks lets a handler report runtime effects (redirect, answer writes, log
// emission) without depending on the application layer directly.
type Hooks interface {
	OnEffect(nodeID string, effect interface{})
}

// Handler is implemented once per ast.Subkind.
type Handler interface {
	Subkind() ast.Subkind
	// Evaluate runs the node to completion, async-safe.
	Evaluate(ctx Context, node *ast.Node, invoker Invoker, hooks Hooks) (interface{}, error)
}

// SyncCapableHandler is implemented by handlers whose node kind can
// short-circuit the async machinery when every dependency is itself sync
// (pure literals, references into already-resolved request data, etc).
type SyncCapableHandler interface {
	Handler
	EvaluateSync(ctx Context, node *ast.Node, invoker Invoker, hooks Hooks) (interface{}, error)
}
