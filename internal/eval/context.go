// Package eval implements the pull-based thunk evaluator: given a compiled
// form and a request snapshot, it resolves any node's value on demand,
// memoizing per node ID within the current scope frame and walking
// dependencies recursively. Correct ordering falls naturally out of the
// recursion; the isAsync classification computed by internal/thunk marks
// which nodes could run off the critical path in a concurrent scheduler, a
// hook this evaluator leaves in place for a future goroutine-per-branch
// dispatcher rather than exploiting it itself (spec §4.5).
package eval

import (
	"context"
	"fmt"
	"sync"

	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/ports"
	"github.com/formwright/formengine/internal/registry"
	"github.com/formwright/formengine/internal/thunk"
)

// EffectRecord is one FUNCTION_EFFECT invocation observed during an evaluation.
type EffectRecord struct {
	NodeID string
	Effect interface{}
}

// Context is the concrete thunk.Context + thunk.Invoker implementation bound
// to one transition evaluation.
type Context struct {
	context.Context

	nodes    *registry.NodeRegistry
	handlers *registry.ThunkHandlerRegistry
	isAsync  map[string]bool

	functions ports.FunctionRegistry
	answers   ports.AnswerStore
	request   *ports.Request
	sessionID string

	// frameMu guards scopeStack and memoStack together: every PushScope/
	// PopScope moves both in lockstep, so a single mutex keeps "current
	// scope frame" and "current memo frame" from ever drifting apart.
	frameMu    sync.Mutex
	scopeStack []map[string]interface{}
	// memoStack mirrors scopeStack one-for-one, plus an always-present base
	// frame below any pushed scope. A Collection/Iterate template is the
	// same shared AST subtree re-invoked once per item, so memoizing by node
	// ID alone would conflate one item's resolved value with the next's;
	// scoping the memo to the current frame — fresh on every PushScope,
	// discarded on PopScope — keeps each item's resolutions isolated without
	// requiring runtime-cloned per-item nodes.
	memoStack []map[string]interface{}

	effectsMu sync.Mutex
	effects   []EffectRecord
}

// New constructs an evaluation Context for one LOAD/ACCESS/ACTION/SUBMIT run.
func New(
	parent context.Context,
	nodes *registry.NodeRegistry,
	handlers *registry.ThunkHandlerRegistry,
	isAsync map[string]bool,
	functions ports.FunctionRegistry,
	answers ports.AnswerStore,
	request *ports.Request,
	sessionID string,
) *Context {
	return &Context{
		Context:   parent,
		nodes:     nodes,
		handlers:  handlers,
		isAsync:   isAsync,
		functions: functions,
		answers:   answers,
		request:   request,
		sessionID: sessionID,
		memoStack: []map[string]interface{}{make(map[string]interface{})},
	}
}

func (c *Context) Functions() ports.FunctionRegistry { return c.functions }
func (c *Context) Answers() ports.AnswerStore        { return c.answers }
func (c *Context) Request() *ports.Request           { return c.request }
func (c *Context) SessionID() string                 { return c.sessionID }

// Effects returns every FUNCTION_EFFECT invocation observed so far, in the
// order they ran.
func (c *Context) Effects() []EffectRecord {
	c.effectsMu.Lock()
	defer c.effectsMu.Unlock()
	out := make([]EffectRecord, len(c.effects))
	copy(out, c.effects)
	return out
}

func (c *Context) OnEffect(nodeID string, effect interface{}) {
	c.effectsMu.Lock()
	defer c.effectsMu.Unlock()
	c.effects = append(c.effects, EffectRecord{NodeID: nodeID, Effect: effect})
}

func (c *Context) PushScope(bindings map[string]interface{}) {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()
	c.scopeStack = append(c.scopeStack, bindings)
	c.memoStack = append(c.memoStack, make(map[string]interface{}))
}

func (c *Context) PopScope() {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()
	if len(c.scopeStack) > 0 {
		c.scopeStack = c.scopeStack[:len(c.scopeStack)-1]
	}
	if len(c.memoStack) > 1 {
		c.memoStack = c.memoStack[:len(c.memoStack)-1]
	}
}

func (c *Context) Scope() map[string]interface{} {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()
	if len(c.scopeStack) == 0 {
		return nil
	}
	return c.scopeStack[len(c.scopeStack)-1]
}

// Resolve resolves nodeID's value against the current memo frame, computing
// and memoizing it there on first access. A node resolved inside a
// Collection/Iterate item's pushed scope memoizes into that item's own
// frame, not the shared base frame, so the next item (same shared template
// node IDs, fresh scope frame) recomputes rather than reusing the previous
// item's value.
func (c *Context) Resolve(nodeID string) (interface{}, error) {
	c.frameMu.Lock()
	top := c.memoStack[len(c.memoStack)-1]
	if v, ok := top[nodeID]; ok {
		c.frameMu.Unlock()
		return v, nil
	}
	c.frameMu.Unlock()

	node, ok := c.nodes.Get(nodeID)
	if !ok {
		return nil, fmt.Errorf("eval: unknown node %q", nodeID)
	}
	v, err := c.Invoke(c, node)
	if err != nil {
		return nil, err
	}

	c.frameMu.Lock()
	c.memoStack[len(c.memoStack)-1][nodeID] = v
	c.frameMu.Unlock()
	return v, nil
}

// ResolveSync is Resolve's synchronous counterpart; this single-threaded
// evaluator's Resolve is already synchronous, so the two coincide. Callers use
// ResolveSync only where the isAsync classification guarantees it's safe.
func (c *Context) ResolveSync(nodeID string) (interface{}, error) {
	return c.Resolve(nodeID)
}

// Invoke runs node's handler once, unmemoized — the path used both by Resolve
// (which wraps it with memoization) and directly by iterate/collection
// handlers evaluating a per-item template under a fresh scope.
func (c *Context) Invoke(ctx thunk.Context, node *ast.Node) (interface{}, error) {
	h, ok := c.handlers.Get(node.Subkind)
	if !ok {
		return nil, fmt.Errorf("eval: no thunk handler registered for subkind %s", node.Subkind)
	}
	handler, ok := h.(thunk.Handler)
	if !ok {
		return nil, fmt.Errorf("eval: handler for subkind %s does not implement thunk.Handler", node.Subkind)
	}
	if sync, ok := handler.(thunk.SyncCapableHandler); ok && !c.isAsync[node.ID] {
		return sync.EvaluateSync(ctx, node, c, c)
	}
	return handler.Evaluate(ctx, node, c, c)
}

// InvokeSync type-checks that node is classified sync before running it
// through the synchronous path, erroring otherwise rather than silently
// falling back to the (possibly blocking) async path.
func (c *Context) InvokeSync(ctx thunk.Context, node *ast.Node) (interface{}, error) {
	if c.isAsync[node.ID] {
		return nil, fmt.Errorf("eval: node %q is classified async, cannot InvokeSync", node.ID)
	}
	return c.Invoke(ctx, node)
}
