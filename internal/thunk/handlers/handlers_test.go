package handlers

import (
	"context"

	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/ports"
	"github.com/formwright/formengine/internal/thunk"
)

// fakeContext is a minimal, hand-rolled thunk.Context for exercising handlers
// in isolation: values are pre-seeded by node ID rather than computed lazily
// from a real graph, mirroring how a unit test would stub out the evaluator
// in the teacher's own executor tests.
type fakeContext struct {
	context.Context
	values    map[string]interface{}
	errs      map[string]error
	functions ports.FunctionRegistry
	answers   ports.AnswerStore
	request   *ports.Request
	scopes    []map[string]interface{}
	sessionID string
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		Context:   context.Background(),
		values:    map[string]interface{}{},
		errs:      map[string]error{},
		request:   &ports.Request{Post: map[string]interface{}{}, Query: map[string]interface{}{}, Params: map[string]interface{}{}, Data: map[string]interface{}{}},
		sessionID: "session-1",
	}
}

func (f *fakeContext) Resolve(nodeID string) (interface{}, error) {
	if err, ok := f.errs[nodeID]; ok {
		return nil, err
	}
	return f.values[nodeID], nil
}
func (f *fakeContext) ResolveSync(nodeID string) (interface{}, error) {
	return f.values[nodeID], nil
}
func (f *fakeContext) PushScope(bindings map[string]interface{}) {
	f.scopes = append(f.scopes, bindings)
}
func (f *fakeContext) PopScope() {
	if len(f.scopes) > 0 {
		f.scopes = f.scopes[:len(f.scopes)-1]
	}
}
func (f *fakeContext) Scope() map[string]interface{} {
	if len(f.scopes) == 0 {
		return nil
	}
	return f.scopes[len(f.scopes)-1]
}
func (f *fakeContext) Functions() ports.FunctionRegistry { return f.functions }
func (f *fakeContext) Answers() ports.AnswerStore        { return f.answers }
func (f *fakeContext) Request() *ports.Request           { return f.request }
func (f *fakeContext) SessionID() string                 { return f.sessionID }

// fakeInvoker runs a node's already-seeded value through the same Context
// lookup the real evaluator would use, which is all the collection/iterate
// handlers need from an Invoker in these tests.
type fakeInvoker struct{}

func (fakeInvoker) Invoke(ctx thunk.Context, node *ast.Node) (interface{}, error) {
	return ctx.Resolve(node.ID)
}
func (fakeInvoker) InvokeSync(ctx thunk.Context, node *ast.Node) (interface{}, error) {
	return ctx.Resolve(node.ID)
}

type fakeHooks struct {
	effects []string
}

func (h *fakeHooks) OnEffect(nodeID string, effect interface{}) {
	h.effects = append(h.effects, nodeID)
}

// fakeAnswerStore backs the reference handler's "answers" namespace in tests
// that need a remote-answer lookup.
type fakeAnswerStore struct {
	values map[string]interface{}
}

func (s *fakeAnswerStore) Get(ctx context.Context, sessionID, fieldCode string) (interface{}, bool, error) {
	v, ok := s.values[fieldCode]
	return v, ok, nil
}
func (s *fakeAnswerStore) Set(ctx context.Context, sessionID, fieldCode string, value interface{}) error {
	s.values[fieldCode] = value
	return nil
}
func (s *fakeAnswerStore) GetAll(ctx context.Context, sessionID string) (map[string]interface{}, error) {
	return s.values, nil
}

// fakeFunctionRegistry resolves exactly the functions a test registers.
type fakeFunctionRegistry struct {
	conditions   map[string]ports.ConditionFunc
	transformers map[string]ports.TransformerFunc
	generators   map[string]ports.GeneratorFunc
	effects      map[string]ports.EffectFunc
}

func newFakeFunctionRegistry() *fakeFunctionRegistry {
	return &fakeFunctionRegistry{
		conditions:   map[string]ports.ConditionFunc{},
		transformers: map[string]ports.TransformerFunc{},
		generators:   map[string]ports.GeneratorFunc{},
		effects:      map[string]ports.EffectFunc{},
	}
}

func (r *fakeFunctionRegistry) GetCondition(name string) (ports.ConditionFunc, error) {
	fn, ok := r.conditions[name]
	if !ok {
		return nil, errNotFound(name)
	}
	return fn, nil
}
func (r *fakeFunctionRegistry) GetTransformer(name string) (ports.TransformerFunc, error) {
	fn, ok := r.transformers[name]
	if !ok {
		return nil, errNotFound(name)
	}
	return fn, nil
}
func (r *fakeFunctionRegistry) GetGenerator(name string) (ports.GeneratorFunc, error) {
	fn, ok := r.generators[name]
	if !ok {
		return nil, errNotFound(name)
	}
	return fn, nil
}
func (r *fakeFunctionRegistry) GetEffect(name string) (ports.EffectFunc, error) {
	fn, ok := r.effects[name]
	if !ok {
		return nil, errNotFound(name)
	}
	return fn, nil
}

type notFoundErr string

func (e notFoundErr) Error() string { return "function not registered: " + string(e) }
func errNotFound(name string) error { return notFoundErr(name) }

func newTestNode(id string, kind ast.Kind, sub ast.Subkind, props map[string]interface{}) *ast.Node {
	return ast.NewNode(id, kind, sub, props, nil)
}
