package handlers

import (
	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/thunk"
)

// ConditionalHandler evaluates a CONDITIONAL expression: thenValue if
// predicate is truthy, otherwise elseValue. Only the winning branch is
// actually evaluated — the losing branch's dependency edge in the static
// graph is a conservative over-approximation, not an eager evaluation
// (spec §4.6).
type ConditionalHandler struct{}

func (ConditionalHandler) Subkind() ast.Subkind { return ast.SubConditional }

func (ConditionalHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	predicate := node.Child("predicate")
	var cond interface{}
	var err error
	if predicate != nil {
		cond, err = ctx.Resolve(predicate.ID)
	} else {
		cond, err = resolve(ctx, nil)
	}
	if err != nil {
		return nil, err
	}

	if truthy(cond) {
		return resolveOr(ctx, node, "thenValue", true)
	}
	return resolveOr(ctx, node, "elseValue", false)
}

func mustProp(node *ast.Node, key string) interface{} {
	v, _ := node.Prop(key)
	return v
}

// resolveOr resolves node's key property, substituting def when it was
// omitted from the form JSON (the transformer still sets the prop key in
// that case, just to a nil literal) — spec §4.6: a Conditional's
// thenValue/elseValue default to true/false when omitted.
func resolveOr(ctx thunk.Context, node *ast.Node, key string, def bool) (interface{}, error) {
	v, err := resolve(ctx, mustProp(node, key))
	if err != nil {
		return nil, err
	}
	if v == nil {
		return def, nil
	}
	return v, nil
}
