package handlers

import (
	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/domain/form"
	"github.com/formwright/formengine/internal/thunk"
)

// ActionHandler evaluates a TRANSITION.ACTION node: runs its effects only
// when `when` is truthy (spec §4.6's "user-triggered action outside submit").
type ActionHandler struct{}

func (ActionHandler) Subkind() ast.Subkind { return ast.SubAction }

func (ActionHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	when := node.Child("when")
	if when != nil {
		v, err := ctx.Resolve(when.ID)
		if err != nil {
			return nil, err
		}
		if !truthy(v) {
			return &form.ActionOutcome{Executed: false}, nil
		}
	}
	for _, eff := range node.Children("effects") {
		if _, err := ctx.Resolve(eff.ID); err != nil {
			return nil, err
		}
	}
	return &form.ActionOutcome{Executed: true}, nil
}
