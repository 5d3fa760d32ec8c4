package handlers

import (
	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/domain/form"
	"github.com/formwright/formengine/internal/thunk"
)

// AccessHandler evaluates a TRANSITION.ACCESS node: when `when` is falsy the
// gate is inert and no effects run; otherwise the effects run in order and
// the node resolves to whichever of redirect/throw the author configured
// (spec §4.6).
type AccessHandler struct{}

func (AccessHandler) Subkind() ast.Subkind { return ast.SubAccess }

func (AccessHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	when := node.Child("when")
	if when != nil {
		v, err := ctx.Resolve(when.ID)
		if err != nil {
			return nil, err
		}
		if !truthy(v) {
			return &form.AccessOutcome{Inert: true}, nil
		}
	}

	for _, eff := range node.Children("effects") {
		if _, err := ctx.Resolve(eff.ID); err != nil {
			return nil, err
		}
	}

	outcome := &form.AccessOutcome{}
	if redirect, err := resolve(ctx, mustProp(node, "redirect")); err != nil {
		return nil, err
	} else if s, ok := redirect.(string); ok {
		outcome.Redirect = s
	}
	if message, err := resolve(ctx, mustProp(node, "message")); err != nil {
		return nil, err
	} else if s, ok := message.(string); ok {
		outcome.ThrowMessage = s
	}
	if status, ok := mustProp(node, "status").(float64); ok {
		outcome.ThrowStatus = int(status)
	}
	return outcome, nil
}
