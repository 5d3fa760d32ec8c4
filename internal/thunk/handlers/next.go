package handlers

import (
	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/thunk"
)

// NextHandler evaluates a NEXT expression: if `when` is truthy (or absent),
// it yields its `goto` target; otherwise nil, signalling the submit
// transition should try the next Next entry in the branch (spec §6).
type NextHandler struct{}

func (NextHandler) Subkind() ast.Subkind { return ast.SubNext }

func (NextHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	when := node.Child("when")
	fires := true
	if when != nil {
		v, err := ctx.Resolve(when.ID)
		if err != nil {
			return nil, err
		}
		fires = truthy(v)
	}
	if !fires {
		return nil, nil
	}
	return resolve(ctx, mustProp(node, "goto"))
}
