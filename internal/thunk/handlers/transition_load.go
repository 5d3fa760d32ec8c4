package handlers

import (
	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/thunk"
)

// LoadHandler evaluates a TRANSITION.LOAD node: run every effect in order,
// unconditionally (spec §4.6 — LOAD carries no `when` gate). The application
// layer is responsible for assembling the resulting RenderContext from the
// step's blocks; this handler's only job is the side effects.
type LoadHandler struct{}

func (LoadHandler) Subkind() ast.Subkind { return ast.SubLoad }

func (LoadHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	for _, eff := range node.Children("effects") {
		if _, err := ctx.Resolve(eff.ID); err != nil {
			return nil, err
		}
	}
	return nil, nil
}
