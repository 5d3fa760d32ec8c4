package handlers

import (
	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/thunk"
)

// ThrowOutcome is the value a THROW_ERROR node yields when it fires: enough
// to let a transition handler short-circuit with an HTTP-style status and
// message (spec §6).
type ThrowOutcome struct {
	Status  int
	Message string
}

// ThrowErrorHandler evaluates a THROW_ERROR expression.
type ThrowErrorHandler struct{}

func (ThrowErrorHandler) Subkind() ast.Subkind { return ast.SubThrowError }

func (ThrowErrorHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
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

	message, err := resolve(ctx, mustProp(node, "message"))
	if err != nil {
		return nil, err
	}
	msgStr, _ := message.(string)

	status := 0
	if s, ok := mustProp(node, "status").(float64); ok {
		status = int(s)
	}
	return &ThrowOutcome{Status: status, Message: msgStr}, nil
}
