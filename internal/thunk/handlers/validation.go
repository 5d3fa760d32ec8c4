package handlers

import (
	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/domain/form"
	"github.com/formwright/formengine/internal/thunk"
)

// ValidationHandler evaluates a VALIDATION expression: if `when` is truthy,
// it produces a form.ValidationMessage; otherwise it produces nil. fieldId
// comes straight off the node property — the registration traverser
// (internal/register) stamps it there from the nearest enclosing field
// block's code, since the form JSON's own validation objects never carry one.
type ValidationHandler struct{}

func (ValidationHandler) Subkind() ast.Subkind { return ast.SubValidation }

func (ValidationHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
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
	return &form.ValidationMessage{
		FieldID: node.StringProp("fieldId"),
		Message: msgStr,
	}, nil
}
