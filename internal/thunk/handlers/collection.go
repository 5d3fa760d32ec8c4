package handlers

import (
	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/thunk"
	"github.com/formwright/formengine/pkg/thunkerr"
)

// CollectionHandler evaluates a COLLECTION expression: a source array driving
// a repeated per-item `template` subtree (typically a dynamically-repeated
// field-group BLOCK), one of spec §4.6's two scope-producing constructs.
type CollectionHandler struct{}

func (CollectionHandler) Subkind() ast.Subkind { return ast.SubCollection }

func (CollectionHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	source := node.Child("source")
	if source == nil {
		return nil, thunkerr.NewThunkError(thunkerr.EvaluationFailed, node.ID, "collection node missing source", nil)
	}
	raw, err := ctx.Resolve(source.ID)
	if err != nil {
		return nil, err
	}
	items, err := asSlice(node.ID, raw)
	if err != nil {
		return nil, err
	}

	template := node.Child("template")
	out := make([]interface{}, len(items))
	for i, item := range items {
		if template == nil {
			out[i] = item
			continue
		}
		ctx.PushScope(itemScope(item, i))
		v, err := invoker.Invoke(ctx, template)
		ctx.PopScope()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
