package handlers

import (
	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/thunk"
	"github.com/formwright/formengine/pkg/thunkerr"
)

// iterate evaluates the shared machinery of the three ITERATE_* subkinds:
// resolve the collection, then run a per-item template under a fresh @scope
// binding (the item's own fields spread in, plus @index/@value), re-sorted at
// runtime rather than statically wired (spec §4.6).
func iterate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, useTemplate, usePredicate bool) ([]interface{}, []bool, error) {
	collection := node.Child("collection")
	if collection == nil {
		return nil, nil, thunkerr.NewThunkError(thunkerr.EvaluationFailed, node.ID, "iterate node missing collection", nil)
	}
	raw, err := ctx.Resolve(collection.ID)
	if err != nil {
		return nil, nil, err
	}
	items, err := asSlice(node.ID, raw)
	if err != nil {
		return nil, nil, err
	}

	transformed := make([]interface{}, len(items))
	predicateResults := make([]bool, len(items))

	predicateNode := node.Child("predicate")
	transformNode := node.Child("transform")

	for i, item := range items {
		ctx.PushScope(itemScope(item, i))

		if usePredicate && predicateNode != nil {
			v, err := invoker.Invoke(ctx, predicateNode)
			if err != nil {
				ctx.PopScope()
				return nil, nil, err
			}
			predicateResults[i] = truthy(v)
		}
		if useTemplate && transformNode != nil {
			v, err := invoker.Invoke(ctx, transformNode)
			if err != nil {
				ctx.PopScope()
				return nil, nil, err
			}
			transformed[i] = v
		} else {
			transformed[i] = item
		}

		ctx.PopScope()
	}
	return transformed, predicateResults, nil
}

// IterateFilterHandler evaluates an ITERATE_FILTER expression.
type IterateFilterHandler struct{}

func (IterateFilterHandler) Subkind() ast.Subkind { return ast.SubIterateFilter }

func (IterateFilterHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	items, keep, err := iterate(ctx, node, invoker, false, true)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, 0, len(items))
	for i, item := range items {
		if keep[i] {
			out = append(out, item)
		}
	}
	return out, nil
}

// IterateMapHandler evaluates an ITERATE_MAP expression.
type IterateMapHandler struct{}

func (IterateMapHandler) Subkind() ast.Subkind { return ast.SubIterateMap }

func (IterateMapHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	items, _, err := iterate(ctx, node, invoker, true, false)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// IterateFindHandler evaluates an ITERATE_FIND expression, returning the
// first element whose predicate evaluates truthy, or nil if none match.
type IterateFindHandler struct{}

func (IterateFindHandler) Subkind() ast.Subkind { return ast.SubIterateFind }

func (IterateFindHandler) Evaluate(ctx thunk.Context, node *ast.Node, invoker thunk.Invoker, hooks thunk.Hooks) (interface{}, error) {
	items, keep, err := iterate(ctx, node, invoker, false, true)
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		if keep[i] {
			return item, nil
		}
	}
	return nil, nil
}
