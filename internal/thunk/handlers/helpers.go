// Package handlers implements one thunk.Handler per ast.Subkind: the leaves
// of the compiler pipeline that actually know how to produce a value or run
// an effect for a given node kind (spec §4.5-§4.6).
package handlers

import (
	"fmt"

	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/internal/thunk"
	"github.com/formwright/formengine/pkg/thunkerr"
)

// resolve evaluates a property value that may be a literal or a *ast.Node
// dependency, via the async-safe path.
func resolve(ctx thunk.Context, v interface{}) (interface{}, error) {
	if node, ok := v.(*ast.Node); ok {
		return ctx.Resolve(node.ID)
	}
	return v, nil
}

// resolveAll evaluates a heterogeneous []interface{} (ast.Node.Items result).
func resolveAll(ctx thunk.Context, items []interface{}) ([]interface{}, error) {
	out := make([]interface{}, len(items))
	for i, item := range items {
		v, err := resolve(ctx, item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// truthy implements the engine's boolean coercion for predicate results:
// false, nil, 0, "", and empty slices/maps are falsy; everything else truthy.
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case int:
		return val != 0
	case []interface{}:
		return len(val) > 0
	case map[string]interface{}:
		return len(val) > 0
	default:
		return true
	}
}

func asBool(nodeID string, v interface{}) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, thunkerr.NewTypeMismatch(nodeID, "bool", fmt.Sprintf("%T", v))
	}
	return b, nil
}

func asSlice(nodeID string, v interface{}) ([]interface{}, error) {
	s, ok := v.([]interface{})
	if !ok {
		return nil, thunkerr.NewTypeMismatch(nodeID, "array", fmt.Sprintf("%T", v))
	}
	return s, nil
}

// itemScope builds the @scope frame pushed for one iteration of an
// ITERATE_*/COLLECTION item (spec §4.6): the item's own fields spread
// directly (so `Reference(['@scope','name'])` resolves a map item's `name`
// key), plus `@index` and `@value` giving access to the position and the
// whole item regardless of its shape.
func itemScope(item interface{}, index int) map[string]interface{} {
	frame := map[string]interface{}{"@index": index, "@value": item}
	if m, ok := item.(map[string]interface{}); ok {
		for k, v := range m {
			frame[k] = v
		}
	}
	return frame
}
