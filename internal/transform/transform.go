// Package transform implements the recursive-descent JSON→AST transformer
// (spec §4.1). It owns node ID allocation; factories never mutate the raw
// JSON they are handed.
package transform

import (
	"fmt"

	"github.com/formwright/formengine/internal/ast"
	"github.com/formwright/formengine/pkg/thunkerr"
)

// Transformer walks a raw JSON-decoded document and produces an AST.
type Transformer struct {
	idGen *ast.IDGenerator
}

// New constructs a Transformer bound to the given ID generator. The same
// generator must be reused for the lifetime of one compilation.
func New(idGen *ast.IDGenerator) *Transformer {
	return &Transformer{idGen: idGen}
}

// Transform converts a raw JSON document (already decoded into Go values) into
// a root AST node. Node IDs are minted from idGen, which stays with the caller
// for the later compile stages.
func Transform(doc map[string]interface{}, idGen *ast.IDGenerator) (*ast.Node, error) {
	t := New(idGen)
	v, err := t.dispatch(doc, "$")
	if err != nil {
		return nil, err
	}
	node, ok := v.(*ast.Node)
	if !ok {
		return nil, thunkerr.NewCompileError(thunkerr.CompileUnknownNodeType, "$", "document root did not resolve to a node", nil, nil)
	}
	return node, nil
}

// dispatch transforms one raw JSON value. Literals pass through unchanged;
// arrays are transformed element-wise; objects are routed to a factory by
// their discriminator (expression/predicate/transition `type` tag, or
// structural shape for journeys/steps/blocks).
func (t *Transformer) dispatch(raw interface{}, path string) (interface{}, error) {
	switch v := raw.(type) {
	case nil, string, bool, float64, int, int64:
		return v, nil
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, elem := range v {
			transformed, err := t.dispatch(elem, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = transformed
		}
		return out, nil
	case map[string]interface{}:
		return t.dispatchObject(v, path)
	default:
		// Unknown scalar kind (e.g. json.Number from some decoders): treat as literal.
		return v, nil
	}
}

func (t *Transformer) dispatchObject(obj map[string]interface{}, path string) (interface{}, error) {
	if tag, ok := obj["type"].(string); ok {
		factory, ok := expressionFactories[tag]
		if !ok {
			return nil, thunkerr.NewCompileError(thunkerr.CompileUnknownNodeType, path, fmt.Sprintf("unknown expression type %q", tag), nil, nil)
		}
		return factory(t, obj, path)
	}

	switch {
	case hasKey(obj, "steps") && !hasKey(obj, "type"):
		return t.buildJourney(obj, path)
	case hasKey(obj, "blocks"):
		return t.buildStep(obj, path)
	case hasKey(obj, "variant"):
		return t.buildBlock(obj, path)
	default:
		// Plain literal object (e.g. a validation config map); pass through
		// after recursively transforming any nested expression values.
		return t.transformMap(obj, path)
	}
}

func hasKey(obj map[string]interface{}, key string) bool {
	_, ok := obj[key]
	return ok
}

// transformMap recursively transforms a literal map's values without
// reinterpreting the map itself as a node.
func (t *Transformer) transformMap(obj map[string]interface{}, path string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		transformed, err := t.dispatch(v, path+"."+k)
		if err != nil {
			return nil, err
		}
		out[k] = transformed
	}
	return out, nil
}

func (t *Transformer) nextID(category ast.IDCategory) string {
	return t.idGen.Next(category)
}

func (t *Transformer) field(obj map[string]interface{}, key, path string) (interface{}, error) {
	v, ok := obj[key]
	if !ok {
		return nil, nil
	}
	return t.dispatch(v, path+"."+key)
}

func (t *Transformer) nodeSliceField(obj map[string]interface{}, key, path string) ([]*ast.Node, error) {
	v, ok := obj[key]
	if !ok {
		return nil, nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, thunkerr.NewCompileError(thunkerr.CompileUnknownNodeType, path+"."+key, fmt.Sprintf("%s must be an array", key), nil, nil)
	}
	out := make([]*ast.Node, 0, len(raw))
	for i, elem := range raw {
		transformed, err := t.dispatch(elem, fmt.Sprintf("%s.%s[%d]", path, key, i))
		if err != nil {
			return nil, err
		}
		node, ok := transformed.(*ast.Node)
		if !ok {
			return nil, thunkerr.NewCompileError(thunkerr.CompileUnknownNodeType, fmt.Sprintf("%s.%s[%d]", path, key, i), "expected a node", nil, nil)
		}
		out = append(out, node)
	}
	return out, nil
}
